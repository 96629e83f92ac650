package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/mark3labs/mcp-go/mcp"
)

// MarkSeenTool handles the mark_events_as_seen MCP tool.
type MarkSeenTool struct {
	events EventQuerier
}

// NewMarkSeenTool creates a MarkSeenTool.
func NewMarkSeenTool(q EventQuerier) *MarkSeenTool {
	return &MarkSeenTool{events: q}
}

// Definition returns the MCP tool definition for registration.
func (t *MarkSeenTool) Definition() mcp.Tool {
	return mcp.NewTool("mark_events_as_seen",
		mcp.WithDescription(
			"Mark events as seen so they no longer appear in get_unseen_events. "+
				"IDs are stored as given and are not checked against the event log.",
		),
		mcp.WithArray("event_ids",
			mcp.Required(),
			mcp.Description("Event IDs to mark, in the form timestamp:event_type:repository."),
			mcp.WithStringItems(),
		),
	)
}

// Handle processes the mark_events_as_seen tool call.
func (t *MarkSeenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.events.MarkSeen(ctx, stringSliceArg(req, "event_ids"))
	if errors.Is(err, events.ErrNoEventIDs) {
		return errorResult("No event IDs provided"), nil
	}
	if err != nil {
		return errorResult(fmt.Sprintf("updating seen-state: %v", err)), nil
	}
	return jsonResult(result)
}
