package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/mark3labs/mcp-go/mcp"
)

// UnseenEventsTool handles the get_unseen_events MCP tool.
type UnseenEventsTool struct {
	events EventQuerier
}

// NewUnseenEventsTool creates an UnseenEventsTool.
func NewUnseenEventsTool(q EventQuerier) *UnseenEventsTool {
	return &UnseenEventsTool{events: q}
}

// Definition returns the MCP tool definition for registration.
func (t *UnseenEventsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_unseen_events",
		mcp.WithDescription(
			"Get GitHub Actions events that have not been seen yet. "+
				"Each event carries an event_id usable with mark_events_as_seen.",
		),
		mcp.WithBoolean("mark_as_seen",
			mcp.Description("Mark the returned events as seen. Default: false."),
		),
	)
}

// Handle processes the get_unseen_events tool call.
func (t *UnseenEventsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.events.Unseen(ctx, boolArg(req, "mark_as_seen", false))
	if errors.Is(err, events.ErrNoEvents) {
		return messageResult(events.NoEventsMessage)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("reading unseen events: %v", err)), nil
	}
	return jsonResult(result)
}
