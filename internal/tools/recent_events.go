package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecentEventsTool handles the get_recent_actions_events MCP tool.
type RecentEventsTool struct {
	events EventQuerier
}

// NewRecentEventsTool creates a RecentEventsTool.
func NewRecentEventsTool(q EventQuerier) *RecentEventsTool {
	return &RecentEventsTool{events: q}
}

// Definition returns the MCP tool definition for registration.
func (t *RecentEventsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_recent_actions_events",
		mcp.WithDescription("Get recent GitHub Actions events received via webhook, oldest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of events to return. Default: 10."),
		),
	)
}

// Handle processes the get_recent_actions_events tool call.
func (t *RecentEventsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", events.DefaultRecentLimit)
	if limit <= 0 {
		return errorResult("limit must be a positive number"), nil
	}

	evs, err := t.events.Recent(ctx, limit)
	if err != nil {
		return errorResult(fmt.Sprintf("reading events: %v", err)), nil
	}
	if evs == nil {
		evs = []events.Event{}
	}
	return jsonResult(evs)
}
