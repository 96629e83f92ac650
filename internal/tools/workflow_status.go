package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/mark3labs/mcp-go/mcp"
)

// WorkflowStatusTool handles the get_workflow_status MCP tool.
type WorkflowStatusTool struct {
	events EventQuerier
}

// NewWorkflowStatusTool creates a WorkflowStatusTool.
func NewWorkflowStatusTool(q EventQuerier) *WorkflowStatusTool {
	return &WorkflowStatusTool{events: q}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkflowStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("get_workflow_status",
		mcp.WithDescription(
			"Get the current status of GitHub Actions workflows grouped by repository, "+
				"with the time elapsed since each run was last updated.",
		),
		mcp.WithString("conclusion",
			mcp.Description("Only include runs with exactly this conclusion: success, failure, cancelled, skipped..."),
		),
	)
}

// Handle processes the get_workflow_status tool call.
func (t *WorkflowStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := t.events.Status(ctx, req.GetString("conclusion", ""))
	if errors.Is(err, events.ErrNoEvents) {
		return messageResult(events.NoEventsMessage)
	}
	if err != nil {
		return errorResult(fmt.Sprintf("reading events: %v", err)), nil
	}
	return jsonResult(summary)
}
