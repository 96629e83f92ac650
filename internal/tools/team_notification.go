package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/team"
	"github.com/mark3labs/mcp-go/mcp"
)

// TeamNotificationTool handles the suggest_team_notification MCP tool.
// The team config file is re-read on every call so edits apply without a
// restart.
type TeamNotificationTool struct {
	configPath string
}

// NewTeamNotificationTool creates a TeamNotificationTool reading the team
// config from configPath.
func NewTeamNotificationTool(configPath string) *TeamNotificationTool {
	return &TeamNotificationTool{configPath: configPath}
}

// notificationResult is the router output plus where its config came from.
type notificationResult struct {
	*team.Recommendation
	ConfigFileLocation string `json:"config_file_location"`
	ConfigExists       bool   `json:"config_exists"`
}

// Definition returns the MCP tool definition for registration.
func (t *TeamNotificationTool) Definition() mcp.Tool {
	return mcp.NewTool("suggest_team_notification",
		mcp.WithDescription(
			"Suggest which team members to notify about a failing workflow, "+
				"based on repository owners, expertise and the on-call rotation.",
		),
		mcp.WithString("repository",
			mcp.Required(),
			mcp.Description("Repository name, e.g. 'user/repo'."),
		),
		mcp.WithString("workflow_name",
			mcp.Required(),
			mcp.Description("Name of the failing workflow."),
		),
		mcp.WithString("failure_type",
			mcp.Description("Type of failure. Defaults to general."),
			mcp.Enum(team.Categories...),
		),
	)
}

// Handle processes the suggest_team_notification tool call.
func (t *TeamNotificationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repository := req.GetString("repository", "")
	workflow := req.GetString("workflow_name", "")
	if repository == "" {
		return errorResult("repository is required"), nil
	}
	if workflow == "" {
		return errorResult("workflow_name is required"), nil
	}

	cfg, exists, err := team.Load(t.configPath)
	if err != nil {
		return errorResult(fmt.Sprintf("loading team config: %v", err)), nil
	}

	rec := team.Suggest(cfg, repository, workflow, req.GetString("failure_type", team.CategoryGeneral))
	return jsonResult(notificationResult{
		Recommendation:     rec,
		ConfigFileLocation: t.configPath,
		ConfigExists:       exists,
	})
}
