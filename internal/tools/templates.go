package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/pr-agent/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// TemplateSource lists PR templates and picks one for a change.
// *templates.Store satisfies it.
type TemplateSource interface {
	List() ([]templates.Template, error)
	Suggest(summary, changeType string) (*templates.Suggestion, error)
}

// TemplatesTool handles the get_pr_templates MCP tool.
type TemplatesTool struct {
	source TemplateSource
}

// NewTemplatesTool creates a TemplatesTool.
func NewTemplatesTool(source TemplateSource) *TemplatesTool {
	return &TemplatesTool{source: source}
}

// Definition returns the MCP tool definition for registration.
func (t *TemplatesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_pr_templates",
		mcp.WithDescription("List available PR templates with their content."),
	)
}

// Handle processes the get_pr_templates tool call.
func (t *TemplatesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.source.List()
	if err != nil {
		return errorResult(fmt.Sprintf("loading templates: %v", err)), nil
	}
	return jsonResult(list)
}

// SuggestTemplateTool handles the suggest_template MCP tool.
type SuggestTemplateTool struct {
	source TemplateSource
}

// NewSuggestTemplateTool creates a SuggestTemplateTool.
func NewSuggestTemplateTool(source TemplateSource) *SuggestTemplateTool {
	return &SuggestTemplateTool{source: source}
}

// Definition returns the MCP tool definition for registration.
func (t *SuggestTemplateTool) Definition() mcp.Tool {
	return mcp.NewTool("suggest_template",
		mcp.WithDescription(
			"Suggest the most appropriate PR template for a change you have analyzed. "+
				"Call analyze_file_changes first, then describe the change here.",
		),
		mcp.WithString("changes_summary",
			mcp.Required(),
			mcp.Description("Your analysis of what the changes do."),
		),
		mcp.WithString("change_type",
			mcp.Required(),
			mcp.Description("The type of change you identified: bug, fix, feature, enhancement, refactor, cleanup, security, vulnerability, docs, test..."),
		),
	)
}

// Handle processes the suggest_template tool call.
func (t *SuggestTemplateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := req.GetString("changes_summary", "")
	changeType := req.GetString("change_type", "")
	if summary == "" {
		return errorResult("changes_summary is required"), nil
	}
	if changeType == "" {
		return errorResult("change_type is required"), nil
	}

	suggestion, err := t.source.Suggest(summary, changeType)
	if err != nil {
		return errorResult(fmt.Sprintf("loading templates: %v", err)), nil
	}
	return jsonResult(suggestion)
}
