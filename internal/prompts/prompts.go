// Package prompts implements the pr-agent MCP prompts.
//
// Most prompts are fixed instructions telling the assistant which tools to
// call and how to shape the answer. review_pull_request is the exception:
// it runs the change analysis and workflow status itself and embeds the
// results.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StaticPrompt is a prompt whose text never changes.
type StaticPrompt struct {
	name        string
	description string
	text        string
}

// Definition returns the MCP prompt definition for registration.
func (p *StaticPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt(p.name, mcp.WithPromptDescription(p.description))
}

// Handle processes the prompt request.
func (p *StaticPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: p.description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(p.text),
			},
		},
	}, nil
}

// Static returns every fixed-text prompt in registration order.
func Static() []*StaticPrompt {
	return []*StaticPrompt{
		NewAnalyzeCIResultsPrompt(),
		NewDeploymentSummaryPrompt(),
		NewPRStatusReportPrompt(),
		NewTroubleshootPrompt(),
		NewIncidentDashboardPrompt(),
		NewFailureAlertPrompt(),
		NewSuccessSummaryPrompt(),
	}
}
