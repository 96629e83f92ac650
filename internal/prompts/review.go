package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/HendryAvila/pr-agent/internal/gitdiff"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusReader reports workflow status. *events.Pipeline satisfies it.
type StatusReader interface {
	Status(ctx context.Context, conclusion string) (*events.StatusSummary, error)
}

// ReviewPrompt handles the review_pull_request MCP prompt. Unlike the
// static prompts it gathers the change analysis and CI status up front.
type ReviewPrompt struct {
	analyze func(ctx context.Context, opts gitdiff.Options) (*gitdiff.Analysis, error)
	status  StatusReader
	log     *slog.Logger
}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt(
	analyze func(ctx context.Context, opts gitdiff.Options) (*gitdiff.Analysis, error),
	status StatusReader,
) *ReviewPrompt {
	return &ReviewPrompt{
		analyze: analyze,
		status:  status,
		log:     slog.Default().With("component", "prompts"),
	}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("review_pull_request",
		mcp.WithPromptDescription(
			"Provide a structured PR review combining the current code changes and CI/CD status.",
		),
	)
}

// Handle processes the review_pull_request prompt request. Failures of
// either collaborator are embedded as JSON errors rather than failing the
// prompt.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	changes := p.changesJSON(ctx)
	status := p.statusJSON(ctx)

	text := fmt.Sprintf(`# 🧠 PR Review Assistant

## 🔍 Code Changes Summary
`+"```json\n%s\n```"+`

## 🔄 CI/CD Status
`+"```json\n%s\n```"+`

## 📋 Review
Using the changes and CI status above, write a review with:

### ✅ What's Working Well
What the change does right, and which checks pass.

### ⚠️ Areas for Attention
Risky or unclear changes, and any failing or pending workflows.

### 🎯 Next Steps
1. What to look at in detail
2. Which checks must pass before merge
3. How to address any workflow failures`, changes, status)

	return &mcp.GetPromptResult{
		Description: "PR Review",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(text),
			},
		},
	}, nil
}

func (p *ReviewPrompt) changesJSON(ctx context.Context) string {
	dir, err := os.Getwd()
	if err != nil {
		return errorJSON(fmt.Sprintf("getting working directory: %v", err))
	}
	analysis, err := p.analyze(ctx, gitdiff.Options{
		Dir:          dir,
		BaseBranch:   gitdiff.DefaultBaseBranch,
		IncludeDiff:  true,
		MaxDiffLines: gitdiff.DefaultMaxDiffLines,
	})
	if err != nil {
		p.log.Debug("change analysis failed", "error", err)
		return errorJSON(fmt.Sprintf("Git error: %v", err))
	}
	return indent(analysis)
}

func (p *ReviewPrompt) statusJSON(ctx context.Context) string {
	summary, err := p.status.Status(ctx, "")
	if errors.Is(err, events.ErrNoEvents) {
		return indent(map[string]string{"message": events.NoEventsMessage})
	}
	if err != nil {
		return errorJSON(fmt.Sprintf("reading events: %v", err))
	}
	return indent(summary)
}

func indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorJSON(err.Error())
	}
	return string(data)
}

func errorJSON(message string) string {
	data, _ := json.MarshalIndent(map[string]string{"error": message}, "", "  ")
	return string(data)
}
