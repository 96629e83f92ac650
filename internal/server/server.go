// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the concrete stores from the
// config and injects them into the tools, prompts and resources. No
// business logic lives here.
package server

import (
	"fmt"
	"log/slog"

	"github.com/HendryAvila/pr-agent/internal/config"
	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/HendryAvila/pr-agent/internal/gitdiff"
	"github.com/HendryAvila/pr-agent/internal/notify"
	"github.com/HendryAvila/pr-agent/internal/prompts"
	"github.com/HendryAvila/pr-agent/internal/resources"
	"github.com/HendryAvila/pr-agent/internal/state"
	"github.com/HendryAvila/pr-agent/internal/templates"
	"github.com/HendryAvila/pr-agent/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// OpenSeenStore opens the seen-state backend selected by cfg. The returned
// cleanup function is always non-nil.
func OpenSeenStore(cfg *config.Config) (state.Store, func(), error) {
	switch cfg.State.Backend {
	case config.BackendSQLite:
		st, err := state.NewSQLiteStore(cfg.SQLitePath())
		if err != nil {
			return nil, noop, fmt.Errorf("opening seen-state database: %w", err)
		}
		return st, func() {
			if err := st.Close(); err != nil {
				slog.Warn("closing seen-state database", "error", err)
			}
		}, nil
	default:
		return state.NewFileStore(cfg.StatePath()), noop, nil
	}
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. evs is the event log shared with the webhook
// receiver when both run in one process.
//
// The returned cleanup function closes the seen-state store and must be
// called on shutdown. It is always non-nil.
func New(cfg *config.Config, evs events.Source) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	seen, cleanup, err := OpenSeenStore(cfg)
	if err != nil {
		return nil, noop, err
	}

	pipeline := events.NewPipeline(evs, seen)
	tmpl := templates.NewStore(cfg.TemplatesPath())
	slack := notify.NewSlack(cfg.Slack.WebhookURL, cfg.Slack.Timeout)
	if !slack.Configured() {
		slog.Info("slack webhook not configured; send_slack_notification will report an error")
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"pr-agent",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register PR tools ---

	analyzeTool := tools.NewAnalyzeChangesTool(gitdiff.Analyze)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	templatesTool := tools.NewTemplatesTool(tmpl)
	s.AddTool(templatesTool.Definition(), templatesTool.Handle)

	suggestTool := tools.NewSuggestTemplateTool(tmpl)
	s.AddTool(suggestTool.Definition(), suggestTool.Handle)

	// --- Register CI event tools ---

	recentTool := tools.NewRecentEventsTool(pipeline)
	s.AddTool(recentTool.Definition(), recentTool.Handle)

	statusTool := tools.NewWorkflowStatusTool(pipeline)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	unseenTool := tools.NewUnseenEventsTool(pipeline)
	s.AddTool(unseenTool.Definition(), unseenTool.Handle)

	failuresTool := tools.NewNewFailuresTool(pipeline)
	s.AddTool(failuresTool.Definition(), failuresTool.Handle)

	markTool := tools.NewMarkSeenTool(pipeline)
	s.AddTool(markTool.Definition(), markTool.Handle)

	// --- Register notification tools ---

	teamTool := tools.NewTeamNotificationTool(cfg.TeamConfigPath())
	s.AddTool(teamTool.Definition(), teamTool.Handle)

	slackTool := tools.NewSlackNotificationTool(slack)
	s.AddTool(slackTool.Definition(), slackTool.Handle)

	// --- Register prompts ---

	for _, p := range prompts.Static() {
		s.AddPrompt(p.Definition(), p.Handle)
	}
	reviewPrompt := prompts.NewReviewPrompt(gitdiff.Analyze, pipeline)
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(pipeline, cfg.TeamConfigPath())
	s.AddResource(resourceHandler.SeenStateResource(), resourceHandler.HandleSeenState)
	s.AddResource(resourceHandler.TeamConfigResource(), resourceHandler.HandleTeamConfig)

	return s, cleanup, nil
}

// noop is the cleanup used when there is nothing to release.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use pr-agent.
func serverInstructions() string {
	return `You have access to pr-agent, a pull request and CI/CD assistant.

## Pull requests
1. Call analyze_file_changes to see the changed files, statistics, commits and diff
   against the base branch (default main). Use include_diff=false or a smaller
   max_diff_lines for large changes.
2. Decide what kind of change it is, then call suggest_template with your summary
   and change type. get_pr_templates lists every template.

## CI/CD events
Events arrive from GitHub webhooks and are stored locally.
- get_recent_actions_events: the latest raw events.
- get_workflow_status: runs grouped by repository and workflow; filter with conclusion.
- get_unseen_events: events not acknowledged yet; pass mark_as_seen=true to acknowledge them.
- get_new_failures: failures in the last since_hours (or a since phrase like "yesterday").
- mark_events_as_seen: acknowledge specific event IDs after handling them.

## Notifications
- suggest_team_notification tells you who owns a failing workflow.
- send_slack_notification posts to the team channel. Format the message first with
  the format_ci_failure_alert or format_ci_success_summary prompt; Slack links use
  <https://url|text> and bold uses *text*.`
}
