package prompts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/HendryAvila/pr-agent/internal/gitdiff"
	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	if result == nil || len(result.Messages) != 1 {
		t.Fatalf("expected exactly one message, got %+v", result)
	}
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Messages[0].Content)
	}
	return tc.Text
}

func TestStatic_NamesAndTools(t *testing.T) {
	// Each prompt must point the assistant at the tools it relies on.
	wantTools := map[string][]string{
		"analyze_ci_results":            {"get_recent_actions_events", "get_workflow_status"},
		"create_deployment_summary":     {"get_workflow_status"},
		"generate_pr_status_report":     {"analyze_file_changes", "get_workflow_status", "suggest_template"},
		"troubleshoot_workflow_failure": {"get_recent_actions_events", "get_workflow_status"},
		"incident_response_dashboard": {
			"get_unseen_events", "get_new_failures", "suggest_team_notification",
			"get_workflow_status", "mark_events_as_seen",
		},
		"format_ci_failure_alert":   {"send_slack_notification"},
		"format_ci_success_summary": {"send_slack_notification"},
	}

	all := Static()
	if len(all) != len(wantTools) {
		t.Fatalf("got %d static prompts, want %d", len(all), len(wantTools))
	}
	for _, p := range all {
		def := p.Definition()
		tools, ok := wantTools[def.Name]
		if !ok {
			t.Errorf("unexpected prompt %q", def.Name)
			continue
		}
		if def.Description == "" {
			t.Errorf("%s: empty description", def.Name)
		}

		result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", def.Name, err)
		}
		if result.Messages[0].Role != mcp.RoleUser {
			t.Errorf("%s: role = %q, want user", def.Name, result.Messages[0].Role)
		}
		text := promptText(t, result)
		for _, tool := range tools {
			if !strings.Contains(text, tool) {
				t.Errorf("%s: text does not mention %s", def.Name, tool)
			}
		}
	}
}

func TestSlackPrompts_UseSlackLinkSyntax(t *testing.T) {
	for _, p := range []*StaticPrompt{NewFailureAlertPrompt(), NewSuccessSummaryPrompt()} {
		result, _ := p.Handle(context.Background(), mcp.GetPromptRequest{})
		text := promptText(t, result)
		if !strings.Contains(text, "<https://github.com/user/repo|Repository>") {
			t.Errorf("%s: missing Slack link example", p.name)
		}
		if !strings.Contains(text, "never **text**") {
			t.Errorf("%s: missing bold rule", p.name)
		}
	}
}

type fakeStatus struct {
	summary *events.StatusSummary
	err     error
}

func (f fakeStatus) Status(context.Context, string) (*events.StatusSummary, error) {
	return f.summary, f.err
}

func TestReviewPrompt_EmbedsAnalysisAndStatus(t *testing.T) {
	var gotOpts gitdiff.Options
	analyze := func(_ context.Context, opts gitdiff.Options) (*gitdiff.Analysis, error) {
		gotOpts = opts
		return &gitdiff.Analysis{BaseBranch: "main", FilesChanged: "M\tserver.go"}, nil
	}
	status := fakeStatus{summary: &events.StatusSummary{TotalRepositories: 1, FilterApplied: "none"}}

	p := NewReviewPrompt(analyze, status)
	if p.Definition().Name != "review_pull_request" {
		t.Errorf("name = %q", p.Definition().Name)
	}

	result, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := promptText(t, result)

	for _, want := range []string{`"files_changed": "M\tserver.go"`, `"filter_applied": "none"`, "## 🔄 CI/CD Status"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if gotOpts.BaseBranch != "main" || !gotOpts.IncludeDiff || gotOpts.MaxDiffLines != 500 {
		t.Errorf("analysis options = %+v", gotOpts)
	}
}

func TestReviewPrompt_EmbedsFailures(t *testing.T) {
	analyze := func(context.Context, gitdiff.Options) (*gitdiff.Analysis, error) {
		return nil, errors.New("repository does not exist")
	}

	result, err := NewReviewPrompt(analyze, fakeStatus{err: events.ErrNoEvents}).Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("collaborator failures must not fail the prompt: %v", err)
	}
	text := promptText(t, result)
	if !strings.Contains(text, `"error": "Git error: repository does not exist"`) {
		t.Errorf("git failure not embedded:\n%s", text)
	}
	if !strings.Contains(text, events.NoEventsMessage) {
		t.Errorf("empty event log not reported:\n%s", text)
	}
}
