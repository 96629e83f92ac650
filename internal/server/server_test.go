package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/pr-agent/internal/config"
	"github.com/HendryAvila/pr-agent/internal/events"
	"github.com/HendryAvila/pr-agent/internal/state"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:        t.TempDir(),
		EventsFile:     events.DefaultLogFile,
		TeamConfigFile: "team_config.json",
		State: config.StateConfig{
			Backend:    backend,
			File:       state.DefaultFile,
			SQLitePath: state.DefaultSQLiteFile,
		},
	}
}

// rpc sends one JSON-RPC request to a fresh server and returns the encoded
// response.
func rpc(t *testing.T, cfg *config.Config, method string) string {
	t.Helper()
	s, cleanup, err := New(cfg, events.NewMemoryLog())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(cleanup)

	msg := `{"jsonrpc":"2.0","id":1,"method":"` + method + `","params":{}}`
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshaling response: %v", err)
	}
	return string(data)
}

func TestNew_RegistersTools(t *testing.T) {
	out := rpc(t, testConfig(t, config.BackendFile), "tools/list")
	for _, name := range []string{
		"analyze_file_changes", "get_pr_templates", "suggest_template",
		"get_recent_actions_events", "get_workflow_status", "get_unseen_events",
		"get_new_failures", "mark_events_as_seen",
		"suggest_team_notification", "send_slack_notification",
	} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestNew_RegistersPrompts(t *testing.T) {
	out := rpc(t, testConfig(t, config.BackendFile), "prompts/list")
	for _, name := range []string{
		"analyze_ci_results", "create_deployment_summary", "generate_pr_status_report",
		"troubleshoot_workflow_failure", "review_pull_request", "incident_response_dashboard",
		"format_ci_failure_alert", "format_ci_success_summary",
	} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Errorf("prompt %s not registered", name)
		}
	}
}

func TestNew_RegistersResources(t *testing.T) {
	out := rpc(t, testConfig(t, config.BackendSQLite), "resources/list")
	for _, uri := range []string{"pr-agent://events/seen-state", "pr-agent://team/config"} {
		if !strings.Contains(out, uri) {
			t.Errorf("resource %s not registered", uri)
		}
	}
}

func TestOpenSeenStore_Backends(t *testing.T) {
	cfg := testConfig(t, config.BackendFile)
	st, cleanup, err := OpenSeenStore(cfg)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	cleanup()
	if _, ok := st.(*state.FileStore); !ok {
		t.Errorf("file backend returned %T", st)
	}

	cfg = testConfig(t, config.BackendSQLite)
	st, cleanup, err = OpenSeenStore(cfg)
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	defer cleanup()
	if _, ok := st.(*state.SQLiteStore); !ok {
		t.Errorf("sqlite backend returned %T", st)
	}
}
