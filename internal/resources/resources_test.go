package resources

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/pr-agent/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeSeen struct {
	st  *state.State
	err error
}

func (f fakeSeen) SeenState(context.Context) (*state.State, error) { return f.st, f.err }

func readReq(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func resourceText(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content is %T", contents[0])
	}
	return tc
}

func TestHandleSeenState(t *testing.T) {
	st := state.New()
	st.Add("2024-01-01T00:00:00Z:push:a/b")
	st.LastProcessed = "2024-01-01T01:00:00Z"
	h := NewHandler(fakeSeen{st: st}, "")

	if h.SeenStateResource().URI != SeenStateURI {
		t.Errorf("uri = %q", h.SeenStateResource().URI)
	}

	contents, err := h.HandleSeenState(context.Background(), readReq(SeenStateURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := resourceText(t, contents)
	if tc.MIMEType != "application/json" {
		t.Errorf("mime = %q", tc.MIMEType)
	}

	var doc struct {
		IDs           []string `json:"seen_event_ids"`
		LastProcessed string   `json:"last_processed"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &doc); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if len(doc.IDs) != 1 || doc.LastProcessed != "2024-01-01T01:00:00Z" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestHandleSeenState_Error(t *testing.T) {
	h := NewHandler(fakeSeen{err: errors.New("disk gone")}, "")
	contents, err := h.HandleSeenState(context.Background(), readReq(SeenStateURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := resourceText(t, contents)
	if tc.MIMEType != "text/plain" || !strings.Contains(tc.Text, "disk gone") {
		t.Errorf("content = %+v", tc)
	}
}

func TestHandleTeamConfig_MergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_config.json")
	if err := os.WriteFile(path, []byte(`{"expertise":{"frontend":["ui-dev"]}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	h := NewHandler(fakeSeen{}, path)

	contents, err := h.HandleTeamConfig(context.Background(), readReq(TeamConfigURI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := resourceText(t, contents).Text
	for _, want := range []string{`"ui-dev"`, `"backend-lead"`, `"on-call-primary"`} {
		if !strings.Contains(text, want) {
			t.Errorf("config missing %s:\n%s", want, text)
		}
	}
	if strings.Contains(text, "frontend-lead") {
		t.Error("user entry should replace the default for the same key")
	}
}
