// Package events holds the CI/CD event model, the on-disk event log, and
// the query pipeline that derives views from it (recent, status by
// repository, unseen delta, failure clusters).
//
// The event log is written by the webhook receiver and read in full on
// every query; nothing here indexes it incrementally.
package events

import (
	"fmt"
	"strings"
	"time"
)

// --- Conclusion enum ---

// Conclusions reported by GitHub for a completed workflow run. A nil
// conclusion means the run is still in progress.
const (
	ConclusionSuccess   = "success"
	ConclusionFailure   = "failure"
	ConclusionCancelled = "cancelled"
	ConclusionSkipped   = "skipped"
)

// --- Core records ---

// WorkflowRun is the subset of a GitHub Actions run kept in the event log.
type WorkflowRun struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Conclusion *string `json:"conclusion"`
	RunNumber  int     `json:"run_number"`
	UpdatedAt  string  `json:"updated_at"`
	HTMLURL    string  `json:"html_url"`
}

// ConclusionValue returns the run conclusion, or "" while the run is in progress.
func (r *WorkflowRun) ConclusionValue() string {
	if r == nil || r.Conclusion == nil {
		return ""
	}
	return *r.Conclusion
}

// Event is a single webhook delivery as persisted in the event log.
type Event struct {
	Timestamp   string       `json:"timestamp"`
	EventType   string       `json:"event_type"`
	Action      string       `json:"action,omitempty"`
	Repository  string       `json:"repository"`
	Sender      string       `json:"sender"`
	WorkflowRun *WorkflowRun `json:"workflow_run,omitempty"`
	DeliveryID  string       `json:"delivery_id,omitempty"`
}

// ID returns the dedup identity of the event: timestamp, event type and
// repository joined by colons. Two deliveries sharing all three fields
// collapse into one identity.
func (e Event) ID() string {
	return e.Timestamp + ":" + e.EventType + ":" + e.Repository
}

// IsFailure reports whether the event carries a failed workflow run.
func (e Event) IsFailure() bool {
	return e.WorkflowRun != nil && e.WorkflowRun.ConclusionValue() == ConclusionFailure
}

// --- Timestamps ---

// zonelessLayout covers timestamps written without an offset, which are
// interpreted as UTC.
const zonelessLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp parses an ISO-8601 timestamp as written by GitHub or by
// the webhook receiver ("Z" suffix, numeric offset, or no zone at all).
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(zonelessLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// timestampLayout is fixed width so that string order matches time order.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp renders t the way the receiver and the seen-state store
// write timestamps: UTC with microseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
