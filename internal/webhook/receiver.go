// Package webhook receives GitHub webhook deliveries over HTTP and appends
// them to the event log.
package webhook

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/google/uuid"

	"github.com/HendryAvila/pr-agent/internal/events"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Receiver is the http.Handler for GitHub deliveries.
type Receiver struct {
	log    events.Appender
	secret []byte
	logger *slog.Logger
}

// NewReceiver creates a Receiver appending to log. When secret is empty
// signatures are not checked.
func NewReceiver(log events.Appender, secret string) *Receiver {
	return &Receiver{
		log:    log,
		secret: []byte(secret),
		logger: slog.Default().With("component", "webhook"),
	}
}

// envelope holds the fields every GitHub event payload shares.
type envelope struct {
	Action     string `json:"action"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	Sender struct {
		Login string `json:"login"`
	} `json:"sender"`
}

func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, rc.secret)
	if err != nil {
		rc.logger.Warn("rejected delivery", "error", err)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid signature or payload"})
		return
	}

	ev, err := rc.toEvent(github.WebHookType(r), github.DeliveryID(r), payload)
	if err != nil {
		rc.logger.Warn("unparsable delivery", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := rc.log.Append(r.Context(), ev); err != nil {
		rc.logger.Error("append event", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not store event"})
		return
	}

	rc.logger.Info("event stored",
		"event_type", ev.EventType,
		"repository", ev.Repository,
		"delivery_id", ev.DeliveryID,
	)
	writeJSON(w, http.StatusOK, map[string]string{"status": "received", "event_id": ev.ID()})
}

// toEvent converts a delivery into the event log record. Event types the
// go-github parser does not know are still stored with the shared fields.
func (rc *Receiver) toEvent(eventType, deliveryID string, payload []byte) (events.Event, error) {
	if eventType == "" {
		return events.Event{}, errors.New("missing X-GitHub-Event header")
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return events.Event{}, err
	}

	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}
	ev := events.Event{
		Timestamp:  events.FormatTimestamp(timeNow()),
		EventType:  eventType,
		Action:     env.Action,
		Repository: env.Repository.FullName,
		Sender:     env.Sender.Login,
		DeliveryID: deliveryID,
	}

	parsed, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		// Unknown to go-github; keep the shared fields only.
		rc.logger.Debug("storing untyped event", "event_type", eventType, "error", err)
		return ev, nil
	}

	if wr, ok := parsed.(*github.WorkflowRunEvent); ok && wr.WorkflowRun != nil {
		ev.WorkflowRun = workflowRun(wr.WorkflowRun)
	}
	return ev, nil
}

func workflowRun(run *github.WorkflowRun) *events.WorkflowRun {
	out := &events.WorkflowRun{
		Name:       run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.Conclusion,
		RunNumber:  run.GetRunNumber(),
		HTMLURL:    run.GetHTMLURL(),
	}
	if ts := run.GetUpdatedAt(); !ts.IsZero() {
		out.UpdatedAt = ts.UTC().Format(time.RFC3339)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
