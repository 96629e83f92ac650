package tools

import (
	"context"

	"github.com/HendryAvila/pr-agent/internal/events"
)

// EventQuerier is the event query surface the CI tools read from.
// *events.Pipeline satisfies it.
type EventQuerier interface {
	Recent(ctx context.Context, limit int) ([]events.Event, error)
	Status(ctx context.Context, conclusion string) (*events.StatusSummary, error)
	Unseen(ctx context.Context, markAsSeen bool) (*events.UnseenResult, error)
	NewFailures(ctx context.Context, sinceHours int) (*events.FailureReport, error)
	MarkSeen(ctx context.Context, ids []string) (*events.MarkResult, error)
}
