package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/HendryAvila/pr-agent/internal/state"
)

// Defaults applied when a caller passes a non-positive value.
const (
	DefaultRecentLimit = 10
	DefaultSinceHours  = 24
)

// NoEventsMessage is the informational text returned to callers when the
// event log is absent or empty.
const NoEventsMessage = "No GitHub Actions events received yet"

var (
	// ErrNoEvents means the event log is absent or empty. It is a neutral
	// condition, not a failure.
	ErrNoEvents = errors.New("no events received")

	// ErrNoEventIDs is returned by MarkSeen when called without identities.
	ErrNoEventIDs = errors.New("no event IDs provided")
)

// --- Result types ---

// RunInfo is one workflow run inside a status aggregate.
type RunInfo struct {
	Name         string  `json:"name"`
	Status       string  `json:"status"`
	Conclusion   *string `json:"conclusion"`
	RunNumber    int     `json:"run_number"`
	UpdatedAt    string  `json:"updated_at"`
	TimeSinceRun Elapsed `json:"time_since_run"`
	HTMLURL      string  `json:"html_url"`
}

// RepositoryStatus aggregates the workflow runs of one repository.
type RepositoryStatus struct {
	Repository string               `json:"repository"`
	Workflows  map[string][]RunInfo `json:"workflows"`
	LatestRun  *RunInfo             `json:"latest_run"`
	TotalRuns  int                  `json:"total_runs"`
}

// StatusSummary is the result of Status.
type StatusSummary struct {
	TotalRepositories int                 `json:"total_repositories"`
	FilterApplied     string              `json:"filter_applied"`
	GeneratedAt       string              `json:"generated_at"`
	Repositories      []*RepositoryStatus `json:"repositories"`
}

// UnseenEvent is an event together with its computed identity.
type UnseenEvent struct {
	Event
	EventID string `json:"event_id"`
}

// UnseenResult is the result of Unseen.
type UnseenResult struct {
	UnseenCount  int           `json:"unseen_count"`
	Events       []UnseenEvent `json:"events"`
	MarkedAsSeen bool          `json:"marked_as_seen"`
}

// FailureOccurrence is a single failed run inside a FailureGroup.
type FailureOccurrence struct {
	Timestamp string `json:"timestamp"`
	RunNumber int    `json:"run_number"`
	HTMLURL   string `json:"html_url"`
	Sender    string `json:"sender"`
}

// FailureGroup clusters failures of one workflow in one repository.
type FailureGroup struct {
	Repository    string              `json:"repository"`
	WorkflowName  string              `json:"workflow_name"`
	FailureCount  int                 `json:"failure_count"`
	FirstFailure  string              `json:"first_failure"`
	LatestFailure string              `json:"latest_failure"`
	Failures      []FailureOccurrence `json:"failures"`
}

// FailureReport is the result of NewFailures.
type FailureReport struct {
	TimeWindowHours         int             `json:"time_window_hours"`
	TotalFailureGroups      int             `json:"total_failure_groups"`
	TotalIndividualFailures int             `json:"total_individual_failures"`
	FailureGroups           []*FailureGroup `json:"failure_groups"`
}

// MarkResult is the result of MarkSeen.
type MarkResult struct {
	MarkedAsSeen    int      `json:"marked_as_seen"`
	TotalSeenEvents int      `json:"total_seen_events"`
	EventIDsMarked  []string `json:"event_ids_marked"`
}

// --- Pipeline ---

// Pipeline derives views over the event log and maintains the seen-state.
// It reads the whole log on every call.
type Pipeline struct {
	source Source
	seen   state.Store
	log    *slog.Logger
}

// NewPipeline creates a Pipeline reading events from src and tracking
// acknowledged identities in seen.
func NewPipeline(src Source, seen state.Store) *Pipeline {
	return &Pipeline{
		source: src,
		seen:   seen,
		log:    slog.Default().With("component", "events"),
	}
}

// Recent returns the last limit events in arrival order. A non-positive
// limit means DefaultRecentLimit.
func (p *Pipeline) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	evs, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(evs) > limit {
		evs = evs[len(evs)-limit:]
	}
	return evs, nil
}

// Status groups workflow runs by repository and workflow name. When
// conclusion is non-empty only runs with exactly that conclusion are kept.
func (p *Pipeline) Status(ctx context.Context, conclusion string) (*StatusSummary, error) {
	evs, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, ErrNoEvents
	}

	now := timeNow().UTC()
	byRepo := make(map[string]*RepositoryStatus)
	var order []*RepositoryStatus

	for _, ev := range evs {
		run := ev.WorkflowRun
		if run == nil {
			continue
		}
		if conclusion != "" && run.ConclusionValue() != conclusion {
			continue
		}

		rs, ok := byRepo[ev.Repository]
		if !ok {
			rs = &RepositoryStatus{
				Repository: ev.Repository,
				Workflows:  make(map[string][]RunInfo),
			}
			byRepo[ev.Repository] = rs
			order = append(order, rs)
		}
		rs.TotalRuns++

		info := RunInfo{
			Name:         run.Name,
			Status:       run.Status,
			Conclusion:   run.Conclusion,
			RunNumber:    run.RunNumber,
			UpdatedAt:    run.UpdatedAt,
			TimeSinceRun: elapsedSince(now, run.UpdatedAt),
			HTMLURL:      run.HTMLURL,
		}
		rs.Workflows[run.Name] = append(rs.Workflows[run.Name], info)

		if rs.LatestRun == nil || info.UpdatedAt > rs.LatestRun.UpdatedAt {
			latest := info
			rs.LatestRun = &latest
		}
	}

	for _, rs := range order {
		for _, runs := range rs.Workflows {
			sort.SliceStable(runs, func(i, j int) bool {
				return runs[i].UpdatedAt > runs[j].UpdatedAt
			})
		}
	}

	filter := "none"
	if conclusion != "" {
		filter = "conclusion=" + conclusion
	}
	if order == nil {
		order = []*RepositoryStatus{}
	}
	return &StatusSummary{
		TotalRepositories: len(order),
		FilterApplied:     filter,
		GeneratedAt:       FormatTimestamp(now),
		Repositories:      order,
	}, nil
}

// Unseen returns the events whose identity is not in the seen-state. When
// markAsSeen is set and at least one event is unseen, their identities are
// added and the document is persisted in the same guarded update.
func (p *Pipeline) Unseen(ctx context.Context, markAsSeen bool) (*UnseenResult, error) {
	evs, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, ErrNoEvents
	}

	var unseen []UnseenEvent
	if markAsSeen {
		err = p.seen.Update(ctx, func(st *state.State) (bool, error) {
			unseen = collectUnseen(evs, st)
			if len(unseen) == 0 {
				return false, nil
			}
			for _, u := range unseen {
				st.Add(u.EventID)
			}
			st.LastProcessed = FormatTimestamp(timeNow())
			st.ManuallyMarkedCount = 0
			return true, nil
		})
		if err != nil {
			return nil, fmt.Errorf("marking events as seen: %w", err)
		}
		if len(unseen) > 0 {
			p.log.Debug("marked events as seen", "count", len(unseen))
		}
	} else {
		st, err := p.seen.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading seen-state: %w", err)
		}
		unseen = collectUnseen(evs, st)
	}

	if unseen == nil {
		unseen = []UnseenEvent{}
	}
	return &UnseenResult{
		UnseenCount:  len(unseen),
		Events:       unseen,
		MarkedAsSeen: markAsSeen,
	}, nil
}

func collectUnseen(evs []Event, st *state.State) []UnseenEvent {
	var out []UnseenEvent
	for _, ev := range evs {
		id := ev.ID()
		if st.Has(id) {
			continue
		}
		out = append(out, UnseenEvent{Event: ev, EventID: id})
	}
	return out
}

// NewFailures clusters failed workflow runs received within the last
// sinceHours hours by repository and workflow, most failures first.
// Events with an unparsable timestamp are skipped.
func (p *Pipeline) NewFailures(ctx context.Context, sinceHours int) (*FailureReport, error) {
	if sinceHours <= 0 {
		sinceHours = DefaultSinceHours
	}
	evs, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		absent, err := p.logAbsent(ctx)
		if err != nil {
			return nil, err
		}
		if absent {
			return nil, ErrNoEvents
		}
	}

	cutoff := failureCutoff(timeNow(), sinceHours)
	groups := make(map[string]*FailureGroup)
	latest := make(map[*FailureGroup]time.Time)
	var order []*FailureGroup
	total := 0

	for _, ev := range evs {
		if !ev.IsFailure() {
			continue
		}
		at, err := ParseTimestamp(ev.Timestamp)
		if err != nil {
			p.log.Debug("skipping failure with bad timestamp", "timestamp", ev.Timestamp, "error", err)
			continue
		}
		if at.Before(cutoff) {
			continue
		}
		total++

		run := ev.WorkflowRun
		key := ev.Repository + ":" + run.Name
		g, ok := groups[key]
		if !ok {
			g = &FailureGroup{
				Repository:    ev.Repository,
				WorkflowName:  run.Name,
				FirstFailure:  ev.Timestamp,
				LatestFailure: ev.Timestamp,
			}
			groups[key] = g
			latest[g] = at
			order = append(order, g)
		}
		g.FailureCount++
		g.Failures = append(g.Failures, FailureOccurrence{
			Timestamp: ev.Timestamp,
			RunNumber: run.RunNumber,
			HTMLURL:   run.HTMLURL,
			Sender:    ev.Sender,
		})
		if at.After(latest[g]) {
			latest[g] = at
			g.LatestFailure = ev.Timestamp
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].FailureCount > order[j].FailureCount
	})
	if order == nil {
		order = []*FailureGroup{}
	}

	return &FailureReport{
		TimeWindowHours:         sinceHours,
		TotalFailureGroups:      len(order),
		TotalIndividualFailures: total,
		FailureGroups:           order,
	}, nil
}

// failureCutoff returns the start of the window covering the last hours
// hours before now. Windows too wide for a time.Duration reach back to the
// zero time.
func failureCutoff(now time.Time, hours int) time.Time {
	if int64(hours) > math.MaxInt64/int64(time.Hour) {
		return time.Time{}
	}
	return now.Add(-time.Duration(hours) * time.Hour)
}

// logAbsent reports whether the event log has never been written. Sources
// that cannot tell an absent log from an empty one count as absent.
func (p *Pipeline) logAbsent(ctx context.Context) (bool, error) {
	ex, ok := p.source.(interface {
		Exists(ctx context.Context) (bool, error)
	})
	if !ok {
		return true, nil
	}
	exists, err := ex.Exists(ctx)
	return !exists, err
}

// MarkSeen adds ids verbatim to the seen-state. Identities are not checked
// against the event log.
func (p *Pipeline) MarkSeen(ctx context.Context, ids []string) (*MarkResult, error) {
	if len(ids) == 0 {
		return nil, ErrNoEventIDs
	}

	var total int
	err := p.seen.Update(ctx, func(st *state.State) (bool, error) {
		st.Add(ids...)
		st.LastProcessed = FormatTimestamp(timeNow())
		st.ManuallyMarkedCount = len(ids)
		total = st.Len()
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("marking events as seen: %w", err)
	}

	return &MarkResult{
		MarkedAsSeen:    len(ids),
		TotalSeenEvents: total,
		EventIDsMarked:  ids,
	}, nil
}

// SeenState returns the current seen-state document.
func (p *Pipeline) SeenState(ctx context.Context) (*state.State, error) {
	return p.seen.Load(ctx)
}
