package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultLogFile is the filename of the event log inside the data directory.
const DefaultLogFile = "github_events.json"

// Source is the read side of the event log. The query pipeline depends on
// this abstraction only.
type Source interface {
	// Load returns every event in arrival order. A missing log is not an
	// error: it yields an empty slice.
	Load(ctx context.Context) ([]Event, error)
}

// Appender is the write side of the event log, used by the webhook receiver.
type Appender interface {
	Append(ctx context.Context, event Event) error
}

// FileLog stores the event log as a single JSON array on disk.
//
// Appends rewrite the whole document. The mutex only serialises writers
// inside this process; other processes writing the same file are not
// coordinated.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog creates a file-backed event log at path.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Path returns the location of the log on disk.
func (l *FileLog) Path() string {
	return l.path
}

// Exists reports whether the log file has been created.
func (l *FileLog) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(l.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking event log: %w", err)
}

// Load reads the whole event log.
func (l *FileLog) Load(_ context.Context) ([]Event, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, fmt.Errorf("reading event log: %w", err)
	}
	if len(data) == 0 {
		return []Event{}, nil
	}

	var evs []Event
	if err := json.Unmarshal(data, &evs); err != nil {
		return nil, fmt.Errorf("parsing event log %s: %w", l.path, err)
	}
	if evs == nil {
		evs = []Event{}
	}
	return evs, nil
}

// Append adds event to the end of the log.
func (l *FileLog) Append(ctx context.Context, event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	evs, err := l.Load(ctx)
	if err != nil {
		return err
	}
	evs = append(evs, event)

	data, err := json.MarshalIndent(evs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling event log: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating event log directory: %w", err)
	}

	// Readers in other processes must never see a half-written array.
	tmp, err := os.CreateTemp(dir, ".github_events-*.json")
	if err != nil {
		return fmt.Errorf("creating temp event log: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp event log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp event log: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing event log: %w", err)
	}
	return nil
}

// MemoryLog is an in-memory Source/Appender, used by tests and by callers
// that already hold the events.
type MemoryLog struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryLog creates a MemoryLog seeded with evs.
func NewMemoryLog(evs ...Event) *MemoryLog {
	return &MemoryLog{events: append([]Event(nil), evs...)}
}

// Load returns a copy of the stored events.
func (m *MemoryLog) Load(_ context.Context) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event{}, m.events...), nil
}

// Append adds event to the log.
func (m *MemoryLog) Append(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}
