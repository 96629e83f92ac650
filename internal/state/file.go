package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFile is the filename of the seen-state document inside the data directory.
const DefaultFile = "events_state.json"

// FileStore keeps the seen-state as a JSON document on disk.
//
// Update holds an in-process mutex across the read-modify-write cycle and
// writes through a temp file + rename, so readers never observe a
// half-written document. Separate processes sharing the file are not
// coordinated; use SQLiteStore for that.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed seen-state store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the document on disk.
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the document. A missing file yields an empty State.
func (fs *FileStore) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading seen-state: %w", err)
	}

	st := New()
	if len(data) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parsing seen-state %s: %w", fs.path, err)
	}
	return st, nil
}

// Save replaces the document with st.
func (fs *FileStore) Save(_ context.Context, st *State) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.write(st)
}

// Update runs fn against the current document under the store mutex.
func (fs *FileStore) Update(ctx context.Context, fn func(st *State) (bool, error)) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	st, err := fs.Load(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(st)
	if err != nil || !changed {
		return err
	}
	return fs.write(st)
}

// write marshals st and atomically replaces the file. Callers hold fs.mu.
func (fs *FileStore) write(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling seen-state: %w", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating seen-state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".events_state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp seen-state: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp seen-state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp seen-state: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing seen-state: %w", err)
	}
	return nil
}
