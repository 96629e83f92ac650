package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- State ---

func TestState_AddCountsOnlyNewIDs(t *testing.T) {
	st := New()
	assert.Equal(t, 2, st.Add("a", "b"))
	assert.Equal(t, 1, st.Add("b", "c"))
	assert.Equal(t, 3, st.Len())
	assert.True(t, st.Has("c"))
	assert.False(t, st.Has("d"))
	assert.Equal(t, []string{"a", "b", "c"}, st.IDs())
}

func TestState_JSONLayout(t *testing.T) {
	st := New()
	st.Add("2024-01-01T00:00:00Z:push:a/b")
	st.LastProcessed = "2024-01-01T01:00:00Z"

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{"2024-01-01T00:00:00Z:push:a/b"}, raw["seen_event_ids"])
	assert.Equal(t, "2024-01-01T01:00:00Z", raw["last_processed"])
	_, hasCount := raw["manually_marked_count"]
	assert.False(t, hasCount, "manually_marked_count omitted when zero")
}

func TestState_CloneIsIndependent(t *testing.T) {
	st := New()
	st.Add("a")
	c := st.Clone()
	c.Add("b")
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, 2, c.Len())
}

// --- Shared backend behaviour ---

type backend struct {
	name  string
	store func(t *testing.T) Store
}

func backends() []backend {
	return []backend{
		{"memory", func(t *testing.T) Store { return NewMemoryStore() }},
		{"file", func(t *testing.T) Store {
			return NewFileStore(filepath.Join(t.TempDir(), DefaultFile))
		}},
		{"sqlite", func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), DefaultSQLiteFile))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		}},
	}
}

func TestStore_AbsentLoadsEmpty(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			st, err := b.store(t).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, st.Len())
			assert.Empty(t, st.LastProcessed)
		})
	}
}

func TestStore_SaveReplacesWholeDocument(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.store(t)

			first := New()
			first.Add("a", "b")
			first.LastProcessed = "2024-01-01T00:00:00Z"
			first.ManuallyMarkedCount = 2
			require.NoError(t, s.Save(ctx, first))

			second := New()
			second.Add("c")
			second.LastProcessed = "2024-01-02T00:00:00Z"
			require.NoError(t, s.Save(ctx, second))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"c"}, got.IDs())
			assert.Equal(t, "2024-01-02T00:00:00Z", got.LastProcessed)
			assert.Equal(t, 0, got.ManuallyMarkedCount)
		})
	}
}

func TestStore_UpdateWithoutChangeDoesNotWrite(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.store(t)

			err := s.Update(ctx, func(st *State) (bool, error) {
				st.Add("ignored")
				return false, nil
			})
			require.NoError(t, err)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Len())
		})
	}
}

func TestStore_UpdateErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.store(t)

			err := s.Update(ctx, func(st *State) (bool, error) {
				st.Add("x")
				return true, boom
			})
			assert.ErrorIs(t, err, boom)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.False(t, got.Has("x"))
		})
	}
}

func TestStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.store(t)

			ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
			var wg sync.WaitGroup
			for _, id := range ids {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					err := s.Update(ctx, func(st *State) (bool, error) {
						return st.Add(id) > 0, nil
					})
					assert.NoError(t, err)
				}(id)
			}
			wg.Wait()

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, ids, got.IDs())
		})
	}
}

// --- FileStore specifics ---

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_ReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	legacy := `{
  "seen_event_ids": ["x", "y"],
  "last_processed": "2024-05-01T10:00:00+00:00",
  "manually_marked_count": 1
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	st, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, st.IDs())
	assert.Equal(t, "2024-05-01T10:00:00+00:00", st.LastProcessed)
	assert.Equal(t, 1, st.ManuallyMarkedCount)
}

func TestFileStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultFile)
	st := New()
	st.Add("a")
	require.NoError(t, NewFileStore(path).Save(context.Background(), st))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

// --- SQLiteStore specifics ---

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultSQLiteFile)

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	st := New()
	st.Add("a", "b")
	st.LastProcessed = "2024-01-01T00:00:00Z"
	st.ManuallyMarkedCount = 2
	require.NoError(t, s.Save(ctx, st))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.IDs())
	assert.Equal(t, "2024-01-01T00:00:00Z", got.LastProcessed)
	assert.Equal(t, 2, got.ManuallyMarkedCount)
}

func TestSQLiteStore_OpenFailure(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("disk on fire")
	}

	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), DefaultSQLiteFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestSQLiteStore_SingleConnection(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), DefaultSQLiteFile))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, 1, s.db.Stats().MaxOpenConnections)

	var timeout int
	require.NoError(t, s.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}
