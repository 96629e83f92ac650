// Package state persists which events have already been acknowledged.
//
// The seen-state is a single small document: a set of event identities
// plus the time it was last processed. It has two logical states, absent
// (treated as an empty set) and present. Every write replaces the whole
// document; read-modify-write cycles go through Store.Update so each
// backend can serialise them.
package state

import (
	"context"
	"encoding/json"
	"sort"
)

// Store is the persistence abstraction for the seen-state document.
type Store interface {
	// Load returns the current document. An absent document yields an
	// empty State and no error.
	Load(ctx context.Context) (*State, error)

	// Save replaces the stored document with st.
	Save(ctx context.Context, st *State) error

	// Update loads the document, passes it to fn and, if fn reports a
	// change, saves it, all under the store's write exclusion. An error
	// from fn aborts the update without writing.
	Update(ctx context.Context, fn func(st *State) (changed bool, err error)) error
}

// State is the in-memory form of the seen-state document.
type State struct {
	seen map[string]struct{}

	// LastProcessed is the ISO-8601 time of the last write, empty if the
	// document has never been written.
	LastProcessed string

	// ManuallyMarkedCount is the number of identities supplied by the last
	// explicit mark call; zero after an automatic mark.
	ManuallyMarkedCount int
}

// New returns an empty State.
func New() *State {
	return &State{seen: make(map[string]struct{})}
}

// Has reports whether id has been seen.
func (s *State) Has(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Add unions ids into the seen set and returns how many were new.
func (s *State) Add(ids ...string) int {
	if s.seen == nil {
		s.seen = make(map[string]struct{}, len(ids))
	}
	added := 0
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		added++
	}
	return added
}

// Len returns the number of seen identities.
func (s *State) Len() int {
	return len(s.seen)
}

// IDs returns the seen identities in sorted order.
func (s *State) IDs() []string {
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := New()
	c.Add(s.IDs()...)
	c.LastProcessed = s.LastProcessed
	c.ManuallyMarkedCount = s.ManuallyMarkedCount
	return c
}

// document is the JSON layout shared with the file backend and the
// seen-state resource.
type document struct {
	SeenEventIDs        []string `json:"seen_event_ids"`
	LastProcessed       string   `json:"last_processed,omitempty"`
	ManuallyMarkedCount int      `json:"manually_marked_count,omitempty"`
}

// MarshalJSON encodes the state as {seen_event_ids, last_processed, ...}.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{
		SeenEventIDs:        s.IDs(),
		LastProcessed:       s.LastProcessed,
		ManuallyMarkedCount: s.ManuallyMarkedCount,
	})
}

// UnmarshalJSON decodes the document layout written by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*s = *New()
	s.Add(doc.SeenEventIDs...)
	s.LastProcessed = doc.LastProcessed
	s.ManuallyMarkedCount = doc.ManuallyMarkedCount
	return nil
}
