package knowledge

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ziadkadry99/fc-companion/internal/patterns"
)

// Store holds entries keyed by id. Callers always receive copies; the only
// way to change a stored entry is Add (full replace) or Merge.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Add validates e and stores it, replacing any entry with the same id.
func (s *Store) Add(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e.clone()
	return nil
}

// Get returns the entry with the given id. A miss is not an error.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Search returns entries whose title, description or explanation contains
// keyword, ignoring case. Results are ordered by id.
func (s *Store) Search(keyword string) []Entry {
	q := strings.ToLower(keyword)
	return s.collect(func(e Entry) bool {
		return strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Description), q) ||
			strings.Contains(strings.ToLower(e.Explanation), q)
	})
}

// ByType returns entries of the given type, ordered by id.
func (s *Store) ByType(t patterns.Kind) []Entry {
	return s.collect(func(e Entry) bool { return e.Type == t })
}

// All returns every entry ordered by id.
func (s *Store) All() []Entry {
	return s.collect(func(Entry) bool { return true })
}

func (s *Store) collect(keep func(Entry) bool) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Merge folds newly observed source ids into an existing entry: sources
// become the set union, LastUpdated is refreshed and confidence is
// recomputed from the source count. Text fields are left as they are.
// It reports false when no entry has the id.
func (s *Store) Merge(id string, sources []string, now time.Time) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	e.Sources = unionSources(e.Sources, sources)
	e.LastUpdated = now.UTC()
	e.Confidence = SourceConfidence(len(e.Sources))
	s.entries[id] = e
	return e.clone(), true
}

// Seed adds the entries whose ids are not yet stored and returns how many
// were added. Existing entries are left untouched.
func (s *Store) Seed(entries []Entry) (int, error) {
	added := 0
	for _, e := range entries {
		if _, ok := s.Get(e.ID); ok {
			continue
		}
		if err := s.Add(e); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
