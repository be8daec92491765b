// Package watchlist keeps the user's saved movies in a key-value store.
package watchlist

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// Key is the store key holding the serialized watchlist
const Key = "watchlist"

// ToggleResult reports what a toggle did
type ToggleResult int

const (
	Added ToggleResult = iota
	Removed
)

func (r ToggleResult) String() string {
	if r == Added {
		return "added"
	}
	return "removed"
}

// Store is the persisted set of watchlisted movies, keyed by movie id.
// The whole collection is rewritten on every mutation.
type Store struct {
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu     sync.Mutex
	items  []domain.Item
	loaded bool
}

// New creates a watchlist backed by kv.
func New(kv domain.KeyValueStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// IsWatched reports whether a movie with id is on the watchlist
func (s *Store) IsWatched(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	return s.indexOf(id) >= 0
}

// Toggle removes item if present, otherwise adds the full record
func (s *Store) Toggle(item domain.Item) ToggleResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()

	result := Added
	if idx := s.indexOf(item.ID); idx >= 0 {
		s.items = slices.Delete(s.items, idx, idx+1)
		result = Removed
	} else {
		s.items = append(s.items, item)
	}

	s.save()
	s.logger.Debug("toggled watchlist", "movieID", item.ID, "result", result.String(), "count", len(s.items))
	return result
}

// List returns every watchlisted movie in insertion order
func (s *Store) List() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	out := make([]domain.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of watchlisted movies
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	return len(s.items)
}

func (s *Store) indexOf(id int) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// ensureLoaded reads the persisted collection once. Absent or corrupt data
// leaves the watchlist empty.
func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.items = nil

	raw, ok := s.kv.Get(Key)
	if !ok || raw == "" {
		return
	}

	var stored []domain.Item
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("discarding unreadable watchlist", "error", err)
		return
	}

	// Collapse duplicate ids, first occurrence wins
	seen := make(map[int]struct{}, len(stored))
	for _, item := range stored {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		s.items = append(s.items, item)
	}
	if len(s.items) != len(stored) {
		s.logger.Warn("dropped duplicate watchlist entries", "stored", len(stored), "kept", len(s.items))
	}
}

func (s *Store) save() {
	items := s.items
	if items == nil {
		items = []domain.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("failed to encode watchlist", "error", err)
		return
	}
	if err := s.kv.Set(Key, string(data)); err != nil {
		s.logger.Error("failed to save watchlist", "error", err)
	}
}
