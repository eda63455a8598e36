// Package watchlist provides the ordered, deduplicated set of entries
// a user has selected to watch.
package watchlist

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/aayush84339/smart-movie-recommendor/internal/app/scoring"
	"github.com/aayush84339/smart-movie-recommendor/internal/domain/entry"
)

// ErrEmptyID is returned when an entry without an ID is added.
var ErrEmptyID = errors.New("watchlist entry requires an id")

// Repository persists the full watchlist. Failures never roll back the
// in-memory state; durability is best-effort.
type Repository interface {
	LoadAll(ctx context.Context) ([]entry.Entry, error)
	SaveAll(ctx context.Context, entries []entry.Entry) error
}

// DetailsProvider fills in full metadata for a candidate that lacks
// runtime information.
type DetailsProvider interface {
	GetByID(ctx context.Context, id string) (*entry.Entry, error)
}

// Store holds the session's watchlist. Insertion order is preserved and
// is the canonical display order; membership is idempotent by entry ID.
// Entries are never mutated in place.
type Store struct {
	mu      sync.RWMutex
	entries []entry.Entry

	repo    Repository
	details DetailsProvider
}

// New creates a store rehydrated from the repository. A load failure is
// not fatal: the store starts empty and logs a warning, matching the
// best-effort durability contract.
func New(ctx context.Context, repo Repository, details DetailsProvider) *Store {
	s := &Store{
		entries: make([]entry.Entry, 0),
		repo:    repo,
		details: details,
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to load watchlist, starting empty")
		return s
	}

	seen := make(map[string]bool, len(loaded))
	for _, e := range loaded {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		s.entries = append(s.entries, e)
	}
	return s
}

// Add appends a candidate to the watchlist. Adding an entry whose ID is
// already present is a no-op. When the candidate has no runtime
// information the details provider is consulted first so the stored
// entry is useful for budget planning; a failed lookup keeps the
// candidate as-is (its runtime stays unknown).
func (s *Store) Add(ctx context.Context, candidate entry.Entry) error {
	if candidate.ID == "" {
		return ErrEmptyID
	}

	if s.Contains(candidate.ID) {
		return nil
	}

	if !candidate.HasDuration() && s.details != nil {
		full, err := s.details.GetByID(ctx, candidate.ID)
		if err != nil {
			zlog.Warn().Err(err).Str("id", candidate.ID).Msg("details lookup failed, keeping candidate as-is")
		} else if full != nil {
			candidate = *full
		}
	}

	s.mu.Lock()
	// Re-check under the write lock; a concurrent Add may have won.
	for _, e := range s.entries {
		if e.ID == candidate.ID {
			s.mu.Unlock()
			return nil
		}
	}
	s.entries = append(s.entries, candidate)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

// Remove deletes the entry with the given ID; unknown IDs are a no-op.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

// Contains reports whether an entry with the given ID is present.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// List returns the entries in insertion order. The returned slice is a
// copy; callers may hold it across later mutations.
func (s *Store) List() []entry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TotalMinutes returns the summed runtime of all entries. Entries with
// unknown runtime contribute nothing.
func (s *Store) TotalMinutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entry.TotalMinutes(s.entries)
}

// ScoredEntry pairs an entry with its value density for display.
type ScoredEntry struct {
	entry.Entry
	Minutes int
	Score   float64
}

// ListScored returns the entries in insertion order with their derived
// runtime and value density attached.
func (s *Store) ListScored() []ScoredEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]ScoredEntry, len(s.entries))
	for i, e := range s.entries {
		scored[i] = ScoredEntry{
			Entry:   e,
			Minutes: e.Minutes(),
			Score:   scoring.Score(e),
		}
	}
	return scored
}

// snapshotLocked copies the entry slice. Callers must hold mu.
func (s *Store) snapshotLocked() []entry.Entry {
	snapshot := make([]entry.Entry, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot
}

// persist flushes a snapshot to the repository. The in-memory state
// stays authoritative when the flush fails.
func (s *Store) persist(ctx context.Context, snapshot []entry.Entry) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveAll(ctx, snapshot); err != nil {
		zlog.Warn().Err(err).Int("entries", len(snapshot)).Msg("failed to persist watchlist")
	}
}
