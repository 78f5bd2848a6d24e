package store

import (
	"fmt"
	"sync"

	"github.com/sangsom/minime/internal/model"
)

// Store is the single source of truth for profile records. It owns the
// ordered collection (insertion order is the serialization order) and a
// derived index keyed by normalized id for O(1) lookup. All mutation of
// profile state goes through Insert and Mutate; callers only ever see
// copies of records.
//
// Operations never perform I/O and never block beyond the internal lock.
type Store struct {
	mu       sync.RWMutex
	profiles []*model.Profile
	index    map[model.ProfileID]*model.Profile
	limits   model.StatLimits

	// dirty marks in-memory mutations not yet confirmed on disk.
	// generation increments on every mutation so a save completion can
	// tell whether anything changed after its snapshot was taken.
	dirty      bool
	generation uint64
}

// New creates an empty store with the given stat limits
func New(limits model.StatLimits) *Store {
	return &Store{
		index:  make(map[model.ProfileID]*model.Profile),
		limits: limits,
	}
}

// Len returns the number of records, active or not
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// FindByID returns a copy of the record for the given id, matched
// case-insensitively. The second return is false when the id is absent;
// absence is not an error.
func (s *Store) FindByID(id model.ProfileID) (model.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.index[model.NormalizeID(id)]
	if !ok {
		return model.Profile{}, false
	}
	return *p, true
}

// Insert appends a new record and indexes it. The id must not already
// be present under case-insensitive comparison.
func (s *Store) Insert(p model.Profile) error {
	key := model.NormalizeID(p.ID)
	if key == "" {
		return fmt.Errorf("%w: empty profile id", model.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[key]; exists {
		return fmt.Errorf("%w: %q", model.ErrDuplicateID, p.ID)
	}

	if p.LastActiveAt.Before(p.CreatedAt) {
		p.LastActiveAt = p.CreatedAt
	}
	p.Stats.Clamp(s.limits)
	p.Customization.Clamp(s.limits)

	rec := &p
	s.profiles = append(s.profiles, rec)
	s.index[key] = rec
	s.markDirtyLocked()
	return nil
}

// Mutate applies fn to the record for id, then re-clamps the stats so
// no invariant can be broken by the transformation; out-of-range values
// are clamped, not rejected. If fn returns an error the record is left
// untouched and the store is not marked dirty. The id and creation
// timestamp are immutable regardless of what fn does.
func (s *Store) Mutate(id model.ProfileID, fn func(*model.Profile) error) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.index[model.NormalizeID(id)]
	if !ok {
		return model.Profile{}, fmt.Errorf("%w: %q", model.ErrProfileNotFound, id)
	}

	scratch := *rec
	if err := fn(&scratch); err != nil {
		return model.Profile{}, err
	}

	// Immutable fields survive any transformation
	scratch.ID = rec.ID
	scratch.CreatedAt = rec.CreatedAt
	if scratch.LastActiveAt.Before(scratch.CreatedAt) {
		scratch.LastActiveAt = scratch.CreatedAt
	}
	scratch.Stats.Clamp(s.limits)
	scratch.Customization.Clamp(s.limits)

	*rec = scratch
	s.markDirtyLocked()
	return scratch, nil
}

// Snapshot returns a point-in-time copy of the ordered collection and
// the generation it was taken at. The copy is safe to serialize or
// enumerate off-thread; mutating it has no effect on the store.
func (s *Store) Snapshot() ([]model.Profile, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = *p
	}
	return out, s.generation
}

// IsDirty reports whether in-memory state has mutations not yet
// confirmed persisted.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// ClearDirty marks the store clean, but only if no mutation has
// happened since the snapshot at generation gen was taken. A mutation
// racing a save therefore keeps the store dirty and is captured by the
// next save.
func (s *Store) ClearDirty(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.dirty = false
	}
}

// Replace installs a loaded collection, rebuilding the index. Records
// with ids already seen (case-insensitively) are dropped, keeping the
// first occurrence. The store is left clean; loading is not a mutation.
func (s *Store) Replace(profiles []model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = s.profiles[:0]
	s.index = make(map[model.ProfileID]*model.Profile, len(profiles))

	for i := range profiles {
		p := profiles[i]
		key := model.NormalizeID(p.ID)
		if key == "" {
			continue
		}
		if _, exists := s.index[key]; exists {
			continue
		}
		if p.LastActiveAt.Before(p.CreatedAt) {
			p.LastActiveAt = p.CreatedAt
		}
		p.Stats.Clamp(s.limits)
		p.Customization.Clamp(s.limits)
		rec := &p
		s.profiles = append(s.profiles, rec)
		s.index[key] = rec
	}
	s.dirty = false
}

func (s *Store) markDirtyLocked() {
	s.dirty = true
	s.generation++
}
