// Package store holds the in-memory, session-scoped collection of restaurants.
package store

import (
	"time"

	"restaurant-admin/internal/model"
)

// Store is the authoritative set of restaurants known to one admin session.
// It is not safe for concurrent use; the owning session serialises access.
type Store struct {
	order []string
	byID  map[string]model.Restaurant
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		byID: make(map[string]model.Restaurant),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns copies of all restaurants in insertion order.
func (s *Store) List() []model.Restaurant {
	out := make([]model.Restaurant, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// Len returns the number of restaurants in the store.
func (s *Store) Len() int {
	return len(s.order)
}

// Has reports whether a restaurant with the given id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Get returns a copy of the restaurant with the given id.
func (s *Store) Get(id string) (model.Restaurant, error) {
	r, ok := s.byID[id]
	if !ok {
		return model.Restaurant{}, model.NotFound("restaurant", id)
	}
	return r.Clone(), nil
}

// Upsert inserts r or replaces the stored restaurant with the same id and
// returns the value actually stored.
//
// UpdatedAt is stamped with the later of r.UpdatedAt and the store clock. On
// replace it is forced strictly past the previous value, and it never precedes
// CreatedAt.
func (s *Store) Upsert(r model.Restaurant) model.Restaurant {
	stored := r.Clone()

	stamp := s.now()
	if stored.UpdatedAt.After(stamp) {
		stamp = stored.UpdatedAt
	}

	prev, exists := s.byID[stored.ID]
	if exists && !stamp.After(prev.UpdatedAt) {
		stamp = prev.UpdatedAt.Add(time.Microsecond)
	}
	if stored.CreatedAt.IsZero() {
		if exists {
			stored.CreatedAt = prev.CreatedAt
		} else {
			stored.CreatedAt = stamp
		}
	}
	if stamp.Before(stored.CreatedAt) {
		stamp = stored.CreatedAt
	}
	stored.UpdatedAt = stamp

	if !exists {
		s.order = append(s.order, stored.ID)
	}
	s.byID[stored.ID] = stored

	return stored.Clone()
}

// Replace discards the current contents and loads rs as-is, keeping their
// timestamps. Later duplicates of an id win.
func (s *Store) Replace(rs []model.Restaurant) {
	s.order = s.order[:0]
	s.byID = make(map[string]model.Restaurant, len(rs))
	for _, r := range rs {
		if _, exists := s.byID[r.ID]; !exists {
			s.order = append(s.order, r.ID)
		}
		s.byID[r.ID] = r.Clone()
	}
}

// Remove is not supported: restaurants are never deleted by the admin core.
func (s *Store) Remove(id string) error {
	return model.ErrUnsupported
}
