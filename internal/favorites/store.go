// Package favorites keeps each visitor's list of favorited projects.
//
// A Store is the single owner of that list. Every page reads through it and
// every change is pushed to subscribers, so the home preview, the project
// list and the detail page never disagree.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultLimit is the most projects a visitor can favorite.
const DefaultLimit = 4

var (
	ErrLimitReached = errors.New("favorites limit reached")
	ErrCorrupt      = errors.New("stored favorites are corrupt")
)

// Backend persists one JSON-encoded ID list per key.
type Backend interface {
	Load(ctx context.Context, key string) ([]string, error)
	Save(ctx context.Context, key string, ids []string) error
}

// Event is sent to subscribers after a visitor's favorites change.
type Event struct {
	Visitor string   `json:"-"`
	IDs     []string `json:"ids"`
	Count   int      `json:"count"`
	Limit   int      `json:"limit"`
}

// Store serializes changes per process and fans them out to subscribers.
type Store struct {
	backend Backend
	limit   int

	mu     sync.Mutex
	subs   map[string]map[int]chan Event
	nextID int
}

// NewStore returns a store enforcing limit; limit <= 0 uses DefaultLimit.
func NewStore(backend Backend, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		backend: backend,
		limit:   limit,
		subs:    make(map[string]map[int]chan Event),
	}
}

// Limit returns the configured maximum.
func (s *Store) Limit() int { return s.limit }

// List returns the visitor's favorites in the order they were added.
func (s *Store) List(ctx context.Context, visitor string) ([]string, error) {
	ids, err := s.backend.Load(ctx, visitor)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return ids, nil
}

// Contains reports whether id is among the visitor's favorites.
func (s *Store) Contains(ctx context.Context, visitor, id string) (bool, error) {
	ids, err := s.List(ctx, visitor)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Add favorites id. Adding an existing favorite is a no-op; adding past the
// limit returns ErrLimitReached and changes nothing.
func (s *Store) Add(ctx context.Context, visitor, id string) ([]string, error) {
	return s.update(ctx, visitor, func(ids []string) ([]string, error) {
		if slices.Contains(ids, id) {
			return ids, nil
		}
		if len(ids) >= s.limit {
			return nil, ErrLimitReached
		}
		return append(ids, id), nil
	})
}

// Remove drops id from the visitor's favorites.
func (s *Store) Remove(ctx context.Context, visitor, id string) ([]string, error) {
	return s.update(ctx, visitor, func(ids []string) ([]string, error) {
		return slices.DeleteFunc(ids, func(v string) bool { return v == id }), nil
	})
}

// Toggle removes id if present and adds it otherwise. added reports which.
func (s *Store) Toggle(ctx context.Context, visitor, id string) (added bool, ids []string, err error) {
	ids, err = s.update(ctx, visitor, func(cur []string) ([]string, error) {
		if slices.Contains(cur, id) {
			return slices.DeleteFunc(cur, func(v string) bool { return v == id }), nil
		}
		if len(cur) >= s.limit {
			return nil, ErrLimitReached
		}
		added = true
		return append(cur, id), nil
	})
	return added, ids, err
}

func (s *Store) update(ctx context.Context, visitor string, fn func([]string) ([]string, error)) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.backend.Load(ctx, visitor)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	next, err := fn(slices.Clone(cur))
	if err != nil {
		return cur, err
	}
	if next == nil {
		next = []string{}
	}
	if slices.Equal(cur, next) {
		return next, nil
	}
	if err := s.backend.Save(ctx, visitor, next); err != nil {
		return cur, fmt.Errorf("save favorites: %w", err)
	}
	s.publish(Event{Visitor: visitor, IDs: slices.Clone(next), Count: len(next), Limit: s.limit})
	return next, nil
}

// Subscribe returns a channel of change events for visitor. Slow readers
// only ever see the latest event. cancel must be called to release it.
func (s *Store) Subscribe(visitor string) (<-chan Event, func()) {
	ch := make(chan Event, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.subs[visitor] == nil {
		s.subs[visitor] = make(map[int]chan Event)
	}
	s.subs[visitor][id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[visitor], id)
			if len(s.subs[visitor]) == 0 {
				delete(s.subs, visitor)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish must be called with s.mu held.
func (s *Store) publish(ev Event) {
	for _, ch := range s.subs[ev.Visitor] {
		select {
		case ch <- ev:
		default:
			// drop the stale event and replace it
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func encode(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decode(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
