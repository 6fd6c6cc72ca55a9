package todo

import (
	"fmt"
	gosync "sync"

	"github.com/nhle/todo-client/internal/model"
)

// Filter selects which cached todos the view shows.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterDone   Filter = "done"
	FilterUndone Filter = "undone"
)

// filterOrder is the cycling order used by Next.
var filterOrder = []Filter{FilterAll, FilterDone, FilterUndone}

// ParseFilter converts a user-supplied string into a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(s)
	if !f.Valid() {
		return "", fmt.Errorf("unknown filter %q (want all, done or undone)", s)
	}
	return f, nil
}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterDone, FilterUndone:
		return true
	}
	return false
}

// Next returns the filter after f in the all → done → undone cycle.
func (f Filter) Next() Filter {
	for i, cur := range filterOrder {
		if cur == f {
			return filterOrder[(i+1)%len(filterOrder)]
		}
	}
	return FilterAll
}

// Label returns the button caption for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterDone:
		return "Selesai"
	case FilterUndone:
		return "Belum"
	default:
		return "Semua"
	}
}

// Matches reports whether t is visible under f.
func (f Filter) Matches(t model.Todo) bool {
	switch f {
	case FilterDone:
		return t.IsDone
	case FilterUndone:
		return !t.IsDone
	default:
		return true
	}
}

// Store is the local cache of the remote todo collection plus the active
// view filter. The cache is only ever replaced wholesale.
type Store struct {
	mu     gosync.RWMutex
	items  []model.Todo
	filter Filter
}

// NewStore returns an empty store showing all items.
func NewStore() *Store {
	return &Store{filter: FilterAll}
}

// ReplaceAll swaps the cached collection for items.
func (s *Store) ReplaceAll(items []model.Todo) {
	cp := make([]model.Todo, len(items))
	copy(cp, items)

	s.mu.Lock()
	s.items = cp
	s.mu.Unlock()
}

// SetFilter changes the active filter.
func (s *Store) SetFilter(f Filter) error {
	if !f.Valid() {
		return fmt.Errorf("unknown filter %q", f)
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	return nil
}

// Filter returns the active filter.
func (s *Store) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// All returns a copy of the cached collection in server order.
func (s *Store) All() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]model.Todo, len(s.items))
	copy(cp, s.items)
	return cp
}

// Len returns the number of cached todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the cached todo with the given ID.
func (s *Store) Get(id string) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.items {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// SelectFiltered returns the cached todos visible under the active filter,
// preserving their relative order.
func (s *Store) SelectFiltered() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Todo, 0, len(s.items))
	for _, t := range s.items {
		if s.filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
