package imp

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// Store maps locations to the values last assigned to them. Iteration is in
// key order.
type Store struct {
	vals *treemap.Map
}

func NewStore() *Store {
	return &Store{
		vals: treemap.NewWithStringComparator(),
	}
}

func (s *Store) Get(location string) (Expr, bool) {
	v, ok := s.vals.Get(location)
	if !ok {
		return nil, false
	}

	return v.(Expr), true
}

func (s *Store) Set(location string, value Expr) {
	s.vals.Put(location, value)
}

func (s *Store) Len() int {
	return s.vals.Size()
}

func (s *Store) Keys() []string {
	keys := make([]string, 0, s.vals.Size())
	s.Each(func(location string, _ Expr) {
		keys = append(keys, location)
	})

	return keys
}

func (s *Store) Each(f func(location string, value Expr)) {
	it := s.vals.Iterator()
	for it.Next() {
		f(it.Key().(string), it.Value().(Expr))
	}
}

// String renders the store as "{a -> 1, b -> true}".
func (s *Store) String() string {
	entries := make([]string, 0, s.vals.Size())
	s.Each(func(location string, value Expr) {
		entries = append(entries, fmt.Sprintf("%s -> %s", location, value))
	})

	return "{" + strings.Join(entries, ", ") + "}"
}
