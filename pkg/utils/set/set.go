package set

import "slices"

// New creates a set that remembers insertion order.
func New[T comparable](values ...T) *Set[T] {
	s := &Set[T]{m: make(map[T]struct{})}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

type Set[T comparable] struct {
	m     map[T]struct{}
	order []T
}

func (s *Set[T]) Add(v T) bool {
	if _, ok := s.m[v]; ok {
		return false
	}
	s.m[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.m[v]
	return ok
}

func (s *Set[T]) Delete(v T) {
	if _, ok := s.m[v]; !ok {
		return
	}
	delete(s.m, v)
	s.order = slices.DeleteFunc(s.order, func(x T) bool { return x == v })
}

func (s *Set[T]) Len() int {
	return len(s.m)
}

// Values returns the members in the order they were first added.
func (s *Set[T]) Values() []T {
	return slices.Clone(s.order)
}

func (s *Set[T]) Clear() {
	clear(s.m)
	s.order = s.order[:0]
}

func (s *Set[T]) Clone() *Set[T] {
	return New(s.order...)
}
