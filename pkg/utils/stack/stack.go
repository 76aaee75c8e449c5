package stack

func New[T any](values ...T) *Stack[T] {
	return &Stack[T]{items: values}
}

type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		return *new(T), false
	}
	item := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return item, true
}

func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		return *new(T), false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Drain pops every item, most recent first.
func (s *Stack[T]) Drain() []T {
	out := make([]T, 0, len(s.items))
	for {
		item, ok := s.Pop()
		if !ok {
			return out
		}
		out = append(out, item)
	}
}

func (s *Stack[T]) Reset() {
	s.items = nil
}
