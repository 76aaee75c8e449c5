package lazy

import "sync"

func New[T any](get func() T) *Value[T] {
	return &Value[T]{
		get: get,
	}
}

func Must[T any](get func() (T, error)) *MustValue[T] {
	return &MustValue[T]{
		get: get,
	}
}

// Value computes its value on first use and memoizes it.
type Value[T any] struct {
	once  sync.Once
	value T
	get   func() T
}

func (l *Value[T]) Get() T {
	l.once.Do(func() {
		l.value = l.get()
	})
	return l.value
}

type MustValue[T any] struct {
	once  sync.Once
	value T
	get   func() (T, error)
}

func (m *MustValue[T]) Get() T {
	m.once.Do(func() {
		var err error
		m.value, err = m.get()
		if err != nil {
			panic(err)
		}
	})
	return m.value
}
