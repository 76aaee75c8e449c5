package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackDrain(t *testing.T) {
	s := New(1, 2)
	s.Push(3)

	top, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 3, top)

	assert.Equal(t, []int{3, 2, 1}, s.Drain())
	assert.Equal(t, 0, s.Len())

	_, ok = s.Pop()
	assert.False(t, ok)
}
