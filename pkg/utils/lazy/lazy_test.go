package lazy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueComputesOnce(t *testing.T) {
	calls := 0
	v := New(func() int {
		calls++
		return 42
	})

	assert.Equal(t, 42, v.Get())
	assert.Equal(t, 42, v.Get())
	assert.Equal(t, 1, calls)
}

func TestMustPanicsOnError(t *testing.T) {
	v := Must(func() (int, error) { return 0, errors.New("boom") })
	assert.Panics(t, func() { v.Get() })
}
