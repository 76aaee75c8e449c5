package command

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNoHistory = errors.New("no command to undo or redo")

// Commander runs commands one at a time and records them in a History.
type Commander struct {
	mu      sync.Mutex
	history *History

	busy     atomic.Bool
	lastDone atomic.Int64
	grace    time.Duration
	now      func() time.Time
}

// NewCommander creates a Commander keeping size commands. Paths appearing within grace of a
// command finishing are attributed to it.
func NewCommander(size int, grace time.Duration) *Commander {
	return &Commander{
		history: NewHistory(size),
		grace:   grace,
		now:     time.Now,
	}
}

// Add executes cmd and records it when execution succeeds.
func (c *Commander) Add(ctx context.Context, cmd Command) error {
	return c.do(func() error {
		if err := cmd.Run(ctx, true); err != nil {
			return err
		}
		c.history.Push(cmd)
		return nil
	})
}

// Prev rolls back the most recent executed command.
func (c *Commander) Prev(ctx context.Context) error {
	return c.do(func() error {
		return c.prev(ctx)
	})
}

// Next executes again the most recently rolled back command.
func (c *Commander) Next(ctx context.Context) error {
	return c.do(func() error {
		return c.next(ctx)
	})
}

// UndoOrRedo undoes when there is something to undo, and redoes otherwise.
func (c *Commander) UndoOrRedo(ctx context.Context) error {
	return c.do(func() error {
		if c.history.HasPrev() {
			return c.prev(ctx)
		}
		return c.next(ctx)
	})
}

func (c *Commander) prev(ctx context.Context) error {
	cmd, ok := c.history.Prev()
	if !ok {
		return ErrNoHistory
	}
	if err := cmd.Run(ctx, false); err != nil {
		return err
	}
	c.history.Back()
	return nil
}

func (c *Commander) next(ctx context.Context) error {
	cmd, ok := c.history.Next()
	if !ok {
		return ErrNoHistory
	}
	if err := cmd.Run(ctx, true); err != nil {
		return err
	}
	c.history.Forward()
	return nil
}

func (c *Commander) HasPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.HasPrev()
}

func (c *Commander) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.HasNext()
}

func (c *Commander) Entries() []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Entries()
}

// MaybeCreatedByCommand reports whether a path appearing now was likely written by a command.
func (c *Commander) MaybeCreatedByCommand() bool {
	if c.busy.Load() {
		return true
	}
	last := c.lastDone.Load()
	return last != 0 && c.now().Sub(time.Unix(0, last)) < c.grace
}

func (c *Commander) do(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy.Store(true)
	defer func() {
		c.lastDone.Store(c.now().UnixNano())
		c.busy.Store(false)
	}()

	return fn()
}
