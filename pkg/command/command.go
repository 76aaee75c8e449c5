// Package command runs reversible filesystem operations and keeps a bounded undo history.
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status uint8

const (
	Inited Status = iota
	Executed
)

func (s Status) String() string {
	switch s {
	case Inited:
		return "INITED"
	case Executed:
		return "EXECUTED"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrNothingToDo = errors.New("nothing to do")
	ErrExpired     = errors.New("command expired")
	ErrTransition  = errors.New("invalid command transition")
)

// ExpiredError is returned when a command is run after its timeout elapsed.
type ExpiredError struct {
	Name    string
	Status  Status
	Overdue time.Duration
}

func (e *ExpiredError) Error() string {
	action := "roll back"
	if e.Status == Inited {
		action = "execute"
	}
	return fmt.Sprintf("%s expired %s ago, cannot %s", e.Name, e.Overdue.Round(time.Second), action)
}

func (e *ExpiredError) Unwrap() error {
	return ErrExpired
}

// Command is a reversible unit of work: Run(ctx, true) executes it, Run(ctx, false) rolls it
// back. A failed run leaves the status unchanged.
type Command interface {
	ID() uuid.UUID
	Name() string
	Status() Status
	Run(ctx context.Context, forward bool) error
}

type operations interface {
	execute(ctx context.Context) error
	rollback(ctx context.Context) error
}

type base struct {
	id      uuid.UUID
	name    string
	status  Status
	timeout time.Duration
	lastRun time.Time
	now     func() time.Time
	ops     operations
}

func newBase(name string, timeout time.Duration, now func() time.Time, ops operations) base {
	if now == nil {
		now = time.Now
	}
	return base{
		id:      uuid.New(),
		name:    name,
		status:  Inited,
		timeout: timeout,
		now:     now,
		ops:     ops,
	}
}

func (b *base) ID() uuid.UUID {
	return b.id
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Status() Status {
	return b.status
}

func (b *base) Run(ctx context.Context, forward bool) (err error) {
	now := b.now()
	if b.timeout > 0 && !b.lastRun.IsZero() {
		if idle := now.Sub(b.lastRun); idle > b.timeout {
			return &ExpiredError{Name: b.name, Status: b.status, Overdue: idle - b.timeout}
		}
	}

	if forward && b.status != Inited || !forward && b.status != Executed {
		return fmt.Errorf("%w: %s is %s", ErrTransition, b.name, b.status)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", b.name, r)
		}
	}()

	if forward {
		if err := b.ops.execute(ctx); err != nil {
			return err
		}
		b.status = Executed
	} else {
		if err := b.ops.rollback(ctx); err != nil {
			return err
		}
		b.status = Inited
	}

	b.lastRun = now
	return nil
}
