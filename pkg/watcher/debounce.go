package watcher

import (
	"context"
	"time"

	"github.com/olimci/dtpl/pkg/utils/set"
)

// Batch is a set of paths that arrived without a quiet period between them.
type Batch struct {
	Paths []string
}

// Debouncer groups paths until no new one arrives for the quiet duration.
type Debouncer struct {
	quiet   time.Duration
	in      chan string
	batches chan Batch
}

func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{
		quiet:   quiet,
		in:      make(chan string, 256),
		batches: make(chan Batch, 16),
	}
}

// Add queues a path. It never blocks; paths are dropped when the queue is full.
func (d *Debouncer) Add(path string) {
	lazySend(d.in, path)
}

func (d *Debouncer) Batches() <-chan Batch {
	return d.batches
}

// Run collects paths until ctx is done. Paths pending at that point are discarded.
func (d *Debouncer) Run(ctx context.Context) {
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = set.New[string]()
	)

	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(d.quiet)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d.quiet)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case p := <-d.in:
			pending.Add(p)
			resetTimer()

		case <-timerCh:
			timer = nil
			timerCh = nil
			if pending.Len() == 0 {
				continue
			}
			batch := Batch{Paths: pending.Values()}
			pending.Clear()

			select {
			case d.batches <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}
