package editor

import (
	"context"
	"sync"

	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/events"
)

// Recorder is an Editor for tests. It records every notification, including debug ones, and
// answers prompts from a queue.
type Recorder struct {
	*Base
	Events *events.Collector

	mu      sync.Mutex
	answers []bool
	Prompts []string
}

func NewRecorder(root string, cfg *config.Configuration) *Recorder {
	if cfg == nil {
		cfg = config.DefaultConfiguration()
	}
	cfg = cfg.Clone()
	cfg.Debug = true

	r := &Recorder{Events: events.NewCollector(events.NewNoopHandler())}
	r.Base = NewBase(root, cfg, WithHandler(r.Events), WithConfirm(r.answer))
	return r
}

// Answer queues replies for upcoming prompts. Prompts beyond the queue are accepted.
func (r *Recorder) Answer(replies ...bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, replies...)
}

func (r *Recorder) answer(_ context.Context, message string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Prompts = append(r.Prompts, message)
	if len(r.answers) == 0 {
		return true, nil
	}
	reply := r.answers[0]
	r.answers = r.answers[1:]
	return reply, nil
}

func (r *Recorder) Warnings() []string {
	return r.Events.Messages(events.Warning)
}

func (r *Recorder) Errors() []string {
	return r.Events.Messages(events.Error)
}

func (r *Recorder) Infos() []string {
	return r.Events.Messages(events.Info)
}
