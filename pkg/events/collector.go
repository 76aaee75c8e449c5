package events

import (
	"slices"
	"sync"
)

func NewCollector(handler Handler) *Collector {
	return &Collector{
		Events:  make([]Event, 0),
		handler: handler,
	}
}

type Collector struct {
	Events  []Event
	handler Handler
	mu      sync.Mutex
}

func (c *Collector) Handle(event Event) {
	c.mu.Lock()
	c.Events = append(c.Events, event)
	c.mu.Unlock()
	if c.handler != nil {
		c.handler.Handle(event)
	}
}

// Messages returns the messages of events at exactly level.
func (c *Collector) Messages(level Level) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0)
	for _, event := range c.Events {
		if event.Level == level {
			out = append(out, event.Message)
		}
	}
	return out
}

func (c *Collector) AtLevel(level Level) []Event {
	out := make([]Event, 0)
	for _, event := range c.Events {
		if event.Level >= level {
			out = append(out, event)
		}
	}
	return out
}

func (c *Collector) HasLevel(level Level) bool {
	for _, event := range c.Events {
		if event.Level == level {
			return true
		}
	}

	return false
}

func (c *Collector) MaxLevel() Level {
	max := Level(0)
	for _, event := range c.Events {
		if event.Level > max {
			max = event.Level
		}
	}
	return max
}

func (c *Collector) Clear() {
	c.Events = make([]Event, 0)
}

func (c *Collector) Summary() *Summary {
	out := new(Summary)

	for _, event := range c.Events {
		switch event.Level {
		case Error:
			out.ErrorCount++
			out.Errors = append(out.Errors, event)
		case Warning:
			out.WarningCount++
		}
	}

	out.Full = slices.Clone(c.Events)

	return out
}
