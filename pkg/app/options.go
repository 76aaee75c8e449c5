package app

import (
	"time"

	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/render"
)

func defaultOptions() *options {
	return &options{
		now: time.Now,
	}
}

type options struct {
	resolver *dtpl.Resolver
	renderer *render.Renderer
	now      func() time.Time
	grace    time.Duration
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*options)

// WithResolver replaces the template resolver.
func WithResolver(r *dtpl.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithRenderer replaces the renderer, for instance to register more engines.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithGrace sets how long after a command new paths are still attributed to it. It defaults
// to the debounce duration.
func WithGrace(d time.Duration) Option {
	return func(o *options) {
		o.grace = d
	}
}
