package editor

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/events"
	"github.com/olimci/dtpl/pkg/utils/fileutils"
	"github.com/olimci/dtpl/pkg/utils/set"
)

// ConfirmFunc answers a yes/no question.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func defaultOptions() *options {
	return &options{
		handler: events.NewNoopHandler(),
		confirm: func(context.Context, string) (bool, error) { return true, nil },
	}
}

type options struct {
	handler events.Handler
	confirm ConfirmFunc
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*options)

// WithHandler sends notifications to h.
func WithHandler(h events.Handler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithConfirm answers prompts with fn. Without it every prompt is accepted.
func WithConfirm(fn ConfirmFunc) Option {
	return func(o *options) {
		o.confirm = fn
	}
}

// Base is a filesystem backed Editor. Opening a file only marks it as opened.
type Base struct {
	root string
	cfg  *config.Configuration
	opts *options

	mu     sync.Mutex
	opened *set.Set[string]
}

func NewBase(root string, cfg *config.Configuration, opts ...Option) *Base {
	if cfg == nil {
		cfg = config.DefaultConfiguration()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	return &Base{
		root:   abs,
		cfg:    cfg,
		opts:   defaultOptions().apply(opts...),
		opened: set.New[string](),
	}
}

func (b *Base) RootPath() string {
	return b.root
}

func (b *Base) EOL() string {
	return b.cfg.EOL
}

func (b *Base) Configuration() *config.Configuration {
	return b.cfg.Clone()
}

func (b *Base) FileContent(path string) (string, error) {
	c, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

func (b *Base) SetFileContent(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fileutils.WriteString(path, content)
}

func (b *Base) OpenFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened.Add(filepath.Clean(path))
	return nil
}

func (b *Base) CloseFile(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened.Delete(filepath.Clean(path))
	return nil
}

func (b *Base) IsOpened(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened.Has(filepath.Clean(path))
}

// Opened lists opened files in the order they were opened.
func (b *Base) Opened() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened.Values()
}

func (b *Base) Confirm(ctx context.Context, message string) (bool, error) {
	return b.opts.confirm(ctx, message)
}

func (b *Base) Debug(msg string) {
	if !b.cfg.Debug {
		return
	}
	b.opts.handler.Handle(events.Event{Level: events.Debug, Message: msg})
}

func (b *Base) Info(msg string) {
	b.opts.handler.Handle(events.Event{Level: events.Info, Message: msg})
}

func (b *Base) Warning(msg string) {
	b.opts.handler.Handle(events.Event{Level: events.Warning, Message: msg})
}

func (b *Base) Error(msg string, err error) {
	b.opts.handler.Handle(events.Event{Level: events.Error, Message: msg, Error: err})
}
