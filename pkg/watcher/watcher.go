// Package watcher reports paths created below a project root.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/olimci/dtpl/pkg/utils/set"
)

// DefaultIgnore lists directories that are never watched.
var DefaultIgnore = []string{"**/.git", "**/node_modules"}

func New(root string, ignore []string) (*Watcher, error) {
	for _, pattern := range ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		Created: make(chan string, 64),
		Errors:  make(chan error, 64),
		watcher: w,
		root:    abs,
		ignore:  ignore,
		watched: set.New[string](),
	}, nil
}

// Watcher sends every file or directory created below root on Created. New directories are
// watched as they appear.
type Watcher struct {
	Created chan string
	Errors  chan error

	watcher *fsnotify.Watcher
	root    string
	ignore  []string
	watched *set.Set[string]
}

func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addPath(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	go w.loop(ctx)

	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) || w.ignored(ev.Name) {
				continue
			}
			w.addDirectoryIfNeeded(ev.Name)

			select {
			case w.Created <- ev.Name:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			lazySend(w.Errors, fmt.Errorf("watch error: %w", err))
		}
	}
}

func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

func (w *Watcher) addPath(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(path string) error {
	normalized := filepath.Clean(path)
	if w.watched.Has(normalized) {
		return nil
	}
	if err := w.watcher.Add(normalized); err != nil {
		return err
	}
	w.watched.Add(normalized)
	return nil
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern+"/**", rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirectoryIfNeeded(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addPath(path); err != nil {
		lazySend(w.Errors, fmt.Errorf("failed to watch new directory: %w", err))
	}
}
