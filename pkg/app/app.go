// Package app wires the resolver, renderer and command history behind the operations a host
// exposes to users.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/olimci/dtpl/pkg/command"
	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/editor"
	"github.com/olimci/dtpl/pkg/render"
	"github.com/olimci/dtpl/pkg/utils/fileutils"
	"github.com/olimci/dtpl/pkg/watcher"
)

type Application struct {
	editor    editor.Editor
	env       *command.Env
	commander *command.Commander
	queue     *watcher.Debouncer

	mu        sync.Mutex
	listeners []func(command.Change)
}

func New(ed editor.Editor, opts ...Option) *Application {
	o := defaultOptions().apply(opts...)
	cfg := ed.Configuration()

	if o.resolver == nil {
		o.resolver = dtpl.NewResolver(ed)
	}
	if o.renderer == nil {
		o.renderer = render.New(cfg.Extensions)
	}
	if o.grace == 0 {
		o.grace = cfg.Debounce
	}

	a := &Application{
		editor:    ed,
		commander: command.NewCommander(cfg.HistorySize, o.grace),
		queue:     watcher.NewDebouncer(cfg.Debounce),
	}
	a.env = &command.Env{
		Editor:   ed,
		Resolver: o.resolver,
		Renderer: o.renderer,
		Now:      o.now,
		OnChange: a.publish,
	}
	return a
}

// CreateTemplateFiles fills new or empty files from their templates.
func (a *Application) CreateTemplateFiles(ctx context.Context, files []string, open bool) bool {
	return a.run(ctx, false, func() (command.Command, error) {
		return command.NewCreateFiles(a.env, files, open)
	})
}

// CreateDirectories scaffolds new or empty folders from directory templates.
func (a *Application) CreateDirectories(ctx context.Context, folders []string) bool {
	return a.run(ctx, false, func() (command.Command, error) {
		return command.NewCreateDirectories(a.env, folders)
	})
}

// CreateRelatedFiles creates the related files declared for file.
func (a *Application) CreateRelatedFiles(ctx context.Context, file string) bool {
	return a.run(ctx, false, func() (command.Command, error) {
		return command.NewCreateRelated(a.env, file)
	})
}

// UndoOrRedo rolls back the last command, or executes again the last rolled back one.
func (a *Application) UndoOrRedo(ctx context.Context) (ok bool) {
	defer a.recover("undo or redo", &ok)

	if err := a.commander.UndoOrRedo(ctx); err != nil {
		a.report("undo or redo", err)
		return false
	}
	return true
}

// History lists the recorded commands, oldest first.
func (a *Application) History() []command.Command {
	return a.commander.Entries()
}

// OnFileEvent registers fn to be called for every file a command writes or removes.
func (a *Application) OnFileEvent(fn func(command.Change)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// EmitNewFile reports a path that appeared on disk. Paths are gathered until the debounce
// period passes and then scaffolded together by Run. Paths written by commands are ignored.
func (a *Application) EmitNewFile(path string) {
	if a.commander.MaybeCreatedByCommand() {
		return
	}
	a.queue.Add(path)
}

// Run dispatches the batches gathered by EmitNewFile until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	go a.queue.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-a.queue.Batches():
			a.dispatch(ctx, b.Paths)
		}
	}
}

func (a *Application) dispatch(ctx context.Context, paths []string) {
	var files, folders []string
	for _, p := range paths {
		switch {
		case fileutils.IsDir(p):
			folders = append(folders, p)
		case fileutils.IsFile(p):
			files = append(files, p)
		}
	}
	if len(files) == 0 && len(folders) == 0 {
		return
	}
	a.editor.Debug(fmt.Sprintf("new paths: %s", strings.Join(paths, ", ")))

	createFiles := func() {
		if len(files) > 0 {
			a.run(ctx, true, func() (command.Command, error) {
				return command.NewCreateFiles(a.env, files, true)
			})
		}
	}
	createFolders := func() {
		if len(folders) > 0 {
			a.run(ctx, true, func() (command.Command, error) {
				return command.NewCreateDirectories(a.env, folders)
			})
		}
	}

	if fileutils.IsDir(paths[0]) {
		createFolders()
		createFiles()
	} else {
		createFiles()
		createFolders()
	}
}

// run builds and executes a command. Nothing to do is only a debug message when quiet.
func (a *Application) run(ctx context.Context, quiet bool, build func() (command.Command, error)) (ok bool) {
	defer a.recover("command", &ok)

	cmd, err := build()
	if errors.Is(err, command.ErrNothingToDo) {
		if quiet {
			a.editor.Debug(err.Error())
		} else {
			a.editor.Warning(err.Error())
		}
		return false
	}
	if err != nil {
		a.editor.Error(err.Error(), err)
		return false
	}

	a.editor.Debug(fmt.Sprintf("running %s (%s)", cmd.Name(), cmd.ID()))
	if err := a.commander.Add(ctx, cmd); err != nil {
		a.report(cmd.Name(), err)
		return false
	}

	if created, ok := cmd.(*command.CreateDirectories); ok {
		a.hintConfigFolder(created)
	}
	return true
}

func (a *Application) hintConfigFolder(c *command.CreateDirectories) {
	folderName := a.editor.Configuration().FolderName
	for _, dir := range c.Folders() {
		if filepath.Base(dir) == folderName {
			a.editor.Info(fmt.Sprintf("%s is a configuration folder: declare templates in its config file and put their assets next to it", dir))
		}
	}
}

func (a *Application) report(action string, err error) {
	var expired *command.ExpiredError
	switch {
	case errors.Is(err, editor.ErrDeclined):
		a.editor.Info(fmt.Sprintf("%s: cancelled", action))
	case errors.Is(err, command.ErrNoHistory):
		a.editor.Info(err.Error())
	case errors.As(err, &expired):
		a.editor.Warning(err.Error())
	default:
		a.editor.Error(fmt.Sprintf("%s failed: %s", action, err.Error()), err)
	}
}

func (a *Application) recover(action string, ok *bool) {
	if r := recover(); r != nil {
		a.editor.Error(fmt.Sprintf("%s panicked: %v", action, r), fmt.Errorf("%v", r))
		*ok = false
	}
}

func (a *Application) publish(c command.Change) {
	a.mu.Lock()
	listeners := append([]func(command.Change){}, a.listeners...)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}
