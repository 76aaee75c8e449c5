package command

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/editor"
	"github.com/olimci/dtpl/pkg/render"
)

type ChangeKind uint8

const (
	Created ChangeKind = iota
	Updated
	Deleted
)

func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is published for every file a command writes or removes.
type Change struct {
	Kind ChangeKind
	Path string
}

// Env is what commands need from the outside world.
type Env struct {
	Editor   editor.Editor
	Resolver *dtpl.Resolver
	Renderer *render.Renderer
	Now      func() time.Time

	// OnChange, when set, is called after each file change.
	OnChange func(Change)
}

func (e *Env) now() func() time.Time {
	if e.Now == nil {
		return time.Now
	}
	return e.Now
}

func (e *Env) timeout() time.Duration {
	return e.Editor.Configuration().CommandTimeout
}

func (e *Env) root() string {
	return e.Editor.RootPath()
}

// Source builds a template Source for path.
func (e *Env) Source(path string) *dtpl.Source {
	return dtpl.NewSource(path, dtpl.SourceEnv{
		Root:     e.root(),
		Settings: e.Editor.Configuration(),
		Reader:   e.Editor,
		Now:      e.Now,
	})
}

// abs resolves p against the project root.
func (e *Env) abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(e.root(), p)
}

func (e *Env) inRoot(p string) bool {
	rel, err := filepath.Rel(e.root(), p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// rel formats p for messages.
func (e *Env) rel(p string) string {
	if rel, err := filepath.Rel(e.root(), p); err == nil && e.inRoot(p) {
		return filepath.ToSlash(rel)
	}
	return p
}

func (e *Env) rels(paths []string) string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = e.rel(p)
	}
	return strings.Join(out, ", ")
}

// renderMatch renders the asset of a file template with data.
func (e *Env) renderMatch(m *dtpl.Matched, data dtpl.Data) (string, error) {
	b, err := fs.ReadFile(m.Folder.FS, m.Asset)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", m.TemplatePath, err)
	}
	return e.Renderer.Render(m.TemplatePath, string(b), data)
}

func (e *Env) write(ctx context.Context, path, content string, kind ChangeKind) error {
	if err := e.Editor.SetFileContent(ctx, path, content); err != nil {
		return fmt.Errorf("writing %s: %w", e.rel(path), err)
	}
	e.Editor.Debug(fmt.Sprintf("%s %s", kind, e.rel(path)))
	e.publish(kind, path)
	return nil
}

func (e *Env) remove(ctx context.Context, path string) error {
	_ = e.Editor.CloseFile(ctx, path)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", e.rel(path), err)
	}
	e.Editor.Debug(fmt.Sprintf("deleted %s", e.rel(path)))
	e.publish(Deleted, path)
	return nil
}

func (e *Env) content(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	c, err := e.Editor.FileContent(path)
	if err != nil {
		return "", false
	}
	return c, true
}

func (e *Env) open(ctx context.Context, path string) {
	if err := e.Editor.OpenFile(ctx, path); err != nil {
		e.Editor.Debug(fmt.Sprintf("could not open %s: %s", e.rel(path), err.Error()))
	}
}

// confirm asks before discarding user changes.
func (e *Env) confirm(ctx context.Context, message string) error {
	ok, err := e.Editor.Confirm(ctx, message)
	if err != nil {
		return err
	}
	if !ok {
		return editor.ErrDeclined
	}
	return nil
}

func (e *Env) publish(kind ChangeKind, path string) {
	if e.OnChange != nil {
		e.OnChange(Change{Kind: kind, Path: path})
	}
}
