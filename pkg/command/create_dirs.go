package command

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/render"
	"github.com/olimci/dtpl/pkg/utils/fileutils"
	"github.com/olimci/dtpl/pkg/utils/stack"
)

type dirRecord struct {
	dir     string
	existed bool
	dirs    []string
	files   map[string]string
	created *stack.Stack[string]
}

// CreateDirectories copies directory templates into new or empty directories.
type CreateDirectories struct {
	base
	env     *Env
	matches []*dtpl.Matched

	records []*dirRecord
}

// NewCreateDirectories keeps the folders inside the project that are missing or empty and
// have a directory template.
func NewCreateDirectories(env *Env, folders []string) (*CreateDirectories, error) {
	var candidates []string
	for _, f := range folders {
		p := env.abs(f)
		if !env.inRoot(p) || slices.Contains(candidates, p) {
			continue
		}
		if fileutils.Exists(p) && !isEmptyDir(p) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no folder can be created from %s, it must be inside the project and missing or empty", ErrNothingToDo, env.rels(folders))
	}

	c := &CreateDirectories{env: env}
	var names []string
	for _, p := range candidates {
		if m := env.Resolver.Match(env.Source(p), true); m != nil {
			c.matches = append(c.matches, m)
			names = append(names, p)
		}
	}
	if len(c.matches) == 0 {
		return nil, fmt.Errorf("%w: no template for %s", ErrNothingToDo, env.rels(candidates))
	}

	c.base = newBase("create folders "+env.rels(names), env.timeout(), env.now(), c)
	return c, nil
}

// Folders lists the destination folders, one per matched template.
func (c *CreateDirectories) Folders() []string {
	out := make([]string, len(c.matches))
	for i, m := range c.matches {
		out[i] = m.Source.Path
	}
	return out
}

func (c *CreateDirectories) execute(ctx context.Context) error {
	c.records = c.records[:0]

	for _, m := range c.matches {
		toDir := m.Source.Path
		rec := &dirRecord{
			dir:     toDir,
			existed: fileutils.IsDir(toDir),
			files:   map[string]string{},
			created: stack.New[string](),
		}
		c.records = append(c.records, rec)

		dirs, err := fileutils.EnsureDir(toDir)
		rec.dirs = append(rec.dirs, dirs...)
		if err != nil {
			return fmt.Errorf("creating %s: %w", c.env.rel(toDir), err)
		}

		result := dtpl.CopyResult{}
		if err := c.copyDir(ctx, m, rec, m.Asset, &result); err != nil {
			return err
		}

		if after := m.Template.AfterFilter; after != nil {
			dtpl.RunHook(c.env.Editor, "template afterFilter", func() (struct{}, error) {
				return struct{}{}, after(m.TemplatePath, toDir, result)
			})
		}
		c.env.Editor.Info(fmt.Sprintf("created %s from %s", c.env.rel(toDir), m.TemplatePath))
	}
	return nil
}

func (c *CreateDirectories) copyDir(ctx context.Context, m *dtpl.Matched, rec *dirRecord, dir string, result *dtpl.CopyResult) error {
	entries, err := fs.ReadDir(m.Folder.FS, dir)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", m.Folder.AssetPath(dir), err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		fromPath := path.Join(dir, entry.Name())
		relPath, _ := filepath.Rel(filepath.FromSlash(m.Asset), filepath.FromSlash(fromPath))
		relPath = filepath.ToSlash(relPath)

		newRel := c.env.Renderer.StripExtension(render.Substitute(relPath, m.Data))
		toPath := filepath.Join(rec.dir, filepath.FromSlash(newRel))

		cs := dtpl.CopySource{
			FromDir:      m.TemplatePath,
			ToDir:        rec.dir,
			FromPath:     m.Folder.AssetPath(fromPath),
			ToPath:       toPath,
			RelativePath: relPath,
			RawName:      entry.Name(),
			Name:         filepath.Base(toPath),
			IsDir:        entry.IsDir(),
			Data:         m.Data,
		}
		if !entry.IsDir() {
			raw, err := fs.ReadFile(m.Folder.FS, fromPath)
			if err != nil {
				return fmt.Errorf("reading template %s: %w", cs.FromPath, err)
			}
			cs.RawContent = string(raw)
			data := dtpl.WithRef(c.env.Source(toPath).BasicData(), m.Data)
			if cs.Content, err = c.env.Renderer.Render(cs.FromPath, cs.RawContent, data); err != nil {
				return err
			}
		}

		if filter := m.Template.Filter; filter != nil {
			res, _ := dtpl.RunHook(c.env.Editor, "template filter", func() (dtpl.FilterResult, error) {
				return filter(cs)
			})
			if res.Skip {
				continue
			}
			if res.Content != nil {
				cs.Content = *res.Content
			}
			switch {
			case res.FilePath != "":
				toPath = c.env.abs(filepath.FromSlash(res.FilePath))
			case res.Name != "":
				toPath = filepath.Join(filepath.Dir(toPath), res.Name)
			}
		}

		if !within(rec.dir, toPath) {
			c.env.Editor.Warning(fmt.Sprintf("refusing to write %s outside of %s", c.env.rel(toPath), c.env.rel(rec.dir)))
			continue
		}
		if m.Folder.Contains(toPath) {
			c.env.Editor.Warning(fmt.Sprintf("refusing to write %s into the template folder", c.env.rel(toPath)))
			continue
		}

		if entry.IsDir() {
			dirs, err := fileutils.EnsureDir(toPath)
			rec.dirs = append(rec.dirs, dirs...)
			if err != nil {
				return fmt.Errorf("creating %s: %w", c.env.rel(toPath), err)
			}
			result.Folders = append(result.Folders, toPath)
			if err := c.copyDir(ctx, m, rec, fromPath, result); err != nil {
				return err
			}
			continue
		}

		if fileutils.Exists(toPath) {
			c.env.Editor.Warning(fmt.Sprintf("%s already exists, skipped", c.env.rel(toPath)))
			continue
		}
		dirs, err := fileutils.EnsureDir(filepath.Dir(toPath))
		rec.dirs = append(rec.dirs, dirs...)
		if err != nil {
			return fmt.Errorf("creating directory for %s: %w", c.env.rel(toPath), err)
		}
		if err := c.env.write(ctx, toPath, cs.Content, Created); err != nil {
			return err
		}
		rec.files[toPath] = cs.Content
		rec.created.Push(toPath)
		result.Files = append(result.Files, toPath)
	}
	return nil
}

func (c *CreateDirectories) rollback(ctx context.Context) error {
	var changed []string
	for _, rec := range c.records {
		files, _, err := fileutils.Walk(rec.dir)
		if err != nil {
			continue
		}
		for _, rel := range files.Values() {
			p := filepath.Join(rec.dir, filepath.FromSlash(rel))
			written, ours := rec.files[p]
			if current, ok := c.env.content(p); !ours || !ok || current != written {
				changed = append(changed, p)
			}
		}
	}
	if len(changed) > 0 {
		msg := fmt.Sprintf("%s added or changed since the folder was created, undo and delete anyway?", c.env.rels(changed))
		if err := c.env.confirm(ctx, msg); err != nil {
			return err
		}
	}

	for i := len(c.records) - 1; i >= 0; i-- {
		rec := c.records[i]
		for _, p := range rec.created.Drain() {
			if err := c.env.remove(ctx, p); err != nil {
				return err
			}
		}

		entries, err := os.ReadDir(rec.dir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		for _, e := range entries {
			if err := os.RemoveAll(filepath.Join(rec.dir, e.Name())); err != nil {
				return err
			}
		}

		if rec.existed {
			continue
		}
		if err := fileutils.RemoveEmptyDirs(rec.dirs); err != nil {
			return err
		}
	}
	return nil
}

func isEmptyDir(p string) bool {
	entries, err := os.ReadDir(p)
	return err == nil && len(entries) == 0
}

func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && rel != "." && rel != ".." && !filepath.IsAbs(rel) &&
		(len(rel) < 3 || rel[:3] != ".."+string(filepath.Separator))
}
