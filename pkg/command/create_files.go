package command

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olimci/dtpl/pkg/utils/fileutils"
	"github.com/olimci/dtpl/pkg/utils/set"
)

type fileRecord struct {
	path       string
	existed    bool
	content    string
	opened     bool
	newContent string
	dirs       []string
}

// CreateFiles fills new or empty files from their templates.
type CreateFiles struct {
	base
	env   *Env
	files []string
	open  bool

	records []fileRecord
}

// NewCreateFiles keeps the paths inside the project that are missing or blank. It returns
// ErrNothingToDo when none are left.
func NewCreateFiles(env *Env, files []string, open bool) (*CreateFiles, error) {
	targets := set.New[string]()
	for _, f := range files {
		p := env.abs(f)
		if !env.inRoot(p) {
			env.Editor.Debug(fmt.Sprintf("skipping %s: outside of the project", p))
			continue
		}
		if fileutils.Exists(p) {
			content, ok := env.content(p)
			if !ok || strings.TrimSpace(content) != "" {
				continue
			}
		}
		targets.Add(p)
	}
	if targets.Len() == 0 {
		return nil, fmt.Errorf("%w: no new or empty file in %s", ErrNothingToDo, env.rels(files))
	}

	c := &CreateFiles{env: env, files: targets.Values(), open: open}
	c.base = newBase("create files "+env.rels(c.files), env.timeout(), env.now(), c)
	return c, nil
}

func (c *CreateFiles) Files() []string {
	return c.files
}

func (c *CreateFiles) execute(ctx context.Context) error {
	c.records = c.records[:0]

	for _, path := range c.files {
		content := ""
		src := c.env.Source(path)
		if m := c.env.Resolver.Match(src, false); m != nil {
			out, err := c.env.renderMatch(m, m.Data)
			if err != nil {
				return err
			}
			content = out
		}

		rec := fileRecord{path: path, newContent: content}
		if current, ok := c.env.content(path); ok {
			rec.existed = true
			rec.content = current
			rec.opened = c.env.Editor.IsOpened(path)
		} else {
			dirs, err := fileutils.EnsureDir(filepath.Dir(path))
			rec.dirs = dirs
			if err != nil {
				c.records = append(c.records, rec)
				return fmt.Errorf("creating directory for %s: %w", c.env.rel(path), err)
			}
		}
		c.records = append(c.records, rec)

		if !rec.existed || rec.content != content {
			kind := Created
			if rec.existed {
				kind = Updated
			}
			if err := c.env.write(ctx, path, content, kind); err != nil {
				return err
			}
		}

		if c.open {
			c.env.open(ctx, path)
		}
	}
	return nil
}

func (c *CreateFiles) rollback(ctx context.Context) error {
	var changed []string
	for _, rec := range c.records {
		if current, ok := c.env.content(rec.path); ok && current != rec.newContent {
			changed = append(changed, rec.path)
		}
	}
	if len(changed) > 0 {
		msg := fmt.Sprintf("%s changed since it was created, undo anyway?", c.env.rels(changed))
		if err := c.env.confirm(ctx, msg); err != nil {
			return err
		}
	}

	for i := len(c.records) - 1; i >= 0; i-- {
		rec := c.records[i]
		if !rec.existed {
			if err := c.env.remove(ctx, rec.path); err != nil {
				return err
			}
			if err := fileutils.RemoveEmptyDirs(rec.dirs); err != nil {
				return err
			}
			continue
		}

		if current, ok := c.env.content(rec.path); !ok || current != rec.content {
			if err := c.env.write(ctx, rec.path, rec.content, Updated); err != nil {
				return err
			}
		}
		if rec.opened {
			c.env.open(ctx, rec.path)
		} else {
			_ = c.env.Editor.CloseFile(ctx, rec.path)
		}
	}
	return nil
}
