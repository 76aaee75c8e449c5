package command

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/editor"
	"github.com/olimci/dtpl/pkg/utils/fileutils"
)

type relatedTarget struct {
	path    string
	related dtpl.Related
}

type relatedRecord struct {
	path    string
	content string
	dirs    []string
}

// CreateRelated creates the files a template declares as related to an existing file, and
// writes references to them into it.
type CreateRelated struct {
	base
	env     *Env
	file    string
	match   *dtpl.Matched
	targets []relatedTarget

	records  []relatedRecord
	original *string
	injected string
}

func NewCreateRelated(env *Env, file string) (*CreateRelated, error) {
	file = env.abs(file)
	if !env.inRoot(file) || !fileutils.IsFile(file) {
		return nil, fmt.Errorf("%w: %s is not a file in the project", ErrNothingToDo, env.rel(file))
	}

	src := env.Source(file)
	m := env.Resolver.Match(src, false)
	if m == nil || m.Template.Related == nil {
		return nil, fmt.Errorf("%w: no related files declared for %s", ErrNothingToDo, env.rel(file))
	}

	related, _ := dtpl.RunHook(env.Editor, "template related", func() ([]dtpl.Related, error) {
		return m.Template.Related(m.Data, src.Content)
	})

	c := &CreateRelated{env: env, file: file, match: m}
	seen := map[string]bool{}
	for _, r := range related {
		if r.RelativePath == "" {
			continue
		}
		base := env.root()
		if strings.HasPrefix(r.RelativePath, ".") {
			base = filepath.Dir(file)
		}
		p := filepath.Join(base, filepath.FromSlash(r.RelativePath))
		if !env.inRoot(p) {
			env.Editor.Warning(fmt.Sprintf("related file %s is outside the project, skipped", p))
			continue
		}
		if seen[p] || fileutils.Exists(p) {
			env.Editor.Debug(fmt.Sprintf("related file %s exists, skipped", env.rel(p)))
			continue
		}
		seen[p] = true
		c.targets = append(c.targets, relatedTarget{path: p, related: r})
	}
	if len(c.targets) == 0 {
		return nil, fmt.Errorf("%w: related files of %s already exist", ErrNothingToDo, env.rel(file))
	}

	c.base = newBase("create related files of "+env.rel(file), env.timeout(), env.now(), c)
	return c, nil
}

func (c *CreateRelated) Targets() []string {
	out := make([]string, len(c.targets))
	for i, t := range c.targets {
		out[i] = t.path
	}
	return out
}

func (c *CreateRelated) execute(ctx context.Context) error {
	c.records = c.records[:0]
	c.original = nil
	eol := c.env.Editor.EOL()

	for _, t := range c.targets {
		dirs, err := fileutils.EnsureDir(filepath.Dir(t.path))
		rec := relatedRecord{path: t.path, dirs: dirs}
		if err != nil {
			c.records = append(c.records, rec)
			return fmt.Errorf("creating directory for %s: %w", c.env.rel(t.path), err)
		}
		if err := c.env.write(ctx, t.path, "", Created); err != nil {
			c.records = append(c.records, rec)
			return err
		}
		c.records = append(c.records, rec)

		if m := c.env.Resolver.Match(c.env.Source(t.path), false); m != nil {
			content, err := c.env.renderMatch(m, dtpl.WithRef(m.Data, c.match.Data))
			if err != nil {
				return err
			}
			if content != "" {
				if err := c.env.write(ctx, t.path, content, Updated); err != nil {
					return err
				}
			}
			c.records[len(c.records)-1].content = content
		}

		if t.related.Reference != "" {
			if err := c.inject(ctx, t.related, eol); err != nil {
				return err
			}
		}

		c.env.open(ctx, t.path)
	}
	return nil
}

func (c *CreateRelated) inject(ctx context.Context, r dtpl.Related, eol string) error {
	current, ok := c.env.content(c.file)
	if !ok {
		return fmt.Errorf("reading %s: file is gone", c.env.rel(c.file))
	}
	if c.original == nil {
		c.original = &current
	}

	updated := Inject(current, r, eol, editor.IsScriptFile(c.file))
	c.injected = updated
	if updated == current {
		return nil
	}
	return c.env.write(ctx, c.file, updated, Updated)
}

func (c *CreateRelated) rollback(ctx context.Context) error {
	var changed []string
	for _, rec := range c.records {
		if current, ok := c.env.content(rec.path); ok && current != rec.content {
			changed = append(changed, rec.path)
		}
	}
	if c.original != nil {
		if current, ok := c.env.content(c.file); ok && current != c.injected {
			changed = append(changed, c.file)
		}
	}
	if len(changed) > 0 {
		msg := fmt.Sprintf("%s changed since the related files were created, undo anyway?", c.env.rels(changed))
		if err := c.env.confirm(ctx, msg); err != nil {
			return err
		}
	}

	for i := len(c.records) - 1; i >= 0; i-- {
		rec := c.records[i]
		if err := c.env.remove(ctx, rec.path); err != nil {
			return err
		}
		if err := fileutils.RemoveEmptyDirs(rec.dirs); err != nil {
			return err
		}
	}

	if c.original != nil {
		if current, ok := c.env.content(c.file); !ok || current != *c.original {
			if err := c.env.write(ctx, c.file, *c.original, Updated); err != nil {
				return err
			}
		}
	}
	return nil
}
