package dtpl

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Matched is the outcome of a successful template lookup.
type Matched struct {
	Folder   Folder
	Template *Template
	// Asset is the template's name inside Folder.FS.
	Asset string
	// TemplatePath is the asset's path as shown to users.
	TemplatePath string
	Data         Data
	Source       *Source
}

// Resolver finds the template for a Source across its configuration folders.
type Resolver struct {
	Home     string
	Builtin  Folder
	Loader   *Loader
	Reporter Reporter
	Options  LoadOptions
}

func NewResolver(rep Reporter) *Resolver {
	return &Resolver{
		Home:     xdg.Home,
		Builtin:  BuiltinFolder(),
		Loader:   NewLoader(),
		Reporter: rep,
		Options:  LoadOptions{BypassCache: true},
	}
}

// Folders lists the configuration folders probed for src, nearest first.
func (r *Resolver) Folders(src *Source, isDir bool) []Folder {
	excludeSelf := isDir && filepath.Base(src.Path) == src.FolderName
	return ConfigFolders(src.Path, r.Home, src.FolderName, excludeSelf, r.Builtin)
}

// Match returns the first template matching src, or nil when none does. isDir selects
// directory templates instead of file templates.
func (r *Resolver) Match(src *Source, isDir bool) *Matched {
	for _, folder := range r.Folders(src, isDir) {
		if !folder.Exists() {
			continue
		}

		cfg, err := r.Loader.Load(folder, src, r.Options)
		if errors.Is(err, ErrNoConfig) {
			r.warning(fmt.Sprintf("no config file in %s", folder.Dir))
			continue
		}
		if err != nil {
			r.error(fmt.Sprintf("loading config in %s: %s", folder.Dir, err.Error()), err)
			continue
		}

		if m := r.matchFolder(folder, cfg, src, isDir); m != nil {
			r.debug(fmt.Sprintf("matched template %s", m.TemplatePath))
			return m
		}
	}

	r.debug(fmt.Sprintf("no template matches %s", src.Path))
	return nil
}

func (r *Resolver) matchFolder(folder Folder, cfg Config, src *Source, isDir bool) *Matched {
	templates, ok := RunHook(r.Reporter, "config templates", func() ([]Template, error) {
		return cfg.Templates(src)
	})
	if !ok {
		return nil
	}

	for i := range templates {
		t := &templates[i]
		if !r.matches(folder, t, src, isDir) {
			continue
		}

		global, _ := RunHook(r.Reporter, "config global data", func() (Data, error) {
			return cfg.Global(src)
		})
		local, _ := RunHook(r.Reporter, "config local data", func() (Data, error) {
			return cfg.Local(t, src)
		})

		asset, _ := assetName(t.Name)
		return &Matched{
			Folder:       folder,
			Template:     t,
			Asset:        asset,
			TemplatePath: folder.AssetPath(t.Name),
			Data:         Merge(src.BasicData(), global, t.Data, local),
			Source:       src,
		}
	}
	return nil
}

// matches applies the OR of the template's matchers, then checks its asset.
func (r *Resolver) matches(folder Folder, t *Template, src *Source, isDir bool) bool {
	for _, m := range t.Matches {
		if !r.matchOne(t, m, src) {
			continue
		}

		info, err := folder.Stat(t.Name)
		if err != nil {
			r.warning(fmt.Sprintf("template %s does not exist, ignored", folder.AssetPath(t.Name)))
			continue
		}
		if info.IsDir() != isDir {
			continue
		}
		return true
	}
	return false
}

func (r *Resolver) matchOne(t *Template, m Matcher, src *Source) bool {
	if m.IsPredicate() {
		ok, _ := RunHook(r.Reporter, "template "+t.Name+" matches", func() (bool, error) {
			return m.Predicate(src)
		})
		return ok
	}

	if t.Exact {
		return src.RelativePath == m.Glob
	}

	opts := src.Glob
	if t.Glob != nil {
		opts = *t.Glob
	}
	ok, err := MatchGlob(m.Glob, src.RelativePath, opts)
	if err != nil {
		r.warning(fmt.Sprintf("template %s has a bad pattern %q: %s", t.Name, m.Glob, err.Error()))
		return false
	}
	return ok
}

func (r *Resolver) debug(msg string) {
	if r.Reporter != nil {
		r.Reporter.Debug(msg)
	}
}

func (r *Resolver) warning(msg string) {
	if r.Reporter != nil {
		r.Reporter.Warning(msg)
	}
}

func (r *Resolver) error(msg string, err error) {
	if r.Reporter != nil {
		r.Reporter.Error(msg, err)
	}
}
