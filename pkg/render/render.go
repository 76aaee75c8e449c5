// Package render turns template assets into file content, choosing an engine by file suffix.
package render

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/olimci/dtpl/pkg/config"
)

// Engine renders one template body.
type Engine interface {
	Render(name, content string, data map[string]any) (string, error)
}

type EngineFunc func(name, content string, data map[string]any) (string, error)

func (f EngineFunc) Render(name, content string, data map[string]any) (string, error) {
	return f(name, content, data)
}

type Renderer struct {
	suffixes []string
	engines  map[string]Engine
}

// New builds a Renderer with the substitution engine on ext.Dtpl, Go templates on ext.Tmpl and
// a pass-through slot on ext.Njk.
func New(ext config.Extensions) *Renderer {
	r := &Renderer{engines: make(map[string]Engine)}
	r.Register(ext.Dtpl, Substitution{})
	r.Register(ext.Tmpl, GoTemplate{})
	r.Register(ext.Njk, PassThrough{})
	return r
}

// Register binds e to files ending in suffix, replacing any engine already bound to it.
func (r *Renderer) Register(suffix string, e Engine) {
	if suffix == "" {
		return
	}
	if _, ok := r.engines[suffix]; !ok {
		r.suffixes = append(r.suffixes, suffix)
		slices.SortStableFunc(r.suffixes, func(a, b string) int { return len(b) - len(a) })
	}
	r.engines[suffix] = e
}

// Suffix returns the engine suffix name ends with, or "".
func (r *Renderer) Suffix(name string) string {
	for _, s := range r.suffixes {
		if strings.HasSuffix(name, s) {
			return s
		}
	}
	return ""
}

func (r *Renderer) IsTemplate(name string) bool {
	return r.Suffix(name) != ""
}

// Render renders content with the engine selected by templatePath. Content of an unrecognised
// file is returned unchanged.
func (r *Renderer) Render(templatePath, content string, data map[string]any) (string, error) {
	suffix := r.Suffix(templatePath)
	if suffix == "" {
		return content, nil
	}
	out, err := r.engines[suffix].Render(templatePath, content, data)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", templatePath, err)
	}
	return out, nil
}

func (r *Renderer) RenderFile(fsys fs.FS, name string, data map[string]any) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return r.Render(name, string(b), data)
}

// StripExtension removes exactly one recognised engine suffix.
func (r *Renderer) StripExtension(name string) string {
	return strings.TrimSuffix(name, r.Suffix(name))
}
