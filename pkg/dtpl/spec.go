package dtpl

import (
	"fmt"
	"maps"
	"path"

	"github.com/go-viper/mapstructure/v2"
	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/render"
)

// fileSpec is the shape of declarative config files.
type fileSpec struct {
	Data      map[string]any            `mapstructure:"data"`
	Templates any                       `mapstructure:"templates"`
	Local     map[string]map[string]any `mapstructure:"local"`
}

type templateSpec struct {
	Name    string         `mapstructure:"name"`
	Matches any            `mapstructure:"matches"`
	Exact   bool           `mapstructure:"exact"`
	Glob    *globSpec      `mapstructure:"glob"`
	Data    map[string]any `mapstructure:"data"`
	Filter  []filterRule   `mapstructure:"filter"`
	Related []relatedSpec  `mapstructure:"related"`
}

type globSpec struct {
	MatchBase *bool `mapstructure:"matchBase"`
	Dot       *bool `mapstructure:"dot"`
	NoCase    *bool `mapstructure:"nocase"`
}

// filterRule applies to directory template entries whose relative path matches Match.
// The first matching rule wins.
type filterRule struct {
	Match   string  `mapstructure:"match"`
	Exclude bool    `mapstructure:"exclude"`
	Name    string  `mapstructure:"name"`
	Path    string  `mapstructure:"path"`
	Content *string `mapstructure:"content"`
	Raw     bool    `mapstructure:"raw"`
}

type relatedSpec struct {
	RelativePath     string `mapstructure:"relativePath"`
	Reference        string `mapstructure:"reference"`
	Begin            *Point `mapstructure:"begin"`
	End              *Point `mapstructure:"end"`
	SmartInsertStyle bool   `mapstructure:"smartInsertStyle"`
}

// declarative is a Config backed by a decoded file.
type declarative struct {
	global    Data
	templates []Template
	local     map[string]map[string]any
}

func (d *declarative) Templates(*Source) ([]Template, error) {
	return d.templates, nil
}

func (d *declarative) Global(*Source) (Data, error) {
	return maps.Clone(d.global), nil
}

func (d *declarative) Local(t *Template, _ *Source) (Data, error) {
	return maps.Clone(d.local[t.Name]), nil
}

// configFromMap builds a declarative Config from a decoded document. order is the declaration
// order of keyed templates, if known.
func configFromMap(raw map[string]any, order []string) (Config, error) {
	var spec fileSpec
	if err := decodeSpec(raw, &spec); err != nil {
		return nil, err
	}

	templates, err := normalizeTemplates(spec.Templates, order)
	if err != nil {
		return nil, err
	}

	return &declarative{
		global:    spec.Data,
		templates: templates,
		local:     spec.Local,
	}, nil
}

// normalizeTemplates accepts a list of templates or a table keyed by template name.
func normalizeTemplates(v any, order []string) ([]Template, error) {
	var specs []templateSpec

	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("config has no templates")
	case []any:
		for i, item := range x {
			var ts templateSpec
			if err := decodeSpec(item, &ts); err != nil {
				return nil, fmt.Errorf("template %d: %w", i, err)
			}
			specs = append(specs, ts)
		}
	case []map[string]any:
		for i, item := range x {
			var ts templateSpec
			if err := decodeSpec(item, &ts); err != nil {
				return nil, fmt.Errorf("template %d: %w", i, err)
			}
			specs = append(specs, ts)
		}
	case map[string]any:
		for _, name := range orderedKeys(x, order) {
			var ts templateSpec
			if err := decodeSpec(x[name], &ts); err != nil {
				return nil, fmt.Errorf("template %q: %w", name, err)
			}
			ts.Name = name
			specs = append(specs, ts)
		}
	default:
		return nil, fmt.Errorf("templates must be a list or a table, got %T", v)
	}

	out := make([]Template, 0, len(specs))
	for _, ts := range specs {
		t, err := ts.template()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (ts templateSpec) template() (Template, error) {
	if ts.Name == "" {
		return Template{}, fmt.Errorf("template without a name")
	}

	matches, err := NormalizeMatches(ts.Matches)
	if err != nil {
		return Template{}, fmt.Errorf("template %q: %w", ts.Name, err)
	}

	t := Template{
		Name:    ts.Name,
		Matches: matches,
		Exact:   ts.Exact,
		Data:    ts.Data,
	}
	if ts.Glob != nil {
		t.Glob = ts.Glob.options()
	}
	if len(ts.Filter) > 0 {
		t.Filter = filterFromRules(ts.Filter)
	}
	if len(ts.Related) > 0 {
		t.Related = relatedFromSpecs(ts.Related)
	}
	return t, nil
}

func (g globSpec) options() *config.GlobOptions {
	out := config.DefaultConfiguration().Glob
	if g.MatchBase != nil {
		out.MatchBase = *g.MatchBase
	}
	if g.Dot != nil {
		out.Dot = *g.Dot
	}
	if g.NoCase != nil {
		out.NoCase = *g.NoCase
	}
	return &out
}

func filterFromRules(rules []filterRule) Filter {
	opts := config.GlobOptions{MatchBase: true, Dot: true}

	return func(entry CopySource) (FilterResult, error) {
		for _, rule := range rules {
			ok, err := MatchGlob(rule.Match, path.Clean(entry.RelativePath), opts)
			if err != nil {
				return FilterResult{}, fmt.Errorf("filter pattern %q: %w", rule.Match, err)
			}
			if !ok {
				continue
			}

			if rule.Exclude {
				return FilterResult{Skip: true}, nil
			}

			data := Merge(entry.Data, Data{"name": entry.Name, "rawName": entry.RawName})
			res := FilterResult{
				Name:     render.Substitute(rule.Name, data),
				FilePath: render.Substitute(rule.Path, data),
			}
			switch {
			case rule.Content != nil:
				c := render.Substitute(*rule.Content, data)
				res.Content = &c
			case rule.Raw:
				c := entry.RawContent
				res.Content = &c
				if rule.Name == "" {
					res.Name = entry.RawName
				}
			}
			return res, nil
		}
		return FilterResult{}, nil
	}
}

func relatedFromSpecs(specs []relatedSpec) RelatedFunc {
	return func(data Data, _ string) ([]Related, error) {
		out := make([]Related, 0, len(specs))
		for _, s := range specs {
			out = append(out, Related{
				RelativePath:     render.Substitute(s.RelativePath, data),
				Reference:        render.Substitute(s.Reference, data),
				Begin:            s.Begin,
				End:              s.End,
				SmartInsertStyle: s.SmartInsertStyle,
			})
		}
		return out, nil
	}
}

func decodeSpec(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
