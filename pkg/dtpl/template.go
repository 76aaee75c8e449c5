package dtpl

import (
	"fmt"

	"github.com/olimci/dtpl/pkg/config"
)

// Matcher is one entry of a template's match list: either a glob or a predicate.
type Matcher struct {
	Glob      string
	Predicate func(src *Source) (bool, error)
}

func Glob(pattern string) Matcher {
	return Matcher{Glob: pattern}
}

func Predicate(fn func(src *Source) (bool, error)) Matcher {
	return Matcher{Predicate: fn}
}

// Const is a predicate with a fixed outcome, as produced by evaluated configuration.
func Const(v bool) Matcher {
	return Predicate(func(*Source) (bool, error) { return v, nil })
}

func (m Matcher) IsPredicate() bool {
	return m.Predicate != nil
}

func (m Matcher) String() string {
	if m.IsPredicate() {
		return "<predicate>"
	}
	return m.Glob
}

// NormalizeMatches converts a decoded `matches` value into matchers.
func NormalizeMatches(v any) ([]Matcher, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []Matcher{Glob(x)}, nil
	case bool:
		return []Matcher{Const(x)}, nil
	case Matcher:
		return []Matcher{x}, nil
	case []Matcher:
		return x, nil
	case func(*Source) (bool, error):
		return []Matcher{Predicate(x)}, nil
	case func(*Source) bool:
		return []Matcher{Predicate(func(s *Source) (bool, error) { return x(s), nil })}, nil
	case []string:
		out := make([]Matcher, len(x))
		for i, p := range x {
			out[i] = Glob(p)
		}
		return out, nil
	case []any:
		out := make([]Matcher, 0, len(x))
		for _, item := range x {
			ms, err := NormalizeMatches(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ms...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported matches entry of type %T", v)
	}
}

// Template pairs match conditions with a named asset in its configuration folder.
type Template struct {
	Name    string
	Matches []Matcher

	// Exact compares glob entries literally against the relative path.
	Exact bool
	// Glob overrides the host glob options for this template.
	Glob *config.GlobOptions

	Data Data

	Filter      Filter
	AfterFilter AfterFilter
	Related     RelatedFunc
}

// CopySource describes one entry while a directory template is copied.
type CopySource struct {
	FromDir      string
	ToDir        string
	FromPath     string
	ToPath       string
	RelativePath string

	RawName string
	Name    string
	IsDir   bool

	RawContent string
	Content    string

	// Data is the render data of the directory being created.
	Data Data
}

// FilterResult is what a filter decides for one entry. The zero value keeps it unchanged.
type FilterResult struct {
	Skip bool

	// Name renames the entry within its directory.
	Name string
	// FilePath moves the entry to a path relative to the project root. It wins over Name.
	FilePath string
	// Content replaces the rendered content of a file entry.
	Content *string
}

type Filter func(entry CopySource) (FilterResult, error)

type CopyResult struct {
	Files   []string
	Folders []string
}

type AfterFilter func(fromDir, toDir string, result CopyResult) error

type Point struct {
	Row int `mapstructure:"row" json:"row"`
	Col int `mapstructure:"col" json:"col"`
}

// Related describes a file created alongside another one.
type Related struct {
	// RelativePath is resolved against the originating file's directory when it starts with
	// ".", and against the project root otherwise.
	RelativePath string

	Reference        string
	Begin            *Point
	End              *Point
	SmartInsertStyle bool
}

type RelatedFunc func(data Data, content string) ([]Related, error)
