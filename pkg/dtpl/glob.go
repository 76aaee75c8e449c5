package dtpl

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/olimci/dtpl/pkg/config"
)

// MatchGlob matches a slash separated relative path against pattern. A leading "!" negates the
// pattern. With MatchBase, patterns without a slash are matched against the base name. Without
// Dot, dot-prefixed segments only match pattern segments that start with a dot themselves.
func MatchGlob(pattern, rel string, opts config.GlobOptions) (bool, error) {
	negate := false
	for strings.HasPrefix(pattern, "!") {
		negate = !negate
		pattern = pattern[1:]
	}

	if opts.NoCase {
		pattern = strings.ToLower(pattern)
		rel = strings.ToLower(rel)
	}

	subject := rel
	if opts.MatchBase && !strings.Contains(pattern, "/") {
		subject = path.Base(rel)
	}

	ok, err := doublestar.Match(pattern, subject)
	if err != nil {
		return false, err
	}
	if ok && !opts.Dot && hasDotSegment(subject) && !hasDotSegment(pattern) {
		ok = false
	}

	return ok != negate, nil
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}
