package dtpl

import (
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/olimci/dtpl/pkg/utils/lazy"
)

// BuiltinLabel prefixes paths inside the bundled folder in messages.
const BuiltinLabel = "<dtpl>"

//go:embed all:builtin
var builtinFS embed.FS

var builtinRoot = lazy.Must(func() (fs.FS, error) { return fs.Sub(builtinFS, "builtin") })

// BuiltinFolder is the configuration folder bundled with dtpl. It is always probed last and
// scaffolds new configuration folders.
func BuiltinFolder() Folder {
	return Folder{
		Dir:     BuiltinLabel,
		FS:      builtinRoot.Get(),
		Config:  builtinConfig,
		Builtin: true,
	}
}

var builtinConfig = Funcs{
	TemplatesFunc: func(*Source) ([]Template, error) {
		return []Template{
			{
				Name: "dtpl-folder",
				Matches: []Matcher{
					Predicate(func(src *Source) (bool, error) {
						return filepath.Base(src.Path) == src.FolderName, nil
					}),
				},
				// Starter assets are templates themselves and are copied untouched.
				Filter: func(entry CopySource) (FilterResult, error) {
					raw := entry.RawContent
					return FilterResult{Name: entry.RawName, Content: &raw}, nil
				},
			},
		}, nil
	},
}
