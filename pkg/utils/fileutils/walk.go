package fileutils

import (
	"os"
	"path/filepath"

	"github.com/olimci/dtpl/pkg/utils/set"
)

// Walk walks a directory tree and returns the files and directories below it, relative to root.
func Walk(root string) (files *set.Set[string], dirs *set.Set[string], err error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}

	files = set.New[string]()
	dirs = set.New[string]()

	err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			dirs.Add(rel)
		} else {
			files.Add(rel)
		}

		return nil
	})

	return files, dirs, err
}

// Snapshot reads every file below root into a map keyed by relative path.
func Snapshot(root string) (map[string]string, error) {
	files, _, err := Walk(root)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, files.Len())
	for _, rel := range files.Values() {
		b, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return nil, err
		}
		out[rel] = string(b)
	}
	return out, nil
}
