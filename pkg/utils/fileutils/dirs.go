package fileutils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Exists reports whether path exists, following symlinks.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates dir and any missing parents. It returns the directories it created,
// outermost first.
func EnsureDir(dir string) ([]string, error) {
	dir = filepath.Clean(dir)

	var missing []string
	for cur := dir; ; cur = filepath.Dir(cur) {
		info, err := os.Stat(cur)
		if err == nil {
			if !info.IsDir() {
				return nil, &fs.PathError{Op: "mkdir", Path: cur, Err: fs.ErrExist}
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		missing = append(missing, cur)
		if filepath.Dir(cur) == cur {
			break
		}
	}

	slices.Reverse(missing)
	for i, d := range missing {
		if err := os.Mkdir(d, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			return missing[:i], err
		}
	}
	return missing, nil
}

// RemoveEmptyDirs removes the given directories innermost first, skipping any that are
// not empty or already gone.
func RemoveEmptyDirs(dirs []string) error {
	ordered := slices.Clone(dirs)
	slices.SortFunc(ordered, func(a, b string) int { return len(b) - len(a) })

	for _, d := range ordered {
		entries, err := os.ReadDir(d)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(d); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
