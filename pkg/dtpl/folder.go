package dtpl

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Folder is a configuration folder: a config file plus the template assets it names.
type Folder struct {
	// Dir is the absolute directory, or a display label for folders without one.
	Dir string
	FS  fs.FS

	// Config, when set, is used instead of loading a config file.
	Config Config

	Builtin bool
}

func OSFolder(dir string) Folder {
	return Folder{Dir: dir, FS: os.DirFS(dir)}
}

func (f Folder) Exists() bool {
	if f.Builtin {
		return true
	}
	info, err := os.Stat(f.Dir)
	return err == nil && info.IsDir()
}

// Stat reports on the asset called name.
func (f Folder) Stat(name string) (fs.FileInfo, error) {
	name, err := assetName(name)
	if err != nil {
		return nil, err
	}
	return fs.Stat(f.FS, name)
}

// AssetPath is the path of the named asset as shown to users.
func (f Folder) AssetPath(name string) string {
	if f.Builtin {
		return path.Join(f.Dir, filepath.ToSlash(name))
	}
	return filepath.Join(f.Dir, filepath.FromSlash(name))
}

// Contains reports whether p lies inside the folder on disk.
func (f Folder) Contains(p string) bool {
	if f.Builtin {
		return false
	}
	return within(f.Dir, p)
}

func assetName(name string) (string, error) {
	name = path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return name, nil
}

// CandidateDirs lists the directories that may hold a configuration folder for p: p itself, each
// ancestor up to the filesystem root, then home when it is set and not already listed.
func CandidateDirs(p, home string) []string {
	dir := filepath.Clean(p)
	out := []string{dir}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
		out = append(out, dir)
	}

	if home != "" {
		home = filepath.Clean(home)
		for _, d := range out {
			if d == home {
				return out
			}
		}
		out = append(out, home)
	}
	return out
}

// ConfigFolders turns the candidate directories of p into configuration folders, ending with
// builtin. With excludeSelf, folders at or below p are dropped, so a configuration folder that
// was just created never configures itself.
func ConfigFolders(p, home, folderName string, excludeSelf bool, builtin Folder) []Folder {
	dirs := CandidateDirs(p, home)
	out := make([]Folder, 0, len(dirs)+1)
	for _, d := range dirs {
		dir := filepath.Join(d, folderName)
		if excludeSelf && within(p, dir) {
			continue
		}
		out = append(out, OSFolder(dir))
	}
	return append(out, builtin)
}

// within reports whether p is dir or below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
