package fileutils

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultMode fs.FileMode = 0o644

// WriteString atomically replaces the content of path. An existing file keeps its mode and is
// not rewritten when the content is unchanged.
func WriteString(path, content string) error {
	gen := func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}
	if IsFile(path) {
		return AtomicEdit(path, gen)
	}
	return AtomicWrite(path, gen)
}

// AtomicWrite writes a file through a temporary sibling and a rename.
func AtomicWrite(path string, gen func(w io.Writer) error) error {
	return replace(path, gen, false)
}

// AtomicEdit is AtomicWrite that leaves the file untouched when the content is unchanged.
func AtomicEdit(path string, gen func(w io.Writer) error) error {
	return replace(path, gen, true)
}

func replace(path string, gen func(w io.Writer) error, skipSame bool) error {
	dir, base := filepath.Split(path)
	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	defer func(tmp *os.File) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}(tmp)

	var buf bytes.Buffer
	if err := gen(io.MultiWriter(tmp, &buf)); err != nil {
		return err
	}

	if skipSame {
		if same, err := sameContent(path, buf.Bytes()); err != nil {
			return err
		} else if same {
			return nil
		}
	}

	if err := tmp.Chmod(mode); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	if df, err := os.Open(dir); err == nil {
		_ = df.Sync()
		_ = df.Close()
	}

	return nil
}

func sameContent(path string, content []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, err
	}
	if info.Size() != int64(len(content)) {
		return false, nil
	}
	current, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(current, content), nil
}
