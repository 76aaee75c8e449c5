package dtpl

import (
	"encoding/json"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/naming"
	"github.com/olimci/dtpl/pkg/utils/lazy"
	"golang.org/x/mod/modfile"
)

// FileReader reads file content the way the host sees it, which may include unsaved edits.
type FileReader interface {
	FileContent(path string) (string, error)
}

type SourceEnv struct {
	Root     string
	Settings *config.Configuration
	Reader   FileReader
	Now      func() time.Time
}

// Source describes one path being scaffolded. It is immutable once built.
type Source struct {
	Path         string
	RelativePath string

	Exists      bool
	IsFile      bool
	IsDirectory bool
	Content     string

	FolderName string
	Extensions config.Extensions
	Glob       config.GlobOptions

	env   SourceEnv
	basic *lazy.Value[Data]
}

func NewSource(path string, env SourceEnv) *Source {
	if env.Settings == nil {
		env.Settings = config.DefaultConfiguration()
	}
	if env.Now == nil {
		env.Now = time.Now
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	s := &Source{
		Path:       abs,
		FolderName: env.Settings.FolderName,
		Extensions: env.Settings.Extensions,
		Glob:       env.Settings.Glob,
		env:        env,
	}

	if rel, err := filepath.Rel(env.Root, abs); err == nil {
		s.RelativePath = filepath.ToSlash(rel)
	} else {
		s.RelativePath = filepath.ToSlash(abs)
	}

	if info, err := os.Stat(abs); err == nil {
		s.Exists = true
		s.IsFile = info.Mode().IsRegular()
		s.IsDirectory = info.IsDir()
	}
	if s.IsFile {
		s.Content = readContent(env.Reader, abs)
	}

	s.basic = lazy.New(s.computeBasicData)
	return s
}

func (s *Source) Name() string {
	return filepath.Base(s.Path)
}

// BasicData returns the file derived variables. The result is computed once per Source; callers
// get their own copy.
func (s *Source) BasicData() Data {
	return maps.Clone(s.basic.Get())
}

func (s *Source) computeBasicData() Data {
	now := s.env.Now()
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")

	root := s.env.Root
	dirPath := filepath.Dir(s.Path)
	fileExt := filepath.Ext(s.Path)
	fileName := strings.TrimSuffix(filepath.Base(s.Path), fileExt)
	names := naming.Of(fileName)

	return Data{
		"date":     date,
		"time":     clock,
		"datetime": date + " " + clock,

		"user":     currentUser(),
		"pkg":      readPackageJSON(root),
		"goModule": readGoModule(root),

		"rootPath":         root,
		"npmPath":          filepath.Join(root, "node_modules"),
		"filePath":         s.Path,
		"dirPath":          dirPath,
		"fileName":         fileName,
		"dirName":          filepath.Base(dirPath),
		"fileExt":          fileExt,
		"relativeFilePath": s.RelativePath,

		"rawModuleName": names.Raw,
		"moduleName":    names.Camel,
		"ModuleName":    names.Capitalize,
		"MODULE_NAME":   names.Upper,
		"module_name":   names.Snake,
	}
}

// Describe exposes the Source as plain data for configuration languages.
func (s *Source) Describe() map[string]any {
	return map[string]any{
		"path":         s.Path,
		"relativePath": s.RelativePath,
		"name":         s.Name(),
		"exists":       s.Exists,
		"isFile":       s.IsFile,
		"isDirectory":  s.IsDirectory,
		"content":      s.Content,
		"data":         s.BasicData(),
	}
}

func readContent(r FileReader, path string) string {
	if r != nil {
		if c, err := r.FileContent(path); err == nil {
			return c
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(b)
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return os.Getenv("USERNAME")
}

func readPackageJSON(root string) map[string]any {
	out := make(map[string]any)
	b, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return make(map[string]any)
	}
	return out
}

func readGoModule(root string) string {
	b, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(b)
}
