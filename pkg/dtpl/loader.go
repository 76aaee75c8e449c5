package dtpl

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"
)

var ErrNoConfig = errors.New("no config file")

// ConfigFiles are the config file names probed in a folder, in order.
var ConfigFiles = []string{"dtpl.toml", "dtpl.yaml", "dtpl.yml", "dtpl.json", "dtpl.cue"}

// ModuleLoader turns the bytes of one config file into a Config.
type ModuleLoader interface {
	Load(filename string, b []byte, src *Source) (Config, error)
}

type ModuleLoaderFunc func(filename string, b []byte, src *Source) (Config, error)

func (f ModuleLoaderFunc) Load(filename string, b []byte, src *Source) (Config, error) {
	return f(filename, b, src)
}

// loadDeclarative reads toml, yaml and json config files.
func loadDeclarative(filename string, b []byte, _ *Source) (Config, error) {
	raw, order, err := decodeConfigFile(filename, b)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return configFromMap(raw, order)
}

type LoadOptions struct {
	// BypassCache rereads the config file even if it looks unchanged.
	BypassCache bool
}

type cachedFile struct {
	modTime time.Time
	size    int64
	data    []byte
}

// Loader finds and loads the config file of a folder with the strategy registered for its
// extension.
type Loader struct {
	mu      sync.Mutex
	loaders map[string]ModuleLoader
	cache   map[string]cachedFile
}

func NewLoader() *Loader {
	l := &Loader{
		loaders: make(map[string]ModuleLoader),
		cache:   make(map[string]cachedFile),
	}
	for _, ext := range []string{".toml", ".yaml", ".yml", ".json"} {
		l.Register(ext, ModuleLoaderFunc(loadDeclarative))
	}
	l.Register(".cue", CUELoader{})
	return l
}

func (l *Loader) Register(ext string, m ModuleLoader) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaders[strings.ToLower(ext)] = m
}

// Find returns the name of the first config file present in folder.
func (l *Loader) Find(folder Folder) (string, bool) {
	for _, name := range ConfigFiles {
		info, err := fs.Stat(folder.FS, name)
		if err == nil && info.Mode().IsRegular() {
			return name, true
		}
	}
	return "", false
}

// Load loads the Config of folder for src. It returns ErrNoConfig when the folder has none.
func (l *Loader) Load(folder Folder, src *Source, opts LoadOptions) (Config, error) {
	if folder.Config != nil {
		return folder.Config, nil
	}

	name, ok := l.Find(folder)
	if !ok {
		return nil, ErrNoConfig
	}

	l.mu.Lock()
	m, ok := l.loaders[strings.ToLower(path.Ext(name))]
	l.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no loader for %s", name)
	}

	b, err := l.read(folder, name, opts)
	if err != nil {
		return nil, err
	}

	return m.Load(folder.AssetPath(name), b, src)
}

func (l *Loader) read(folder Folder, name string, opts LoadOptions) ([]byte, error) {
	info, err := fs.Stat(folder.FS, name)
	if err != nil {
		return nil, err
	}
	key := folder.AssetPath(name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !opts.BypassCache {
		if c, ok := l.cache[key]; ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
			return c.data, nil
		}
	}

	b, err := fs.ReadFile(folder.FS, name)
	if err != nil {
		return nil, err
	}
	l.cache[key] = cachedFile{modTime: info.ModTime(), size: info.Size(), data: b}
	return b, nil
}
