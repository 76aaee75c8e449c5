package command

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/editor"
	"github.com/olimci/dtpl/pkg/render"
	"github.com/olimci/dtpl/pkg/utils/fileutils"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 9, 7, 0, 0, time.UTC) }

type fixture struct {
	root    string
	ed      *editor.Recorder
	env     *Env
	cmd     *Commander
	changes []Change
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()

	root := t.TempDir()
	writeFiles(t, root, files)

	cfg := config.DefaultConfiguration()
	cfg.EOL = "\n"
	ed := editor.NewRecorder(root, cfg)

	resolver := dtpl.NewResolver(ed)
	resolver.Home = ""

	f := &fixture{root: root, ed: ed, cmd: NewCommander(cfg.HistorySize, time.Second)}
	f.env = &Env{
		Editor:   ed,
		Resolver: resolver,
		Renderer: render.New(cfg.Extensions),
		Now:      fixedNow,
		OnChange: func(c Change) { f.changes = append(f.changes, c) },
	}
	return f
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(f.path(rel))
	require.NoError(t, err)
	return string(b)
}

type tree struct {
	Files map[string]string
	Dirs  []string
}

func (f *fixture) tree(t *testing.T) tree {
	t.Helper()
	files, err := fileutils.Snapshot(f.root)
	require.NoError(t, err)
	_, dirs, err := fileutils.Walk(f.root)
	require.NoError(t, err)
	return tree{Files: files, Dirs: dirs.Values()}
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}
