package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olimci/dtpl/pkg/command"
	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/dtpl"
	"github.com/olimci/dtpl/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 9, 7, 0, 0, time.UTC) }

var projectFiles = map[string]string{
	".dtpl/dtpl.toml": `
[[templates]]
name = "upper.dtpl"
matches = ["upper*"]

[[templates]]
name = "component"
matches = ["src/*"]
`,
	".dtpl/upper.dtpl":              "$MODULE_NAME",
	".dtpl/component/index.ts.dtpl": "export default '${ref.rawModuleName}'\n",
}

func newApp(t *testing.T, opts ...Option) (*Application, *editor.Recorder, string) {
	t.Helper()

	root := t.TempDir()
	for name, content := range projectFiles {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	cfg := config.DefaultConfiguration()
	cfg.EOL = "\n"
	cfg.Debounce = 20 * time.Millisecond
	ed := editor.NewRecorder(root, cfg)

	resolver := dtpl.NewResolver(ed)
	resolver.Home = ""
	opts = append([]Option{WithResolver(resolver), WithClock(fixedNow)}, opts...)
	return New(ed, opts...), ed, root
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCreateTemplateFilesAndUndo(t *testing.T) {
	ctx := context.Background()
	a, ed, root := newApp(t)

	var changes []command.Change
	a.OnFileEvent(func(c command.Change) { changes = append(changes, c) })

	require.True(t, a.CreateTemplateFiles(ctx, []string{"upperThing.ts"}, true))
	assert.Equal(t, "UPPERTHING", read(t, filepath.Join(root, "upperThing.ts")))
	assert.Len(t, a.History(), 1)
	assert.Len(t, changes, 1)

	require.True(t, a.UndoOrRedo(ctx))
	assert.NoFileExists(t, filepath.Join(root, "upperThing.ts"))

	require.True(t, a.UndoOrRedo(ctx))
	assert.FileExists(t, filepath.Join(root, "upperThing.ts"))
	assert.Empty(t, ed.Errors())
}

func TestEntryPointsReportInsteadOfFailing(t *testing.T) {
	ctx := context.Background()
	a, ed, root := newApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "full.ts"), []byte("x"), 0o644))

	assert.False(t, a.CreateTemplateFiles(ctx, []string{"full.ts"}, false))
	assert.False(t, a.CreateRelatedFiles(ctx, "full.ts"))
	assert.False(t, a.UndoOrRedo(ctx))

	assert.Len(t, ed.Warnings(), 2)
	assert.Contains(t, ed.Infos(), command.ErrNoHistory.Error())
	assert.Empty(t, ed.Errors())
}

func TestDeclinedUndoIsReported(t *testing.T) {
	ctx := context.Background()
	a, ed, root := newApp(t)
	require.True(t, a.CreateTemplateFiles(ctx, []string{"upperThing.ts"}, false))
	require.NoError(t, os.WriteFile(filepath.Join(root, "upperThing.ts"), []byte("mine"), 0o644))

	ed.Answer(false)
	assert.False(t, a.UndoOrRedo(ctx))
	assert.Equal(t, "mine", read(t, filepath.Join(root, "upperThing.ts")))
	require.NotEmpty(t, ed.Infos())
	assert.Contains(t, ed.Infos()[len(ed.Infos())-1], "cancelled")
}

func TestNewPathsAreScaffolded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, ed, root := newApp(t, WithGrace(time.Nanosecond))
	go a.Run(ctx)

	dir := filepath.Join(root, "src", "card")
	file := filepath.Join(root, "upperNew.ts")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	a.EmitNewFile(dir)
	a.EmitNewFile(file)

	require.Eventually(t, func() bool {
		b, err := os.ReadFile(file)
		return err == nil && string(b) == "UPPERNEW" && ed.IsOpened(file)
	}, 5*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		b, err := os.ReadFile(filepath.Join(dir, "index.ts"))
		return err == nil && string(b) == "export default 'card'\n"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPathsWrittenByCommandsAreIgnored(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, _, root := newApp(t, WithGrace(time.Hour))
	go a.Run(ctx)

	require.True(t, a.CreateTemplateFiles(ctx, []string{"upperOne.ts"}, false))

	blank := filepath.Join(root, "upperTwo.ts")
	require.NoError(t, os.WriteFile(blank, nil, 0o644))
	a.EmitNewFile(blank)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, "", read(t, blank))
	assert.Len(t, a.History(), 1)
}

func TestConfigFolderHint(t *testing.T) {
	a, ed, _ := newApp(t)

	require.True(t, a.CreateDirectories(context.Background(), []string{"pkg/.dtpl"}))
	require.NotEmpty(t, ed.Infos())
	assert.Contains(t, ed.Infos()[len(ed.Infos())-1], "configuration folder")
}
