package command

import (
	"context"
	"os"
	"testing"

	"github.com/olimci/dtpl/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var componentTemplate = map[string]string{
	".dtpl/dtpl.toml": `
[[templates]]
name = "component"
matches = ["src/*"]

[[templates.filter]]
match = "*.md"
exclude = true

[[templates.filter]]
match = "raw.txt.dtpl"
raw = true
`,
	".dtpl/component/index.ts.dtpl":      "export const ${ref.ModuleName} = '$fileName'\n",
	".dtpl/component/$rawModuleName.css": ".root {}\n",
	".dtpl/component/parts/part.ts.dtpl": "// ${ref.rawModuleName}\n",
	".dtpl/component/notes.md":           "skip me",
	".dtpl/component/raw.txt.dtpl":       "$keep",
}

func TestCreateDirectoriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, componentTemplate)
	require.NoError(t, os.MkdirAll(f.path("src/myButton"), 0o755))
	before := f.tree(t)

	c, err := NewCreateDirectories(f.env, []string{"src/myButton"})
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))

	assert.Equal(t, "export const MyButton = 'index'\n", f.read(t, "src/myButton/index.ts"))
	assert.Equal(t, ".root {}\n", f.read(t, "src/myButton/myButton.css"))
	assert.Equal(t, "// myButton\n", f.read(t, "src/myButton/parts/part.ts"))
	assert.Equal(t, "$keep", f.read(t, "src/myButton/raw.txt.dtpl"))
	assert.NoFileExists(t, f.path("src/myButton/notes.md"))

	require.NoError(t, f.cmd.Prev(ctx))
	assert.Equal(t, before, f.tree(t))
	assert.DirExists(t, f.path("src/myButton"))
}

func TestCreateDirectoriesMissingFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, componentTemplate)
	before := f.tree(t)

	c, err := NewCreateDirectories(f.env, []string{"src/card"})
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))
	assert.FileExists(t, f.path("src/card/index.ts"))

	require.NoError(t, f.cmd.Prev(ctx))
	assert.Equal(t, before, f.tree(t))
	assert.NoDirExists(t, f.path("src"))
}

func TestCreateDirectoriesUndoAsksAboutAddedFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, componentTemplate)

	c, err := NewCreateDirectories(f.env, []string{"src/card"})
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))
	writeFiles(t, f.root, map[string]string{"src/card/mine.ts": "mine"})

	f.ed.Answer(false)
	assert.ErrorIs(t, f.cmd.Prev(ctx), editor.ErrDeclined)
	assert.FileExists(t, f.path("src/card/mine.ts"))
	assert.FileExists(t, f.path("src/card/index.ts"))
}

func TestCreateDirectoriesSkipsPopulatedFolders(t *testing.T) {
	f := newFixture(t, componentTemplate)
	writeFiles(t, f.root, map[string]string{"src/full/a.ts": "a"})

	_, err := NewCreateDirectories(f.env, []string{"src/full"})
	assert.ErrorIs(t, err, ErrNothingToDo)

	_, err = NewCreateDirectories(f.env, []string{"lib/other"})
	assert.ErrorIs(t, err, ErrNothingToDo)
}

func TestCreateDirectoriesBuiltinFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	c, err := NewCreateDirectories(f.env, []string{".dtpl"})
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))

	assert.FileExists(t, f.path(".dtpl/dtpl.toml"))
	assert.FileExists(t, f.path(".dtpl/example.ts.dtpl"))
}
