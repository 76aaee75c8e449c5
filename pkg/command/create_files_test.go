package command

import (
	"context"
	"os"
	"testing"

	"github.com/olimci/dtpl/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upperTemplate = map[string]string{
	".dtpl/dtpl.toml": `
[[templates]]
name = "upper.dtpl"
matches = ["upper*"]
`,
	".dtpl/upper.dtpl": "$MODULE_NAME",
}

func TestCreateFilesRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, upperTemplate)
	before := f.tree(t)

	c, err := NewCreateFiles(f.env, []string{"src/deep/upperThing.ts"}, true)
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))

	assert.Equal(t, "UPPERTHING", f.read(t, "src/deep/upperThing.ts"))
	assert.True(t, f.ed.IsOpened(f.path("src/deep/upperThing.ts")))
	assert.Equal(t, []Change{{Kind: Created, Path: f.path("src/deep/upperThing.ts")}}, f.changes)

	require.NoError(t, f.cmd.Prev(ctx))
	assert.Equal(t, before, f.tree(t))
	assert.False(t, f.ed.IsOpened(f.path("src/deep/upperThing.ts")))

	require.NoError(t, f.cmd.Next(ctx))
	assert.Equal(t, "UPPERTHING", f.read(t, "src/deep/upperThing.ts"))
}

func TestCreateFilesFillsBlankFiles(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{"upperBlank.ts": "  \n", "upperFull.ts": "keep"}
	for k, v := range upperTemplate {
		files[k] = v
	}
	f := newFixture(t, files)

	c, err := NewCreateFiles(f.env, []string{"upperBlank.ts", "upperFull.ts", "upperBlank.ts"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{f.path("upperBlank.ts")}, c.Files())

	require.NoError(t, f.cmd.Add(ctx, c))
	assert.Equal(t, "UPPERBLANK", f.read(t, "upperBlank.ts"))

	require.NoError(t, f.cmd.Prev(ctx))
	assert.Equal(t, "  \n", f.read(t, "upperBlank.ts"))
	assert.Equal(t, "keep", f.read(t, "upperFull.ts"))
}

func TestCreateFilesWithoutTemplateCreatesEmptyFile(t *testing.T) {
	f := newFixture(t, nil)

	c, err := NewCreateFiles(f.env, []string{"plain.txt"}, false)
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(context.Background(), c))
	assert.Equal(t, "", f.read(t, "plain.txt"))
}

func TestCreateFilesNothingToDo(t *testing.T) {
	f := newFixture(t, map[string]string{"full.ts": "x"})

	_, err := NewCreateFiles(f.env, []string{"full.ts", "../outside.ts"}, false)
	assert.ErrorIs(t, err, ErrNothingToDo)
}

func TestCreateFilesUndoAsksBeforeDiscardingEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, upperTemplate)

	c, err := NewCreateFiles(f.env, []string{"upperThing.ts"}, false)
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))
	require.NoError(t, os.WriteFile(f.path("upperThing.ts"), []byte("edited"), 0o644))

	f.ed.Answer(false)
	assert.ErrorIs(t, f.cmd.Prev(ctx), editor.ErrDeclined)
	assert.Equal(t, "edited", f.read(t, "upperThing.ts"))
	assert.Equal(t, Executed, c.Status())
	require.Len(t, f.ed.Prompts, 1)
	assert.Contains(t, f.ed.Prompts[0], "upperThing.ts")

	f.ed.Answer(true)
	require.NoError(t, f.cmd.Prev(ctx))
	assert.NoFileExists(t, f.path("upperThing.ts"))
}
