package command

import (
	"context"
	"os"
	"testing"

	"github.com/olimci/dtpl/pkg/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var relatedTemplate = map[string]string{
	".dtpl/dtpl.toml": `
[[templates]]
name = "module.ts.dtpl"
matches = ["src/**/*.ts"]

[[templates.related]]
relativePath = "./styles/${rawModuleName}.css"
reference = "import './styles/${rawModuleName}.css'"
smartInsertStyle = true

[[templates.related]]
relativePath = "docs/${rawModuleName}.md"

[[templates]]
name = "style.css.dtpl"
matches = ["*.css"]
`,
	".dtpl/module.ts.dtpl": "export {}\n",
	".dtpl/style.css.dtpl": "/* ${ref.ModuleName} */\n",
	"src/app.ts":           "import a from 'a'\n\nconst x = a\n",
}

func TestCreateRelatedRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, relatedTemplate)
	before := f.tree(t)

	c, err := NewCreateRelated(f.env, "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{f.path("src/styles/app.css"), f.path("docs/app.md")}, c.Targets())

	require.NoError(t, f.cmd.Add(ctx, c))
	assert.Equal(t, "/* App */\n", f.read(t, "src/styles/app.css"))
	assert.Equal(t, "", f.read(t, "docs/app.md"))
	assert.Equal(t, "import a from 'a'\nimport './styles/app.css'\n\nconst x = a\n", f.read(t, "src/app.ts"))
	assert.True(t, f.ed.IsOpened(f.path("src/styles/app.css")))

	require.NoError(t, f.cmd.Prev(ctx))
	assert.Equal(t, before, f.tree(t))
	assert.Empty(t, f.ed.Prompts)
}

func TestCreateRelatedSkipsExisting(t *testing.T) {
	files := map[string]string{"src/styles/app.css": "", "docs/app.md": ""}
	for k, v := range relatedTemplate {
		files[k] = v
	}
	f := newFixture(t, files)

	_, err := NewCreateRelated(f.env, "src/app.ts")
	assert.ErrorIs(t, err, ErrNothingToDo)
}

func TestCreateRelatedNeedsTemplate(t *testing.T) {
	f := newFixture(t, map[string]string{"lib/app.ts": "x"})

	_, err := NewCreateRelated(f.env, "lib/app.ts")
	assert.ErrorIs(t, err, ErrNothingToDo)

	_, err = NewCreateRelated(f.env, "lib/missing.ts")
	assert.ErrorIs(t, err, ErrNothingToDo)
}

func TestCreateRelatedUndoAsksWhenOriginEdited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, relatedTemplate)

	c, err := NewCreateRelated(f.env, "src/app.ts")
	require.NoError(t, err)
	require.NoError(t, f.cmd.Add(ctx, c))
	require.NoError(t, os.WriteFile(f.path("src/app.ts"), []byte("rewritten\n"), 0o644))

	f.ed.Answer(false)
	assert.ErrorIs(t, f.cmd.Prev(ctx), editor.ErrDeclined)
	assert.FileExists(t, f.path("src/styles/app.css"))

	require.NoError(t, f.cmd.Prev(ctx))
	assert.Equal(t, "import a from 'a'\n\nconst x = a\n", f.read(t, "src/app.ts"))
	assert.NoFileExists(t, f.path("src/styles/app.css"))
}

func TestCreateRelatedSkipsTargetsOutsideRoot(t *testing.T) {
	f := newFixture(t, map[string]string{
		".dtpl/dtpl.toml": `
[[templates]]
name = "module.ts.dtpl"
matches = ["src/*.ts"]

[[templates.related]]
relativePath = "../../outside.css"

[[templates.related]]
relativePath = "./app.css"
`,
		".dtpl/module.ts.dtpl": "",
		"src/app.ts":           "run()\n",
	})

	c, err := NewCreateRelated(f.env, "src/app.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{f.path("src/app.css")}, c.Targets())
	require.Len(t, f.ed.Warnings(), 1)
	assert.Contains(t, f.ed.Warnings()[0], "outside the project")
}
