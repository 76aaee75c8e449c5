package dtpl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDescribesPath(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/my-widget.ts": "content",
		"package.json":     `{"name": "demo", "version": "1.2.3"}`,
		"go.mod":           "module example.com/demo\n\ngo 1.22\n",
	})

	src := NewSource(filepath.Join(root, "src", "my-widget.ts"), testEnv(root))
	assert.True(t, src.Exists)
	assert.True(t, src.IsFile)
	assert.False(t, src.IsDirectory)
	assert.Equal(t, "content", src.Content)
	assert.Equal(t, "src/my-widget.ts", src.RelativePath)
	assert.Equal(t, ".dtpl", src.FolderName)

	d := src.BasicData()
	assert.Equal(t, "2024-03-05", d["date"])
	assert.Equal(t, "09:07", d["time"])
	assert.Equal(t, "2024-03-05 09:07", d["datetime"])
	assert.Equal(t, "my-widget", d["fileName"])
	assert.Equal(t, ".ts", d["fileExt"])
	assert.Equal(t, "src", d["dirName"])
	assert.Equal(t, "myWidget", d["moduleName"])
	assert.Equal(t, "MyWidget", d["ModuleName"])
	assert.Equal(t, "MY_WIDGET", d["MODULE_NAME"])
	assert.Equal(t, "my_widget", d["module_name"])
	assert.Equal(t, "example.com/demo", d["goModule"])
	assert.Equal(t, filepath.Join(root, "node_modules"), d["npmPath"])
	assert.Equal(t, map[string]any{"name": "demo", "version": "1.2.3"}, d["pkg"])

	d["fileName"] = "mutated"
	assert.Equal(t, "my-widget", src.BasicData()["fileName"])
}

func TestSourceMissingPath(t *testing.T) {
	root := t.TempDir()
	src := NewSource(filepath.Join(root, "nope.txt"), testEnv(root))

	assert.False(t, src.Exists)
	assert.Equal(t, "", src.Content)
	assert.Equal(t, map[string]any{}, src.BasicData()["pkg"])
	assert.Equal(t, "", src.BasicData()["goModule"])
}

func TestMergePrecedence(t *testing.T) {
	basic := Data{"k": "basic", "b": 1}
	global := Data{"k": "global", "g": 2}
	local := Data{"k": "local", "l": 3}

	got := Merge(basic, global, local)
	assert.Equal(t, Data{"k": "local", "b": 1, "g": 2, "l": 3}, got)

	withRef := WithRef(got, Data{"k": "origin"})
	assert.Equal(t, Data{"k": "origin"}, withRef["ref"])
	assert.NotContains(t, got, "ref")
}
