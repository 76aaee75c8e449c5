package dtpl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateDirs(t *testing.T) {
	p := filepath.FromSlash("/home/me/project/src/a.ts")

	tests := []struct {
		name string
		home string
		want []string
	}{
		{
			name: "home already an ancestor",
			home: filepath.FromSlash("/home/me"),
			want: []string{
				filepath.FromSlash("/home/me/project/src/a.ts"),
				filepath.FromSlash("/home/me/project/src"),
				filepath.FromSlash("/home/me/project"),
				filepath.FromSlash("/home/me"),
				filepath.FromSlash("/home"),
				filepath.FromSlash("/"),
			},
		},
		{
			name: "home appended once",
			home: filepath.FromSlash("/users/other"),
			want: []string{
				filepath.FromSlash("/home/me/project/src/a.ts"),
				filepath.FromSlash("/home/me/project/src"),
				filepath.FromSlash("/home/me/project"),
				filepath.FromSlash("/home/me"),
				filepath.FromSlash("/home"),
				filepath.FromSlash("/"),
				filepath.FromSlash("/users/other"),
			},
		},
		{
			name: "no home",
			home: "",
			want: []string{
				filepath.FromSlash("/home/me/project/src/a.ts"),
				filepath.FromSlash("/home/me/project/src"),
				filepath.FromSlash("/home/me/project"),
				filepath.FromSlash("/home/me"),
				filepath.FromSlash("/home"),
				filepath.FromSlash("/"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CandidateDirs(p, tt.home))
		})
	}
}

func TestConfigFoldersEndWithBuiltin(t *testing.T) {
	builtin := BuiltinFolder()
	p := filepath.FromSlash("/work/app/.dtpl")

	all := ConfigFolders(p, "", ".dtpl", false, builtin)
	assert.Equal(t, filepath.FromSlash("/work/app/.dtpl/.dtpl"), all[0].Dir)
	assert.True(t, all[len(all)-1].Builtin)

	self := ConfigFolders(p, "", ".dtpl", true, builtin)
	assert.Equal(t, filepath.FromSlash("/work/.dtpl"), self[0].Dir)
	assert.Len(t, self, len(all)-2)
	for _, f := range self {
		assert.NotEqual(t, filepath.FromSlash("/work/app/.dtpl/.dtpl"), f.Dir)
		assert.NotEqual(t, filepath.FromSlash("/work/app/.dtpl"), f.Dir)
	}
	assert.True(t, self[len(self)-1].Builtin)
}

func TestWithin(t *testing.T) {
	assert.True(t, within(filepath.FromSlash("/a"), filepath.FromSlash("/a")))
	assert.True(t, within(filepath.FromSlash("/a"), filepath.FromSlash("/a/b")))
	assert.False(t, within(filepath.FromSlash("/a"), filepath.FromSlash("/ab")))
	assert.False(t, within(filepath.FromSlash("/a/b"), filepath.FromSlash("/a")))
}
