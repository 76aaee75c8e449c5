package dtpl

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olimci/dtpl/pkg/config"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	debug, warnings, errors []string
}

func (r *recorder) Debug(msg string)            { r.debug = append(r.debug, msg) }
func (r *recorder) Warning(msg string)          { r.warnings = append(r.warnings, msg) }
func (r *recorder) Error(msg string, err error) { r.errors = append(r.errors, msg) }

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 9, 7, 0, 0, time.UTC) }

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func testEnv(root string) SourceEnv {
	return SourceEnv{Root: root, Settings: config.DefaultConfiguration(), Now: fixedNow}
}

func testResolver(rep Reporter) *Resolver {
	r := NewResolver(rep)
	r.Home = ""
	return r
}
