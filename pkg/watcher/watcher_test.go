package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerGroupsPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDebouncer(50 * time.Millisecond)
	go d.Run(ctx)

	d.Add("a")
	d.Add("b")
	d.Add("a")

	select {
	case b := <-d.Batches():
		assert.Equal(t, []string{"a", "b"}, b.Paths)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch")
	}

	d.Add("c")
	select {
	case b := <-d.Batches():
		assert.Equal(t, []string{"c"}, b.Paths)
	case <-time.After(2 * time.Second):
		t.Fatal("no second batch")
	}
}

func TestWatcherReportsCreatedPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))

	w, err := New(root, DefaultIgnore)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "x.js"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "src"), 0o755))
	assert.Equal(t, filepath.Join(root, "src"), next(t, w))

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.ts"), nil, 0o644))
	assert.Equal(t, filepath.Join(root, "src", "a.ts"), next(t, w))
}

func TestWatcherRejectsBadPattern(t *testing.T) {
	_, err := New(t.TempDir(), []string{"[a"})
	assert.Error(t, err)
}

func next(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case p := <-w.Created:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
		return ""
	}
}
