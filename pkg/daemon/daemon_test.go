package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	mu    sync.Mutex
	calls []string
	news  []string
}

func (f *fakeAgent) record(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return call != "undo"
}

func (f *fakeAgent) CreateTemplateFiles(_ context.Context, files []string, open bool) bool {
	return f.record("files " + filepath.Join(files...))
}

func (f *fakeAgent) CreateRelatedFiles(_ context.Context, file string) bool {
	return f.record("related " + file)
}

func (f *fakeAgent) CreateDirectories(_ context.Context, folders []string) bool {
	return f.record("dirs " + filepath.Join(folders...))
}

func (f *fakeAgent) UndoOrRedo(context.Context) bool {
	return f.record("undo")
}

func (f *fakeAgent) EmitNewFile(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.news = append(f.news, path)
}

func (f *fakeAgent) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *fakeAgent) snapshot() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...), append([]string{}, f.news...)
}

func startServer(t *testing.T, cfg Config) (*fakeAgent, func() error) {
	t.Helper()

	agent := &fakeAgent{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(agent, cfg).Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(cfg.SocketFile)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	stop := sync.OnceValue(func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return errors.New("daemon did not stop")
		}
	})
	t.Cleanup(func() { assert.NoError(t, stop()) })
	return agent, stop
}

func send(t *testing.T, socket string, typ MessageType, data any) Reply {
	t.Helper()
	m, err := NewMessage(typ, data)
	require.NoError(t, err)
	reply, err := Send(context.Background(), socket, m)
	require.NoError(t, err)
	return reply
}

func TestServerDispatchesMessages(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "d.sock")
	agent, _ := startServer(t, Config{SocketFile: socket})

	assert.Equal(t, Reply{OK: true}, send(t, socket, CreateTemplateFiles, []string{"a.ts"}))
	assert.Equal(t, Reply{OK: true}, send(t, socket, CreateDirectories, []string{"src"}))
	assert.Equal(t, Reply{OK: true}, send(t, socket, CreateRelatedFiles, "a.ts"))
	assert.Equal(t, Reply{OK: false}, send(t, socket, UndoOrRedo, nil))

	calls, _ := agent.snapshot()
	assert.Equal(t, []string{"files a.ts", "dirs src", "related a.ts", "undo"}, calls)
}

func TestServerRejectsBadMessages(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "d.sock")
	startServer(t, Config{SocketFile: socket})

	reply, err := Send(context.Background(), socket, Message{Type: "explode"})
	require.NoError(t, err)
	assert.False(t, reply.OK)
	assert.Contains(t, reply.Error, "unknown message type")

	reply, err = Send(context.Background(), socket, Message{Type: CreateRelatedFiles, Data: []byte(`[1]`)})
	require.NoError(t, err)
	assert.Contains(t, reply.Error, "invalid createRelatedFiles data")

	_, err = NewMessage("explode", nil)
	assert.Error(t, err)
}

func TestServerIsSingleInstance(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "d.sock")
	startServer(t, Config{SocketFile: socket})

	err := NewServer(&fakeAgent{}, Config{SocketFile: socket}).Run(context.Background())
	assert.True(t, errors.Is(err, ErrRunning))
}

func TestServerStopsAndRemovesSocket(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "d.sock")
	_, stop := startServer(t, Config{SocketFile: socket})

	require.NoError(t, stop())
	assert.NoFileExists(t, socket)

	_, err := Send(context.Background(), socket, Message{Type: UndoOrRedo})
	assert.Error(t, err)
}

func TestServerForwardsCreatedPaths(t *testing.T) {
	root := t.TempDir()
	socket := filepath.Join(t.TempDir(), "d.sock")
	agent, _ := startServer(t, Config{SocketFile: socket, WatchRoot: root})

	// the watch starts asynchronously, so keep creating files until one is reported
	n := 0
	require.Eventually(t, func() bool {
		n++
		_ = os.WriteFile(filepath.Join(root, fmt.Sprintf("new%d.ts", n)), nil, 0o644)
		_, news := agent.snapshot()
		return len(news) > 0
	}, 5*time.Second, 20*time.Millisecond)

	_, news := agent.snapshot()
	assert.Equal(t, root, filepath.Dir(news[0]))
}
