package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/olimci/dtpl/pkg/utils/fileutils"
	"github.com/olimci/dtpl/pkg/watcher"
	"golang.org/x/sync/errgroup"
)

var ErrRunning = errors.New("daemon already running")

const maxLine = 1 << 20

// Agent performs the requests. *app.Application implements it.
type Agent interface {
	CreateTemplateFiles(ctx context.Context, files []string, open bool) bool
	CreateRelatedFiles(ctx context.Context, file string) bool
	CreateDirectories(ctx context.Context, folders []string) bool
	UndoOrRedo(ctx context.Context) bool
	EmitNewFile(path string)
	Run(ctx context.Context) error
}

type Config struct {
	SocketFile string
	// WatchRoot, when set, reports paths created below it to the agent.
	WatchRoot string
	Ignore    []string
}

type Server struct {
	agent Agent
	cfg   Config
}

func NewServer(agent Agent, cfg Config) *Server {
	if cfg.SocketFile == "" {
		cfg.SocketFile = DefaultSocketFile()
	}
	if cfg.Ignore == nil {
		cfg.Ignore = watcher.DefaultIgnore
	}
	return &Server{agent: agent, cfg: cfg}
}

// Run serves until ctx is done. It fails with ErrRunning when another daemon holds the socket.
func (s *Server) Run(ctx context.Context) error {
	lock := flock.New(s.cfg.SocketFile + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%w on %s", ErrRunning, s.cfg.SocketFile)
	}
	defer lock.Unlock()

	if fileutils.Exists(s.cfg.SocketFile) {
		return fmt.Errorf("socket file %s already exists", s.cfg.SocketFile)
	}

	var w *watcher.Watcher
	if s.cfg.WatchRoot != "" {
		if w, err = watcher.New(s.cfg.WatchRoot, s.cfg.Ignore); err != nil {
			return err
		}
		defer w.Close()
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", s.cfg.SocketFile)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.SocketFile, err)
	}
	defer os.Remove(s.cfg.SocketFile)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.agent.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		return ln.Close()
	})

	g.Go(func() error {
		return s.accept(ctx, g, ln)
	})

	if w != nil {
		g.Go(func() error {
			if err := w.Start(ctx); err != nil {
				return err
			}
			root, _ := filepath.Abs(s.cfg.WatchRoot)
			log.Printf("watching: %s", root)
			s.forward(ctx, w)
			return nil
		})
	}

	log.Printf("dtpl daemon listening on %s", s.cfg.SocketFile)

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed) {
		err = nil
	}
	log.Printf("dtpl daemon stopped")
	return err
}

func (s *Server) accept(ctx context.Context, g *errgroup.Group, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		stop := context.AfterFunc(ctx, func() { conn.Close() })
		g.Go(func() error {
			defer stop()
			defer conn.Close()
			s.serve(ctx, conn)
			return nil
		})
	}
}

func (s *Server) serve(ctx context.Context, conn net.Conn) {
	log.Printf("new connection")
	defer log.Printf("connection closed")

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		var m Message
		reply := Reply{}
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			reply.Error = fmt.Sprintf("invalid message: %s", err.Error())
		} else {
			reply = s.Handle(ctx, m)
		}

		if err := enc.Encode(reply); err != nil {
			return
		}
	}
}

// Handle runs one message against the agent.
func (s *Server) Handle(ctx context.Context, m Message) Reply {
	log.Printf("receive command %s %s", m.Type, string(m.Data))

	var ok bool
	switch m.Type {
	case CreateTemplateFiles:
		var files []string
		if err := decodeData(m, &files); err != nil {
			return Reply{Error: err.Error()}
		}
		ok = s.agent.CreateTemplateFiles(ctx, files, false)
	case CreateDirectories:
		var folders []string
		if err := decodeData(m, &folders); err != nil {
			return Reply{Error: err.Error()}
		}
		ok = s.agent.CreateDirectories(ctx, folders)
	case CreateRelatedFiles:
		var file string
		if err := decodeData(m, &file); err != nil {
			return Reply{Error: err.Error()}
		}
		ok = s.agent.CreateRelatedFiles(ctx, file)
	case UndoOrRedo:
		ok = s.agent.UndoOrRedo(ctx)
	default:
		return Reply{Error: fmt.Sprintf("unknown message type %q", m.Type)}
	}
	return Reply{OK: ok}
}

func (s *Server) forward(ctx context.Context, w *watcher.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-w.Created:
			s.agent.EmitNewFile(p)
		case err := <-w.Errors:
			log.Printf("watch error: %v", err)
		}
	}
}

func decodeData(m Message, out any) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s needs data", m.Type)
	}
	if err := json.Unmarshal(m.Data, out); err != nil {
		return fmt.Errorf("invalid %s data: %w", m.Type, err)
	}
	return nil
}
