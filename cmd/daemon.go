package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/olimci/dtpl/pkg/daemon"
	"github.com/urfave/cli/v3"
)

func runWatch(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := daemon.Config{SocketFile: cmd.String("socket")}
	if cmd.Bool("watch-root") {
		cfg.WatchRoot = s.root
	}
	return daemon.NewServer(s.app, cfg).Run(ctx)
}

func runSend(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("send needs a message type")
	}
	typ := daemon.MessageType(cmd.Args().First())
	args, err := absPaths(cmd.Args().Tail())
	if err != nil {
		return err
	}

	var data any
	switch typ {
	case daemon.CreateTemplateFiles, daemon.CreateDirectories:
		if len(args) == 0 {
			return fmt.Errorf("%s needs at least one path", typ)
		}
		data = args
	case daemon.CreateRelatedFiles:
		if len(args) != 1 {
			return fmt.Errorf("%s needs exactly one path", typ)
		}
		data = args[0]
	}

	return send(ctx, cmd.String("socket"), typ, data)
}

func runUndo(ctx context.Context, cmd *cli.Command) error {
	return send(ctx, cmd.String("socket"), daemon.UndoOrRedo, nil)
}

func send(ctx context.Context, socket string, typ daemon.MessageType, data any) error {
	m, err := daemon.NewMessage(typ, data)
	if err != nil {
		return err
	}
	reply, err := daemon.Send(ctx, socket, m)
	if err != nil {
		return err
	}
	if reply.Error != "" {
		return cli.Exit(reply.Error, 1)
	}
	if !reply.OK {
		return cli.Exit(fmt.Sprintf("%s did not complete, see the daemon output", typ), 1)
	}
	return nil
}

// absPaths resolves paths against the working directory, which may differ from the daemon's.
func absPaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}
