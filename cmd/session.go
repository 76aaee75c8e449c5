package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olimci/dtpl/pkg/app"
	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/editor"
	"github.com/olimci/dtpl/pkg/events"
	"github.com/urfave/cli/v3"
)

// session is an Application bound to the terminal.
type session struct {
	root   string
	app    *app.Application
	events *events.Collector
}

func newSession(cmd *cli.Command) (*session, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.Bool("debug") {
		cfg.Debug = true
	}

	root := cmd.String("root")
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	style := outputRich
	if cmd.Bool("plain") {
		style = outputPlain
	}
	collector := events.NewCollector(newLogPrinter(style, os.Stderr))
	ed := editor.NewCLI(root, cfg, collector, os.Stdin, os.Stderr, cmd.Bool("yes"))

	return &session{
		root:   root,
		app:    app.New(ed),
		events: collector,
	}, nil
}

// result turns an operation outcome into the command's error.
func (s *session) result(action string, ok bool) error {
	if ok {
		return nil
	}
	if summary := s.events.Summary(); summary.ErrorCount > 0 {
		return cli.Exit(fmt.Sprintf("%s failed with %d error(s)", action, summary.ErrorCount), 1)
	}
	return cli.Exit("", 1)
}
