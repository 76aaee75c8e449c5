package cmd

import (
	"context"
	"fmt"

	"github.com/olimci/dtpl/pkg/daemon"
	"github.com/olimci/dtpl/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	sessionFlags := []cli.Flag{
		&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Value: "", Usage: "project root (defaults to the working directory)"},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "", Usage: "settings file layered over the user settings"},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Value: false, Usage: "print debug messages"},
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Value: false, Usage: "answer yes to every confirmation"},
		&cli.BoolFlag{Name: "plain", Value: false, Usage: "disable colored output"},
	}
	socketFlag := &cli.StringFlag{Name: "socket", Aliases: []string{"s"}, Value: daemon.DefaultSocketFile(), Usage: "daemon socket file"}

	app := &cli.Command{
		Name:  "dtpl",
		Usage: "Scaffold files and folders from templates",
		// exit codes are handled by the caller
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "print version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("dtpl version %s\n", Version)
					return nil
				},
			},
			{
				Name:      "touch",
				Usage:     "Create new or empty files from their templates",
				ArgsUsage: "<file>...",
				Flags:     sessionFlags,
				Action:    runTouch,
			},
			{
				Name:      "mkdir",
				Usage:     "Create new or empty folders from their templates",
				ArgsUsage: "<folder>...",
				Flags:     sessionFlags,
				Action:    runMkdir,
			},
			{
				Name:      "related",
				Usage:     "Create the related files of a file",
				ArgsUsage: "<file>",
				Flags:     sessionFlags,
				Action:    runRelated,
			},
			{
				Name:  "watch",
				Usage: "Run the daemon that serves requests and keeps the undo history",
				Flags: append([]cli.Flag{
					socketFlag,
					&cli.BoolFlag{Name: "watch-root", Aliases: []string{"w"}, Value: false, Usage: "scaffold paths created below the root"},
				}, sessionFlags...),
				Action: runWatch,
			},
			{
				Name:      "send",
				Usage:     "Send a request to the daemon",
				ArgsUsage: "<createTemplateFiles|createDirectories|createRelatedFiles|undoOrRedo> [path]...",
				Flags:     []cli.Flag{socketFlag},
				Action:    runSend,
			},
			{
				Name:   "undo",
				Usage:  "Undo the daemon's last command, or redo it when it was undone",
				Flags:  []cli.Flag{socketFlag},
				Action: runUndo,
			},
		},
	}

	return app.Run(ctx, args)
}
