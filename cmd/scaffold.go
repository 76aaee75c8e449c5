package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

func runTouch(ctx context.Context, cmd *cli.Command) error {
	files, err := absPaths(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("touch needs at least one file")
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.result("touch", s.app.CreateTemplateFiles(ctx, files, false))
}

func runMkdir(ctx context.Context, cmd *cli.Command) error {
	folders, err := absPaths(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		return fmt.Errorf("mkdir needs at least one folder")
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.result("mkdir", s.app.CreateDirectories(ctx, folders))
}

func runRelated(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("related needs exactly one file")
	}
	file, err := filepath.Abs(cmd.Args().First())
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.result("related", s.app.CreateRelatedFiles(ctx, file))
}
