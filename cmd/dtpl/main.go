package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/olimci/dtpl/cmd"
	"github.com/urfave/cli/v3"
)

func main() {
	err := cmd.Execute(context.Background(), os.Args)
	if err == nil {
		return
	}

	if msg := err.Error(); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		os.Exit(exit.ExitCode())
	}
	os.Exit(1)
}
