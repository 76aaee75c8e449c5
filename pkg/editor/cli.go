package editor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/olimci/dtpl/pkg/config"
	"github.com/olimci/dtpl/pkg/events"
)

// NewCLI builds the terminal Editor. Prompts are interactive when in is a terminal; otherwise
// they are answered with assumeYes and a note is written to out.
func NewCLI(root string, cfg *config.Configuration, handler events.Handler, in *os.File, out io.Writer, assumeYes bool) *Base {
	interactive := in != nil && (isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()))

	confirm := func(ctx context.Context, message string) (bool, error) {
		if assumeYes || !interactive {
			fmt.Fprintf(out, "%s [assuming %s]\n", message, yesNo(assumeYes))
			return assumeYes, nil
		}

		ok := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(message).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return false, err
		}
		return ok, nil
	}

	return NewBase(root, cfg, WithHandler(handler), WithConfirm(confirm))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
