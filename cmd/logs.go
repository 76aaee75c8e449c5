package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olimci/dtpl/pkg/events"
)

type outputStyle int

const (
	outputPlain outputStyle = iota
	outputRich
)

// logPrinter prints editor notifications, one per line.
type logPrinter struct {
	style outputStyle
	out   io.Writer
	mu    sync.Mutex

	levelStyles map[events.Level]lipgloss.Style
	errStyle    lipgloss.Style
}

func newLogPrinter(style outputStyle, out io.Writer) *logPrinter {
	p := &logPrinter{
		style: style,
		out:   out,
	}

	if style != outputRich {
		return p
	}

	colorEnabled := false
	if f, ok := out.(*os.File); ok {
		colorEnabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !colorEnabled {
		return p
	}

	p.levelStyles = map[events.Level]lipgloss.Style{
		events.Debug:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")), // muted
		events.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")), // blue
		events.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")), // yellow
		events.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")), // red
	}
	p.errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	return p
}

func (p *logPrinter) Handle(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := formatLogPlain(e)
	if p.style == outputRich && p.levelStyles != nil {
		if levelStyle, ok := p.levelStyles[e.Level]; ok {
			line = formatLogRich(e, levelStyle.Render(e.Level.String()), p.errStyle)
		}
	}

	fmt.Fprintln(p.out, line)
}

func formatLogPlain(e events.Event) string {
	var b strings.Builder

	b.WriteString(e.Level.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Error != nil && !strings.Contains(e.Message, e.Error.Error()) {
		b.WriteString(": ")
		b.WriteString(e.Error.Error())
	}

	return b.String()
}

func formatLogRich(e events.Event, levelToken string, errStyle lipgloss.Style) string {
	var b strings.Builder

	b.WriteString(levelToken)
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Error != nil && !strings.Contains(e.Message, e.Error.Error()) {
		b.WriteString(": ")
		b.WriteString(errStyle.Render(e.Error.Error()))
	}

	return b.String()
}
