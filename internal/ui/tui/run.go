package tui

import (
	"context"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run shows the session in the terminal until the user quits or ctx ends.
func Run(ctx context.Context, session Session, c *Controller, in io.Reader, out io.Writer, opts Options) error {
	m := NewModel(ctx, session, c.Events(), opts)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	c.Close()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// ShouldUseColor reports whether w is a terminal that accepts styling.
func ShouldUseColor(w io.Writer) bool {
	if w == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
