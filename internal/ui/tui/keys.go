package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Answer key.Binding
	Next   key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Answer: key.NewBinding(
			key.WithKeys("a", "b", "c", "d", "A", "B", "C", "D", "1", "2", "3", "4"),
			key.WithHelp("a-d", "answer"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "next"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset stats"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
