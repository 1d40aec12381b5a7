package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a key press asks the event loop to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionNextScreen
	ActionUp
	ActionDown
	ActionKill
)

// KeyMap holds the dashboard bindings. Quit and NextScreen are universal;
// the rest only apply on navigable screens.
type KeyMap struct {
	Quit       key.Binding
	NextScreen key.Binding
	Up         key.Binding
	Down       key.Binding
	Kill       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextScreen: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next screen"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Kill: key.NewBinding(
			key.WithKeys("k", "K"),
			key.WithHelp("k", "kill"),
		),
	}
}

// Action resolves msg against the bindings active on screen s.
func (k KeyMap) Action(s Screen, msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.NextScreen):
		return ActionNextScreen
	}
	if !s.Navigable() {
		return ActionNone
	}
	switch {
	case key.Matches(msg, k.Up):
		return ActionUp
	case key.Matches(msg, k.Down):
		return ActionDown
	case key.Matches(msg, k.Kill):
		return ActionKill
	}
	return ActionNone
}

// Bindings are the bindings shown in the footer help for screen s.
func (k KeyMap) Bindings(s Screen) []key.Binding {
	if s.Navigable() {
		return []key.Binding{k.Up, k.Down, k.Kill, k.NextScreen, k.Quit}
	}
	return []key.Binding{k.NextScreen, k.Quit}
}
