package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
)

// keyMap holds the main menu bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	Force     key.Binding
	Install   key.Binding
	Details   key.Binding
	Status    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "toggle"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a", "A"),
			key.WithHelp("a", "select all/none"),
		),
		Force: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "force reinstall"),
		),
		Install: key.NewBinding(
			key.WithKeys(keyEnter),
			key.WithHelp(keyEnter, "install"),
		),
		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		Status: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "status"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", keyEsc, keyCtrlC),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp lists the main menu footer bindings, most important first so
// the ones cut on a narrow terminal matter least.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Install, k.Up, k.Down, k.SelectAll, k.Force, k.Quit, k.Help, k.Details, k.Status}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.SelectAll},
		{k.Force, k.Install, k.Details, k.Status},
		{k.Help, k.Quit},
	}
}

// IsQuit returns true if the key message is a quit key (q or ctrl+c).
func IsQuit(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "q", keyCtrlC:
		return true
	}
	return false
}

// IsBack returns true if the key message is a back key (esc).
func IsBack(msg tea.KeyPressMsg) bool {
	return msg.String() == keyEsc
}

// isInterrupt reports whether msg is ctrl+c.
func isInterrupt(msg tea.KeyPressMsg) bool {
	return msg.String() == keyCtrlC
}
