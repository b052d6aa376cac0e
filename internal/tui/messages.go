package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/devtool-installer/internal/registry"
)

// PopViewMsg is sent when a view wants to pop itself from the navigation stack.
type PopViewMsg struct{}

// PushViewMsg is sent when a view wants to push a new view onto the navigation stack.
type PushViewMsg struct {
	Model tea.Model
}

// entriesMsg carries a freshly loaded tool list to the main menu.
type entriesMsg struct {
	entries []*registry.Entry
}

// restartMsg asks the app to exit and run the restart command.
type restartMsg struct{}

func pushView(model tea.Model) tea.Cmd {
	return func() tea.Msg {
		return PushViewMsg{Model: model}
	}
}

func popView() tea.Msg { return PopViewMsg{} }
