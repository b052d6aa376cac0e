package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// answerMsg carries the user's choice out of a confirmModel.
type answerMsg struct {
	yes bool
}

type confirmKeys struct {
	Yes    key.Binding
	No     key.Binding
	Switch key.Binding
	Accept key.Binding
}

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Accept, k.Yes, k.No}
}

func (k confirmKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultConfirmKeys() confirmKeys {
	return confirmKeys{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", keyEsc),
			key.WithHelp("n/esc", "no"),
		),
		Switch: key.NewBinding(
			key.WithKeys("left", "right", "h", "l", "tab"),
			key.WithHelp("←/→", "switch"),
		),
		Accept: key.NewBinding(
			key.WithKeys(keyEnter),
			key.WithHelp(keyEnter, "choose"),
		),
	}
}

// confirmModel is a yes/no question embedded in another view. It answers
// once with an answerMsg. ctrl+c is left to the owning view so it can quit.
type confirmModel struct {
	question string
	detail   string
	yes      bool
	answered bool
	keys     confirmKeys
	theme    *Theme
}

func newConfirm(question, detail string, defaultYes bool, theme *Theme) *confirmModel {
	return &confirmModel{
		question: question,
		detail:   detail,
		yes:      defaultYes,
		keys:     defaultConfirmKeys(),
		theme:    theme,
	}
}

func (m *confirmModel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if m.answered {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.yes = true
	case key.Matches(msg, m.keys.No):
		m.yes = false
	case key.Matches(msg, m.keys.Accept):
	case key.Matches(msg, m.keys.Switch):
		m.yes = !m.yes
		return nil
	default:
		return nil
	}
	m.answered = true
	yes := m.yes
	return func() tea.Msg { return answerMsg{yes: yes} }
}

func (m *confirmModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.question))
	b.WriteString("\n\n")
	if m.detail != "" {
		b.WriteString(m.detail)
		b.WriteString("\n\n")
	}

	button := func(label string, chosen bool) string {
		c := m.theme.Muted
		if chosen {
			c = m.theme.Primary
		}
		return lipgloss.NewStyle().
			Bold(chosen).
			Foreground(c).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1).
			Render(label)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, button("Yes", m.yes), "  ", button("No", !m.yes)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.footer(0).View(m.keys))
	return b.String()
}
