package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
)

// helpRow is one line of the shortcut reference.
type helpRow struct{ keys, desc string }

func bindingRows(bindings ...key.Binding) []helpRow {
	rows := make([]helpRow, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, helpRow{h.Key, h.Desc})
	}
	return rows
}

// helpText renders the shortcut reference. Rows for the tool list, pagers
// and the restart prompt come from their key maps.
func helpText(theme *Theme) string {
	menuKeys := defaultKeyMap()
	var menuRows []helpRow
	for _, col := range menuKeys.FullHelp() {
		menuRows = append(menuRows, bindingRows(col...)...)
	}
	menuRows = append(menuRows, helpRow{"", "up and down wrap around the list"})

	pk := defaultPagerKeys()
	ck := defaultConfirmKeys()
	sections := []struct {
		title string
		rows  []helpRow
	}{
		{"Tool list", menuRows},
		{"Markers", []helpRow{
			{"[*] [~] [ ]", "category fully, partly or not selected"},
			{"+ / -", "installed / not installed"},
			{"~", "always runs when selected"},
		}},
		{"During install", []helpRow{
			{keyEsc, "cancel after the current tool"},
			{"any key", "skip past a blocked tool"},
			{keyCtrlC, "cancel and quit, from any install screen"},
		}},
		{"Details, status and help", bindingRows(pk.Scroll, pk.Page, pk.Top, pk.Bottom, pk.Close)},
		{"Restart prompt", bindingRows(ck.Yes, ck.No, ck.Switch, ck.Accept)},
	}

	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Width(16)
	var b strings.Builder
	for _, s := range sections {
		b.WriteString(theme.Category.Render(s.title))
		b.WriteString("\n")
		for _, r := range s.rows {
			b.WriteString("  " + keyStyle.Render(r.keys) + theme.HelpDesc.Render(r.desc) + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// newHelp shows the shortcut reference in a pager, so it scrolls on short
// terminals. ? closes it as well as the usual pager keys.
func newHelp(theme *Theme) *pagerView {
	p := newPager("Keyboard Shortcuts", helpText(theme), theme)
	p.keys.Close = key.NewBinding(
		key.WithKeys(keyEsc, "q", "?", keyCtrlC),
		key.WithHelp("esc/?", "close"),
	)
	return p
}
