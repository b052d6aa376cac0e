package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/devtool-installer/internal/menu"
)

// itemList draws a batch one line per tool. It keeps no state of its own:
// every line is derived from the item's recorded outcome.
type itemList struct {
	batch   *menu.Batch
	spinner spinner.Model
	theme   *Theme
}

func newItemList(batch *menu.Batch, theme *Theme) *itemList {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.fg(theme.Primary)
	return &itemList{batch: batch, spinner: sp, theme: theme}
}

func (l *itemList) Init() tea.Cmd { return l.spinner.Tick }

func (l *itemList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders at most rows lines, scrolled to keep the running item in
// view. rows <= 0 shows the whole batch.
func (l *itemList) View(rows int) string {
	items := l.batch.Items
	start, end := 0, len(items)
	if rows > 0 && len(items) > rows {
		start = min(max(0, l.batch.Current()-rows/2), len(items)-rows)
		end = start + rows
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(l.theme.HelpDesc.Render(fmt.Sprintf("    ↑ %d more", start)) + "\n")
	}
	for _, it := range items[start:end] {
		b.WriteString(l.line(it))
		b.WriteString("\n")
	}
	if end < len(items) {
		b.WriteString(l.theme.HelpDesc.Render(fmt.Sprintf("    ↓ %d more", len(items)-end)) + "\n")
	}
	return b.String()
}

func (l *itemList) line(it *menu.Item) string {
	t := l.theme
	var icon, name string
	switch it.Outcome {
	case menu.Running:
		icon = l.spinner.View()
		name = t.fg(t.Primary).Bold(true).Render(it.Name())
	case menu.Succeeded:
		icon = t.Mark(true)
		name = it.Name()
	case menu.Failed:
		icon = t.Mark(false)
		name = t.fg(t.Error).Render(it.Name())
	case menu.Blocked, menu.Cancelled:
		icon = t.fg(t.Warning).Render("–")
		name = t.fg(t.Muted).Render(it.Name())
	default:
		icon = t.fg(t.Muted).Render("○")
		name = t.fg(t.Muted).Render(it.Name())
	}
	line := "  " + icon + " " + name
	if d := itemDetail(it); d != "" {
		line += "  " + t.HelpDesc.Render(d)
	}
	return line
}

// itemDetail is the short reason shown after a tool that did not succeed.
func itemDetail(it *menu.Item) string {
	switch it.Outcome {
	case menu.Failed:
		if it.Err != nil {
			return it.Err.Error()
		}
		return "failed"
	case menu.Blocked:
		return "needs " + strings.Join(it.Unmet, ", ")
	case menu.Cancelled:
		return "cancelled"
	}
	return ""
}
