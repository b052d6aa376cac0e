// Package tui is the Bubble Tea front end of devtool-installer: the
// categorized checklist, the install screen, and the help and detail views.
// All selection state lives in a menu.Menu; views only render it and feed it
// key actions.
package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/lipgloss/v2"

	"github.com/lamchakchan/devtool-installer/internal/menu"
)

// accessible reports whether the session asked for plain output: NO_COLOR
// (https://no-color.org) or ACCESSIBLE=1 for screen readers.
func accessible(getenv func(string) string) bool {
	return getenv("NO_COLOR") != "" || getenv("ACCESSIBLE") == "1"
}

// Theme holds the colors and styles shared by every view.
type Theme struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Warning   color.Color
	Error     color.Color
	Muted     color.Color

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Category lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
	Banner   lipgloss.Style

	// Plain is set for screen reader sessions. The app then stays in the
	// normal buffer, which readers follow better than the alternate screen.
	Plain bool
}

// DefaultTheme returns the violet and cyan installer palette.
func DefaultTheme() Theme {
	return newTheme(
		lipgloss.Color("#7C3AED"), // violet
		lipgloss.Color("#06B6D4"), // cyan
		lipgloss.Color("#F59E0B"), // amber
		lipgloss.Color("#10B981"), // emerald
		lipgloss.Color("#EF4444"), // red
		lipgloss.Color("#6B7280"), // gray
	)
}

// PlainTheme renders without color. Markers and borders stay so the
// checklist reads the same.
func PlainTheme() Theme {
	none := lipgloss.NoColor{}
	t := newTheme(none, none, none, none, none, none)
	t.Plain = true
	return t
}

func newTheme(primary, secondary, amber, green, red, gray color.Color) Theme {
	return Theme{
		Primary:   primary,
		Secondary: secondary,
		Accent:    amber,
		Success:   green,
		Warning:   amber,
		Error:     red,
		Muted:     gray,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle: lipgloss.NewStyle().Foreground(gray),
		Category: lipgloss.NewStyle().Bold(true).Foreground(secondary),
		HelpKey:  lipgloss.NewStyle().Bold(true).Foreground(gray),
		HelpDesc: lipgloss.NewStyle().Foreground(gray),
		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 2),
	}
}

func (t *Theme) fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Heading renders a screen title under a horizontal rule.
//
//	────────────────────────────────────────
//	  ▶ Installing 3 tools
func (t *Theme) Heading(title string) string {
	style := t.fg(t.Secondary)
	return fmt.Sprintf("\n%s\n  %s\n", style.Render(strings.Repeat("─", 40)), style.Bold(true).Render("▶ "+title))
}

// Subheading renders "  --- title ---".
func (t *Theme) Subheading(title string) string {
	return t.fg(t.Muted).Render("  --- "+title+" ---") + "\n"
}

// Alert boxes msg in red. Used for blocked dependencies and recovered panics.
func (t *Theme) Alert(msg string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Error).
		Padding(0, 2).
		Render(t.fg(t.Error).Bold(true).Render("✗ " + msg))
}

// Mark renders ✓ for an installed tool and ✗ otherwise.
func (t *Theme) Mark(installed bool) string {
	if installed {
		return t.fg(t.Success).Bold(true).Render("✓")
	}
	return t.fg(t.Error).Bold(true).Render("✗")
}

// Tally renders the summary badge for a counted outcome.
func (t *Theme) Tally(o menu.Outcome) string {
	switch o {
	case menu.Succeeded:
		return t.fg(t.Success).Bold(true).Render("[OK]")
	case menu.Failed:
		return t.fg(t.Error).Bold(true).Render("[FAIL]")
	default:
		return t.fg(t.Warning).Bold(true).Render("[WARN]")
	}
}

// hint renders one "key desc" pair the way footers show them.
func (t *Theme) hint(key, desc string) string {
	return t.HelpKey.Render(key) + " " + t.HelpDesc.Render(desc)
}

// footer returns a one-line key legend that drops trailing bindings with
// an ellipsis when width is too narrow. A width of 0 never truncates.
func (t *Theme) footer(width int) help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = t.HelpKey
	h.Styles.ShortDesc = t.HelpDesc
	h.Styles.ShortSeparator = t.HelpDesc
	h.Styles.Ellipsis = t.HelpDesc
	h.SetWidth(width)
	return h
}
