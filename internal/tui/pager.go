package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	scrollbarWidth = 2 // gap + track
	pagerChrome    = 6 // heading (3) + blank + footer (2)
)

// renderScrollbar draws a one-column track, trackHeight rows tall, with a
// thumb sized to visible/total. It is empty when everything fits.
func renderScrollbar(trackHeight, total, visible int, percent float64, theme *Theme) string {
	if total <= visible || trackHeight < 1 {
		return ""
	}
	thumb := max(1, trackHeight*visible/total)
	top := min(max(0, int(percent*float64(trackHeight-thumb))), trackHeight-thumb)

	track := theme.fg(theme.Muted).Render("│")
	bar := theme.fg(theme.Secondary).Render("┃")
	rows := make([]string, trackHeight)
	for i := range rows {
		rows[i] = track
		if i >= top && i < top+thumb {
			rows[i] = bar
		}
	}
	return strings.Join(rows, "\n")
}

// pageLoadedMsg delivers the text of a lazily loaded pager.
type pageLoadedMsg struct {
	text string
	err  error
}

type pagerKeys struct {
	Scroll key.Binding
	Page   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Close  key.Binding
}

func (k pagerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Page, k.Top, k.Bottom, k.Close}
}

func (k pagerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultPagerKeys() pagerKeys {
	return pagerKeys{
		// Scroll and Page document what the viewport already handles.
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "k", "j"),
			key.WithHelp("j/k", "scroll"),
		),
		Page: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "page"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Close: key.NewBinding(
			key.WithKeys(keyEsc, "q", keyCtrlC),
			key.WithHelp("esc", "back"),
		),
	}
}

// pagerView shows read-only text: tool details and the status report. Text
// that takes a process run to produce is loaded off the UI goroutine.
type pagerView struct {
	title  string
	load   func() (string, error) // non-nil until the text arrives
	err    error
	vp     viewport.Model
	keys   pagerKeys
	theme  *Theme
	width  int
	height int
}

func newPager(title, text string, theme *Theme) *pagerView {
	p := &pagerView{
		title: title,
		vp:    viewport.New(viewport.WithWidth(78), viewport.WithHeight(18)),
		keys:  defaultPagerKeys(),
		theme: theme,
	}
	p.vp.SoftWrap = true
	p.vp.SetContent(text)
	return p
}

func newLazyPager(title string, load func() (string, error), theme *Theme) *pagerView {
	p := newPager(title, "", theme)
	p.load = load
	return p
}

func (p *pagerView) loading() bool { return p.load != nil }

func (p *pagerView) Init() tea.Cmd {
	if p.load == nil {
		return nil
	}
	load := p.load
	return func() tea.Msg {
		text, err := load()
		return pageLoadedMsg{text: text, err: err}
	}
}

func (p *pagerView) resize(width, height int) {
	p.width, p.height = width, height
	p.vp.SetWidth(max(1, width-scrollbarWidth))
	p.vp.SetHeight(max(1, height-pagerChrome))
}

func (p *pagerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.resize(msg.Width, msg.Height)
		return p, nil

	case pageLoadedMsg:
		p.load = nil
		p.err = msg.err
		p.vp.SetContent(msg.text)
		p.vp.GotoTop()
		return p, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, p.keys.Close):
			return p, popView
		case key.Matches(msg, p.keys.Top):
			p.vp.GotoTop()
			return p, nil
		case key.Matches(msg, p.keys.Bottom):
			p.vp.GotoBottom()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

func (p *pagerView) View() tea.View {
	var b strings.Builder
	b.WriteString(p.theme.Heading(p.title))
	b.WriteString("\n")

	switch {
	case p.loading():
		b.WriteString("  Loading...\n")
		return tea.NewView(b.String())
	case p.err != nil:
		b.WriteString("  " + p.theme.fg(p.theme.Error).Render(p.err.Error()) + "\n\n")
		b.WriteString(p.theme.hint(keyEsc, "back"))
		return tea.NewView(b.String())
	}

	body := p.vp.View()
	h := p.vp.Height()
	if bar := renderScrollbar(h, p.vp.TotalLineCount(), h, p.vp.ScrollPercent(), p.theme); bar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", bar)
	}
	b.WriteString(body)
	b.WriteString("\n")

	pct := fmt.Sprintf("  %3.f%%", p.vp.ScrollPercent()*100)
	b.WriteString(p.theme.footer(max(0, p.width-len(pct))).View(p.keys))
	b.WriteString(p.theme.HelpDesc.Render(pct))
	return tea.NewView(b.String())
}
