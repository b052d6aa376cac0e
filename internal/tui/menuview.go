package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/menu"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

const (
	menuHeaderLines = 6 // banner box (4) + instructions + blank
	menuFooterLines = 4 // blank + counts + force banner + legend
)

// menuView is the main checklist. It renders a menu.Menu and translates key
// presses into menu operations.
type menuView struct {
	ctx     context.Context
	core    *menu.Menu
	opts    Options
	theme   *Theme
	keys    keyMap
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func newMenuView(ctx context.Context, cat menu.Catalog, opts Options, theme *Theme) *menuView {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return &menuView{
		ctx:     ctx,
		core:    menu.New(cat),
		opts:    opts,
		theme:   theme,
		keys:    defaultKeyMap(),
		spinner: sp,
		loading: true,
	}
}

func (m *menuView) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadEntries(m.ctx, m.core.Catalog()))
}

// loadEntries queries every installer off the UI goroutine.
func loadEntries(ctx context.Context, cat menu.Catalog) tea.Cmd {
	return func() tea.Msg {
		return entriesMsg{entries: cat.AllTools(ctx)}
	}
}

func (m *menuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case entriesMsg:
		m.core.Apply(msg.entries)
		m.loading = false
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *menuView) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.core.Quit()
		return tea.Quit
	}
	if m.loading {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.core.Up()
	case key.Matches(msg, m.keys.Down):
		m.core.Down()
	case key.Matches(msg, m.keys.Toggle):
		m.core.Toggle()
	case key.Matches(msg, m.keys.SelectAll):
		m.core.ToggleAll()
	case key.Matches(msg, m.keys.Force):
		m.core.ToggleForce()
	case key.Matches(msg, m.keys.Install):
		batch := m.core.Commit()
		if batch == nil {
			return nil
		}
		return pushView(newInstallView(m.ctx, m.core, batch, m.opts, m.theme))
	case key.Matches(msg, m.keys.Details):
		row, ok := m.core.Current()
		if !ok {
			return nil
		}
		title, body := detailContent(m.core, row, m.theme)
		if v, ok := versionSource(row); ok {
			return pushView(newLazyPager(title, func() (string, error) {
				return withVersion(body, v), nil
			}, m.theme))
		}
		return pushView(newPager(title, body, m.theme))
	case key.Matches(msg, m.keys.Status):
		return pushView(newStatusReport(m.ctx, m.core.Catalog(), m.theme))
	case key.Matches(msg, m.keys.Help):
		return pushView(newHelp(m.theme))
	}
	return nil
}

// visibleRows is the height of the scrolling window.
func (m *menuView) visibleRows() int {
	rows := len(m.core.Rows())
	if m.height <= 0 {
		return max(1, rows)
	}
	return max(1, m.height-menuHeaderLines-menuFooterLines)
}

func (m *menuView) View() tea.View {
	var b strings.Builder

	// Banner
	title := m.theme.Title.Render(fmt.Sprintf("devtool-installer  %s", m.opts.Version))
	subtitle := m.theme.Subtitle.Render("Developer environment setup")
	b.WriteString(m.theme.Banner.Render(title + "\n" + subtitle))
	b.WriteString("\n")
	b.WriteString(m.theme.HelpDesc.Render("Select tools with space, then press enter to install."))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("  " + m.spinner.View() + " Checking installed tools...\n")
		return tea.NewView(b.String())
	}
	if len(m.core.Rows()) == 0 {
		b.WriteString(m.theme.HelpDesc.Render("  No tools available on this platform."))
		b.WriteString("\n\n")
		b.WriteString(m.legend())
		return tea.NewView(b.String())
	}

	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return tea.NewView(b.String())
}

// renderList draws the visible window of rows plus a scrollbar.
func (m *menuView) renderList() string {
	rows := m.core.Rows()
	visible := m.visibleRows()
	scroll := m.core.AdjustScroll(visible)
	end := min(len(rows), scroll+visible)

	width := m.width
	if width <= 0 {
		width = 100
	}
	lineWidth := max(10, width-scrollbarWidth)

	lines := make([]string, 0, end-scroll)
	for i := scroll; i < end; i++ {
		line := m.renderRow(rows[i], i == m.core.Cursor())
		lines = append(lines, ansi.Truncate(line, lineWidth, "…"))
	}
	list := strings.Join(lines, "\n")

	var pct float64
	if over := len(rows) - visible; over > 0 {
		pct = float64(scroll) / float64(over)
	}
	if bar := renderScrollbar(len(lines), len(rows), visible, pct, m.theme); bar != "" {
		list = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(lineWidth).Render(list), " ", bar)
	}
	return list + "\n"
}

func (m *menuView) renderRow(row menu.Row, selected bool) string {
	cursor := "  "
	if selected {
		cursor = lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Render("> ")
	}

	if row.IsHeader() {
		g := row.Group
		suffix := fmt.Sprintf("(%d tools)", len(g.Entries))
		if n := g.SelectedCount(); n > 0 {
			suffix = fmt.Sprintf("(%d selected / %d total)", n, len(g.Entries))
		}
		if m.core.Force() {
			suffix += " - force reinstall"
		}
		head := m.theme.Category
		if selected {
			head = head.Foreground(m.theme.Primary)
		}
		return cursor + head.Render(g.Check().Box()+" "+g.Label()) + " " + m.theme.HelpDesc.Render(suffix)
	}

	e := row.Entry
	info := e.Info()
	box := "[ ]"
	if e.Selected {
		box = "[x]"
	}
	name := info.Name
	if selected {
		name = lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Render(name)
	}
	desc := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(info.Description)
	return fmt.Sprintf("%s  %s %s %s  %s", cursor, box, m.stateGlyph(e), name, desc)
}

// stateGlyph marks a tool installed (+), pending (-) or always-run (~).
func (m *menuView) stateGlyph(e *registry.Entry) string {
	switch {
	case e.Info().AlwaysRun:
		return lipgloss.NewStyle().Foreground(m.theme.Accent).Render("~")
	case e.Installed:
		return lipgloss.NewStyle().Foreground(m.theme.Success).Render("+")
	default:
		return lipgloss.NewStyle().Foreground(m.theme.Muted).Render("-")
	}
}

func (m *menuView) footer() string {
	var b strings.Builder
	c := m.core.Counts()
	if m.core.Force() {
		fmt.Fprintf(&b, "%d tools selected (%d to reinstall / %d total)\n", c.Selected, c.Selected, c.Total)
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Bold(true).
			Render("FORCE REINSTALL MODE: selected tools run even when installed"))
	} else {
		fmt.Fprintf(&b, "%d tools selected (%d to install / %d total)\n", c.Selected, c.Pending, c.Total)
	}
	b.WriteString("\n")
	b.WriteString(m.legend())
	return b.String()
}

// legend is the one-line key reference, cut to the terminal width.
func (m *menuView) legend() string {
	return m.theme.footer(m.width).View(m.keys)
}

// detailContent describes the row under the cursor for the details pager.
func detailContent(core *menu.Menu, row menu.Row, theme *Theme) (title, body string) {
	var b strings.Builder
	if row.IsHeader() {
		g := row.Group
		fmt.Fprintf(&b, "%d tools, %d selected\n\n", len(g.Entries), g.SelectedCount())
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "  %s %s\n", theme.Mark(e.Installed), e.Info().Name)
		}
		return g.Label(), b.String()
	}

	e := row.Entry
	info := e.Info()
	fmt.Fprintf(&b, "%s\n\n", info.Description)
	fmt.Fprintf(&b, "Category:   %s\n", info.Category.Label())
	fmt.Fprintf(&b, "Installed:  %s\n", yesNo(e.Installed))
	fmt.Fprintf(&b, "Always run: %s\n", yesNo(info.AlwaysRun))
	if len(info.Dependencies) == 0 {
		b.WriteString("\nNo dependencies.\n")
		return info.Name, b.String()
	}
	b.WriteString("\nDependencies:\n")
	for _, dep := range info.Dependencies {
		d := findEntry(core.Entries(), dep)
		if d == nil {
			fmt.Fprintf(&b, "  - %s (not in catalog, assumed present)\n", dep)
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", theme.Mark(d.Installed), d.Info().Name)
	}
	return info.Name, b.String()
}

// versioner is implemented by installers that can report what is on disk.
type versioner interface {
	Version() (string, error)
}

// versionSource returns the row's installer when it is installed and can
// report a version. Probing runs a process, so the pager loads it async.
func versionSource(row menu.Row) (versioner, bool) {
	if row.IsHeader() || !row.Entry.Installed {
		return nil, false
	}
	v, ok := row.Entry.Installer.(versioner)
	return v, ok
}

func withVersion(body string, v versioner) string {
	version, err := v.Version()
	if err != nil || version == "" {
		version = "unknown"
	}
	return body + "\nVersion:    " + version + "\n"
}

func findEntry(entries []*registry.Entry, name string) *registry.Entry {
	for _, e := range entries {
		if installer.SameName(e.Info().Name, name) {
			return e
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
