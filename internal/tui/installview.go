package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/menu"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

const (
	restartCancelledNotice = "Restart cancelled. Please restart manually for full effect."
	restartSkippedNotice   = "Skipped restart. Please restart manually for full effect."

	installChrome = 14 // heading, progress or dialog, and help lines around the item list
)

type installPhase int

const (
	phaseAuth      installPhase = iota // sudo owns the terminal before the next item
	phaseRunning                       // an installer is in flight
	phasePause                         // showing the last status before the next item
	phaseBlocked                       // dependency dialog, waits for a key
	phaseSummary                       // batch totals, waits for a key
	phaseConfirm                       // restart yes/no
	phaseCountdown                     // restart countdown, any key aborts
	phaseNotice                        // restart skipped or cancelled
	phaseReloading                     // refreshing installed state
)

type reportKind int

const (
	reportStatus reportKind = iota
	reportProgress
	reportSuccess
	reportWarning
	reportError
)

// reportMsg is one reporter call from a running installer.
type reportMsg struct {
	batch   string
	idx     int
	kind    reportKind
	text    string
	percent int // -1 leaves the bar alone
}

// itemDoneMsg is the last message an item's event channel carries.
type itemDoneMsg struct {
	batch string
	idx   int
	res   menu.Result
}

// authCheckedMsg reports whether sudo still holds a credential before item
// idx starts.
type authCheckedMsg struct {
	batch  string
	idx    int
	cached bool
}

// authDoneMsg arrives when the interactive sudo prompt for item idx exits.
type authDoneMsg struct {
	batch string
	idx   int
	err   error
}

type pauseDoneMsg struct{ batch string }

type countdownMsg struct{ batch string }

type reloadedMsg struct {
	entries []*registry.Entry
}

// chanReporter forwards reporter calls to the UI goroutine.
type chanReporter struct {
	batch  string
	idx    int
	events chan<- tea.Msg
}

func (r *chanReporter) send(kind reportKind, text string, percent int) {
	r.events <- reportMsg{batch: r.batch, idx: r.idx, kind: kind, text: text, percent: percent}
}

func (r *chanReporter) Status(text string) { r.send(reportStatus, text, -1) }
func (r *chanReporter) Progress(percent int) {
	r.send(reportProgress, "", installer.ClampPercent(percent))
}
func (r *chanReporter) StatusProgress(text string, percent int) {
	r.send(reportStatus, text, installer.ClampPercent(percent))
}
func (r *chanReporter) Success(text string) { r.send(reportSuccess, text, -1) }
func (r *chanReporter) Warning(text string) { r.send(reportWarning, text, -1) }
func (r *chanReporter) Error(text string)   { r.send(reportError, text, -1) }

// listen waits for the next event of the running item.
func listen(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// installView runs a batch one item at a time and walks the user through
// the summary and restart prompt. It pops itself once the menu is reloaded.
type installView struct {
	base    context.Context // outlives the batch; used for the reload
	ctx     context.Context
	cancel  context.CancelFunc
	core    *menu.Menu
	batch   *menu.Batch
	opts    Options
	theme   *Theme
	list    *itemList
	bar     progress.Model
	events  chan tea.Msg
	confirm *confirmModel

	phase      installPhase
	status     string
	statusKind reportKind
	percent    int
	cancelling bool
	quitAfter  bool
	remaining  int
	notice     string
	width      int
	height     int
}

func newInstallView(ctx context.Context, core *menu.Menu, batch *menu.Batch, opts Options, theme *Theme) *installView {
	runCtx, cancel := context.WithCancel(ctx)
	return &installView{
		base:    ctx,
		ctx:     runCtx,
		cancel:  cancel,
		core:    core,
		batch:   batch,
		opts:    opts,
		theme:   theme,
		list:    newItemList(batch, theme),
		bar:     progress.New(progress.WithWidth(40)),
	}
}

func (m *installView) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), m.next())
}

// next starts the following item, or ends the run when there is none. An
// item that needs sudo first gets the terminal for the password prompt,
// since its install output is captured.
func (m *installView) next() tea.Cmd {
	if m.ctx.Err() != nil {
		m.batch.Cancel()
	}
	idx, it, ok := m.batch.Next()
	if !ok {
		return m.endRun()
	}

	m.status = "Preparing installation..."
	m.statusKind = reportStatus
	m.percent = 0

	if installer.NeedsSudo(it.Entry.Installer) {
		m.phase = phaseAuth
		id := m.batch.ID
		return func() tea.Msg {
			return authCheckedMsg{batch: id, idx: idx, cached: sudoCached()}
		}
	}
	return m.start(idx)
}

func (m *installView) start(idx int) tea.Cmd {
	m.phase = phaseRunning
	it := m.batch.Items[idx]
	events := make(chan tea.Msg, 32)
	m.events = events
	r := &chanReporter{batch: m.batch.ID, idx: idx, events: events}
	ctx, cat, inst, id := m.ctx, m.core.Catalog(), it.Entry.Installer, m.batch.ID
	run := func() tea.Msg {
		res := menu.RunStep(ctx, cat, inst, r)
		events <- itemDoneMsg{batch: id, idx: idx, res: res}
		close(events)
		return nil
	}
	return tea.Batch(run, listen(events))
}

// awaitingAuth reports whether an auth message belongs to the item waiting
// on sudo.
func (m *installView) awaitingAuth(batch string, idx int) bool {
	return batch == m.batch.ID && m.phase == phaseAuth && idx == m.batch.Current()
}

// endRun leaves the item loop: straight out on ctrl+c, otherwise to the
// summary.
func (m *installView) endRun() tea.Cmd {
	m.cancel()
	if m.quitAfter {
		return m.quit()
	}
	m.phase = phaseSummary
	m.cancelling = false
	return nil
}

func (m *installView) quit() tea.Cmd {
	m.core.Quit()
	return tea.Quit
}

func (m *installView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.SetWidth(max(10, min(60, msg.Width-4)))
		return m, nil

	case authCheckedMsg:
		if !m.awaitingAuth(msg.batch, msg.idx) {
			return m, nil
		}
		if msg.cached {
			return m, m.start(msg.idx)
		}
		id, idx := msg.batch, msg.idx
		return m, tea.ExecProcess(sudoValidate(), func(err error) tea.Msg {
			return authDoneMsg{batch: id, idx: idx, err: err}
		})

	case authDoneMsg:
		if !m.awaitingAuth(msg.batch, msg.idx) {
			return m, nil
		}
		if msg.err != nil {
			// The install still runs; sudo -n then fails with a clear error.
			slog.Warn("sudo authentication failed", "tool", m.batch.Items[msg.idx].Name(), "err", msg.err)
		}
		return m, m.start(msg.idx)

	case reportMsg:
		if msg.batch == m.batch.ID && msg.idx == m.batch.Current() {
			m.applyReport(msg)
		}
		return m, listen(m.events)

	case itemDoneMsg:
		if msg.batch != m.batch.ID {
			return m, nil
		}
		return m, m.itemDone(msg)

	case pauseDoneMsg:
		if msg.batch != m.batch.ID || m.phase != phasePause {
			return m, nil
		}
		return m, m.next()

	case countdownMsg:
		if msg.batch != m.batch.ID || m.phase != phaseCountdown {
			return m, nil
		}
		m.remaining--
		if m.remaining <= 0 {
			m.core.Quit()
			return m, func() tea.Msg { return restartMsg{} }
		}
		return m, m.tick()

	case answerMsg:
		if m.phase != phaseConfirm {
			return m, nil
		}
		if msg.yes {
			m.phase = phaseCountdown
			m.remaining = max(1, m.opts.Menu.RestartCountdown)
			return m, m.tick()
		}
		m.phase = phaseNotice
		m.notice = restartSkippedNotice
		return m, nil

	case reloadedMsg:
		m.core.Finish(msg.entries)
		if m.quitAfter {
			return m, m.quit()
		}
		return m, popView

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	return m, m.list.Update(msg)
}

func (m *installView) applyReport(msg reportMsg) {
	if msg.text != "" {
		m.status = msg.text
		m.statusKind = msg.kind
	}
	if msg.percent >= 0 {
		m.percent = msg.percent
	}
}

func (m *installView) itemDone(msg itemDoneMsg) tea.Cmd {
	m.batch.Record(msg.idx, msg.res)
	if msg.res.Outcome == menu.Succeeded {
		m.percent = 100
	}

	if m.quitAfter || m.batch.Cancelled() {
		return m.endRun()
	}
	if msg.res.Outcome == menu.Blocked {
		m.phase = phaseBlocked
		return nil
	}
	return m.pauseOrNext()
}

func (m *installView) pauseOrNext() tea.Cmd {
	if m.batch.Done() {
		return m.endRun()
	}
	if m.opts.Menu.ItemPause <= 0 {
		return m.next()
	}
	m.phase = phasePause
	id := m.batch.ID
	return tea.Tick(m.opts.Menu.ItemPause, func(time.Time) tea.Msg {
		return pauseDoneMsg{batch: id}
	})
}

func (m *installView) tick() tea.Cmd {
	id := m.batch.ID
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{batch: id}
	})
}

// stop cancels the batch. The running item, if any, finishes on its own.
// An item still waiting on sudo never started and is recorded cancelled.
func (m *installView) stop(quit bool) tea.Cmd {
	m.quitAfter = m.quitAfter || quit
	m.cancel()
	m.batch.Cancel()
	switch m.phase {
	case phaseRunning:
		m.cancelling = true
		return nil
	case phaseAuth:
		m.batch.Record(m.batch.Current(), menu.Result{Outcome: menu.Cancelled, Err: context.Canceled})
	}
	return m.endRun()
}

func (m *installView) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.phase {
	case phaseAuth, phaseRunning, phasePause, phaseBlocked:
		switch {
		case isInterrupt(msg):
			return m.stop(true)
		case IsBack(msg):
			return m.stop(false)
		case m.phase == phaseBlocked:
			return m.pauseOrNext()
		}
		return nil

	case phaseSummary:
		if isInterrupt(msg) {
			return m.quit()
		}
		if m.batch.Succeeded > 0 && m.opts.Menu.RestartPrompt {
			m.phase = phaseConfirm
			m.confirm = newConfirm("Restart recommended",
				"Some tools only take effect after a restart.\nRestart now?", false, m.theme)
			return nil
		}
		return m.reload()

	case phaseConfirm:
		if isInterrupt(msg) {
			return m.quit()
		}
		return m.confirm.Update(msg)

	case phaseCountdown:
		if isInterrupt(msg) {
			return m.quit()
		}
		m.phase = phaseNotice
		m.notice = restartCancelledNotice
		return nil

	case phaseNotice:
		if isInterrupt(msg) {
			return m.quit()
		}
		return m.reload()

	case phaseReloading:
		// The refresh is already running; quit once it lands so the
		// menu state stays consistent.
		if isInterrupt(msg) {
			m.quitAfter = true
		}
	}
	return nil
}

// reload refreshes installed state for every tool and hands it to the menu.
func (m *installView) reload() tea.Cmd {
	m.phase = phaseReloading
	ctx, cat := m.base, m.core.Catalog()
	return func() tea.Msg {
		return reloadedMsg{entries: cat.AllTools(ctx)}
	}
}

func (m *installView) View() tea.View {
	var b strings.Builder

	title := fmt.Sprintf("Installing %d tools", m.batch.Total())
	if m.batch.Force {
		title += " (force reinstall)"
	}
	b.WriteString(m.theme.Heading(title))
	b.WriteString("\n")
	rows := 0
	if m.height > 0 {
		rows = max(3, m.height-installChrome)
	}
	b.WriteString(m.list.View(rows))
	b.WriteString("\n")

	switch m.phase {
	case phaseAuth:
		name := m.batch.Items[m.batch.Current()].Name()
		b.WriteString(m.theme.HelpDesc.Render("Waiting for sudo authentication for " + name + "..."))
	case phaseRunning, phasePause:
		b.WriteString(m.renderProgress())
	case phaseBlocked:
		b.WriteString(m.renderBlocked())
	case phaseSummary:
		b.WriteString(m.renderSummary())
	case phaseConfirm:
		b.WriteString(m.confirm.View())
	case phaseCountdown:
		fmt.Fprintf(&b, "Restarting in %d seconds...\n\n", m.remaining)
		b.WriteString(m.theme.HelpDesc.Render("Press any key to cancel"))
	case phaseNotice:
		b.WriteString(m.theme.fg(m.theme.Warning).Render(m.notice))
		b.WriteString("\n\n")
		b.WriteString(m.theme.HelpDesc.Render("Press any key to continue"))
	case phaseReloading:
		b.WriteString(m.theme.HelpDesc.Render("Refreshing installed status..."))
	}
	b.WriteString("\n")
	return tea.NewView(b.String())
}

func (m *installView) renderProgress() string {
	var b strings.Builder
	if idx := m.batch.Current(); idx >= 0 {
		fmt.Fprintf(&b, "[%d/%d] %s\n", idx+1, m.batch.Total(), m.batch.Items[idx].Name())
	}
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteString("\n")
	b.WriteString(m.statusStyle().Render(m.status))
	b.WriteString("\n\n")
	if m.cancelling {
		b.WriteString(m.theme.fg(m.theme.Warning).Render("Cancelling after the current step..."))
	} else {
		b.WriteString(m.theme.hint(keyEsc, "cancel") + "  " + m.theme.hint(keyCtrlC, "cancel and quit"))
	}
	return b.String()
}

func (m *installView) statusStyle() lipgloss.Style {
	switch m.statusKind {
	case reportSuccess:
		return m.theme.fg(m.theme.Success)
	case reportWarning:
		return m.theme.fg(m.theme.Warning)
	case reportError:
		return m.theme.fg(m.theme.Error)
	default:
		return m.theme.fg(m.theme.Secondary)
	}
}

func (m *installView) renderBlocked() string {
	it := m.batch.Items[m.batch.Current()]
	var b strings.Builder
	b.WriteString(m.theme.Alert("Dependency required"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s requires the following to be installed first:\n", it.Name())
	for _, dep := range it.Unmet {
		b.WriteString("  - " + dep + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.hint("any key", "continue") + "  " + m.theme.hint(keyEsc, "cancel the rest"))
	return b.String()
}

func (m *installView) renderSummary() string {
	var b strings.Builder
	b.WriteString(m.theme.Subheading("Installation summary"))
	fmt.Fprintf(&b, "  %s Succeeded: %d\n", m.theme.Tally(menu.Succeeded), m.batch.Succeeded)
	fmt.Fprintf(&b, "  %s Failed:    %d\n", m.theme.Tally(menu.Failed), m.batch.Failed)
	if m.batch.Blocked > 0 {
		fmt.Fprintf(&b, "  %s Blocked:   %d\n", m.theme.Tally(menu.Blocked), m.batch.Blocked)
	}
	fmt.Fprintf(&b, "  Total: %d/%d\n", m.batch.Attempted(), m.batch.Total())
	if m.batch.Cancelled() {
		b.WriteString("\n")
		b.WriteString(m.theme.fg(m.theme.Warning).Bold(true).Render("Cancelled by user"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.HelpDesc.Render("Press any key to continue"))
	return b.String()
}
