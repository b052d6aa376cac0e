// Package menu is the UI-independent core of the installer: the categorized
// selection list, cursor and scroll bookkeeping, the candidate filter, and
// the sequential batch runner. The terminal UI renders a Menu and feeds it
// key actions; nothing here touches the terminal.
package menu

import (
	"context"

	"github.com/google/uuid"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

// State is the orchestrator's top-level mode.
type State int

const (
	MainMenu   State = iota // browse and multi-select
	Installing              // a batch is running
	Complete                // the run loop should exit
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main-menu"
	case Installing:
		return "installing"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Catalog is the registry surface the menu depends on.
type Catalog interface {
	AllTools(ctx context.Context) []*registry.Entry
	InstallerByName(name string) installer.Installer
}

// Counts summarizes the current selection for the footer.
type Counts struct {
	Selected int // selected entries
	Pending  int // selected entries that an install would act on
	Total    int // all entries
}

// Menu holds the live entry list and all selection state. It is owned by a
// single goroutine.
type Menu struct {
	catalog Catalog
	state   State
	entries []*registry.Entry
	groups  []*Group
	rows    []Row
	cursor  int
	scroll  int
	force   bool
}

// New returns an empty menu in MainMenu state. Call Load or Apply to
// populate it.
func New(catalog Catalog) *Menu {
	return &Menu{catalog: catalog}
}

// Catalog returns the catalog the menu was built with.
func (m *Menu) Catalog() Catalog { return m.catalog }

// Load queries the catalog and applies the result.
func (m *Menu) Load(ctx context.Context) {
	m.Apply(m.catalog.AllTools(ctx))
}

// Apply replaces the entry list and rebuilds groups and rows. The cursor is
// kept in range.
func (m *Menu) Apply(entries []*registry.Entry) {
	m.entries = entries
	m.groups = buildGroups(entries)
	m.rows = buildRows(m.groups)
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.scroll = ClampScroll(m.cursor, m.scroll, max(1, len(m.rows)), len(m.rows))
}

func (m *Menu) State() State               { return m.state }
func (m *Menu) Force() bool                { return m.force }
func (m *Menu) Cursor() int                { return m.cursor }
func (m *Menu) Rows() []Row                { return m.rows }
func (m *Menu) Groups() []*Group           { return m.groups }
func (m *Menu) ScrollOffset() int          { return m.scroll }
func (m *Menu) Entries() []*registry.Entry { return m.entries }

// Current returns the row under the cursor. ok is false when the list is empty.
func (m *Menu) Current() (row Row, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// Up moves the cursor one row up, wrapping to the last row.
func (m *Menu) Up() {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = (m.cursor - 1 + len(m.rows)) % len(m.rows)
}

// Down moves the cursor one row down, wrapping to the first row.
func (m *Menu) Down() {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = (m.cursor + 1) % len(m.rows)
}

// Toggle flips the row under the cursor. On a header it selects every tool
// in the category unless all are already selected, in which case it clears
// them.
func (m *Menu) Toggle() {
	row, ok := m.Current()
	if !ok {
		return
	}
	if row.IsHeader() {
		row.Group.Toggle()
		return
	}
	row.Entry.Selected = !row.Entry.Selected
}

// ToggleAll selects every entry if any is unselected, otherwise clears all.
func (m *Menu) ToggleAll() {
	setAll(m.entries, anyUnselected(m.entries))
}

// ToggleForce flips force-reinstall mode. It only has an effect in MainMenu.
func (m *Menu) ToggleForce() {
	if m.state != MainMenu {
		return
	}
	m.force = !m.force
}

// ClearSelection deselects every entry.
func (m *Menu) ClearSelection() {
	setAll(m.entries, false)
}

// AdjustScroll moves the scroll offset so the cursor is visible in a window
// of the given height and returns the new offset.
func (m *Menu) AdjustScroll(visible int) int {
	m.scroll = ClampScroll(m.cursor, m.scroll, visible, len(m.rows))
	return m.scroll
}

// Counts returns the footer summary. In force mode every selected entry is
// pending; otherwise installed and always-run entries are not.
func (m *Menu) Counts() Counts {
	c := Counts{Total: len(m.entries)}
	for _, e := range m.entries {
		if !e.Selected {
			continue
		}
		c.Selected++
		if m.force || (!e.Installed && !e.Info().AlwaysRun) {
			c.Pending++
		}
	}
	return c
}

// Candidates returns the selected entries an install would run, in list
// order: everything selected in force mode, otherwise the ones not installed
// plus always-run entries.
func (m *Menu) Candidates() []*registry.Entry {
	var out []*registry.Entry
	for _, g := range m.groups {
		for _, e := range g.Entries {
			if e.Selected && (m.force || !e.Installed || e.Info().AlwaysRun) {
				out = append(out, e)
			}
		}
	}
	return out
}

// Commit starts a batch from the current candidates and switches to
// Installing. With no candidates it returns nil and changes nothing.
func (m *Menu) Commit() *Batch {
	if m.state != MainMenu {
		return nil
	}
	candidates := m.Candidates()
	if len(candidates) == 0 {
		return nil
	}
	m.state = Installing
	return newBatch(uuid.NewString(), candidates, m.force)
}

// Finish ends a batch: selections are cleared, the freshly loaded entries
// replace the old ones, and the menu returns to MainMenu.
func (m *Menu) Finish(fresh []*registry.Entry) {
	m.ClearSelection()
	m.Apply(fresh)
	m.ClearSelection()
	if m.state != Complete {
		m.state = MainMenu
	}
}

// Quit moves the menu to Complete.
func (m *Menu) Quit() {
	m.state = Complete
}

// ClampScroll returns the scroll offset that keeps cursor inside a window of
// visible rows over total rows, moving the window as little as possible.
// The result satisfies scroll <= cursor < scroll+visible and
// 0 <= scroll <= max(0, total-visible).
func ClampScroll(cursor, scroll, visible, total int) int {
	if visible < 1 {
		visible = 1
	}
	if cursor < scroll {
		scroll = cursor
	}
	if cursor >= scroll+visible {
		scroll = cursor - visible + 1
	}
	return min(max(scroll, 0), max(0, total-visible))
}
