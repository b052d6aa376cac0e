package menu

import (
	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

// Check is the tri-state selection of a category header.
type Check int

const (
	CheckNone    Check = iota // no child selected
	CheckPartial              // some but not all children selected
	CheckAll                  // every child selected
)

// Box returns the header checkbox glyph.
func (c Check) Box() string {
	switch c {
	case CheckAll:
		return "[*]"
	case CheckPartial:
		return "[~]"
	default:
		return "[ ]"
	}
}

// Group is the set of entries sharing a category. Groups are rebuilt on
// every Apply and never empty.
type Group struct {
	Category installer.Category
	Entries  []*registry.Entry
}

// Label returns the category heading.
func (g *Group) Label() string { return g.Category.Label() }

// SelectedCount returns how many entries in the group are selected.
func (g *Group) SelectedCount() int {
	n := 0
	for _, e := range g.Entries {
		if e.Selected {
			n++
		}
	}
	return n
}

// Check reports the group's tri-state selection.
func (g *Group) Check() Check {
	n := g.SelectedCount()
	switch {
	case n == 0:
		return CheckNone
	case n == len(g.Entries):
		return CheckAll
	default:
		return CheckPartial
	}
}

// Toggle selects every entry if any is unselected, otherwise deselects all.
func (g *Group) Toggle() {
	setAll(g.Entries, anyUnselected(g.Entries))
}

// Row is one line of the flattened list: a category header when Entry is nil,
// otherwise a tool under Group.
type Row struct {
	Group *Group
	Entry *registry.Entry
}

// IsHeader reports whether the row is a category header.
func (r Row) IsHeader() bool { return r.Entry == nil }

func anyUnselected(entries []*registry.Entry) bool {
	for _, e := range entries {
		if !e.Selected {
			return true
		}
	}
	return false
}

func setAll(entries []*registry.Entry, selected bool) {
	for _, e := range entries {
		e.Selected = selected
	}
}

func buildGroups(entries []*registry.Entry) []*Group {
	var groups []*Group
	for _, cat := range installer.Categories() {
		g := &Group{Category: cat}
		for _, e := range entries {
			if e.Info().Category == cat {
				g.Entries = append(g.Entries, e)
			}
		}
		if len(g.Entries) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

func buildRows(groups []*Group) []Row {
	var rows []Row
	for _, g := range groups {
		rows = append(rows, Row{Group: g})
		for _, e := range g.Entries {
			rows = append(rows, Row{Group: g, Entry: e})
		}
	}
	return rows
}
