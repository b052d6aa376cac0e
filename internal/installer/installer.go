// Package installer defines the contract every installable tool implements
// and the progress reporter the orchestrator hands to each install run.
package installer

import (
	"context"
	"fmt"
	"strings"
)

// Category groups installers in the menu. The order of the constants is the
// display order.
type Category int

const (
	CSharp Category = iota
	Python
	NodeJS
	CrossPlatform
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CSharp, Python, NodeJS, CrossPlatform}
}

// Label returns the human-readable group heading.
func (c Category) Label() string {
	switch c {
	case CSharp:
		return "C# Development"
	case Python:
		return "Python Development"
	case NodeJS:
		return "Node.js Development"
	case CrossPlatform:
		return "Cross-Platform Tools"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// String returns the config key for the category.
func (c Category) String() string {
	switch c {
	case CSharp:
		return "csharp"
	case Python:
		return "python"
	case NodeJS:
		return "nodejs"
	case CrossPlatform:
		return "cross-platform"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory maps a config key (or a display label) back to a Category.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if key == c.String() || key == strings.ToLower(c.Label()) {
			return c, nil
		}
	}
	switch key {
	case "c#", "dotnet", ".net":
		return CSharp, nil
	case "node", "node.js", "js":
		return NodeJS, nil
	case "cross", "crossplatform", "tools":
		return CrossPlatform, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Info describes an installer. Name is the unique key used for dependency
// lookups and is compared case-insensitively.
type Info struct {
	Name         string
	Category     Category
	Description  string
	Dependencies []string // names of other installers that must be installed first
	AlwaysRun    bool     // settings appliers: eligible even when already installed
}

// Installer is implemented by every tool the menu can install.
//
// IsInstalled must not panic for expected conditions and reports false when
// detection itself fails. Install returns nil on success and an error for a
// handled failure. An error that wraps context.Canceled is treated as a
// cancellation. A panic from Install is recovered by the caller and counted as
// a failure.
type Installer interface {
	Info() Info
	IsInstalled(ctx context.Context) bool
	Install(ctx context.Context, r Reporter) error
}

// SameName reports whether two installer names refer to the same tool.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Elevated is implemented by installers that may run sudo. NeedsSudo reports
// whether Install would need a password on this machine, so the caller can
// hand the terminal to sudo before the install starts.
type Elevated interface {
	NeedsSudo() bool
}

// NeedsSudo reports whether inst is Elevated and wants sudo.
func NeedsSudo(inst Installer) bool {
	e, ok := inst.(Elevated)
	return ok && e.NeedsSudo()
}
