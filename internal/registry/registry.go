// Package registry holds the ordered set of installers the menu offers and
// answers installed-state queries against it.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lamchakchan/devtool-installer/internal/installer"
)

// DefaultConcurrency bounds parallel IsInstalled checks.
const DefaultConcurrency = 4

// Entry is a fresh snapshot of one installer's state, created on every load.
type Entry struct {
	Installer installer.Installer
	Installed bool
	Selected  bool
}

// Info is shorthand for e.Installer.Info().
func (e *Entry) Info() installer.Info {
	return e.Installer.Info()
}

// Registry is an ordered, name-unique list of installers.
type Registry struct {
	installers  []installer.Installer
	concurrency int
}

// Option configures a Registry.
type Option func(*Registry)

// WithConcurrency sets how many installed-state checks run at once. Values
// below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(r *Registry) {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
	}
}

// New builds a registry in registration order. A second installer with a
// name already registered (case-insensitively) is dropped.
func New(installers []installer.Installer, opts ...Option) *Registry {
	r := &Registry{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(r)
	}
	for _, inst := range installers {
		if inst == nil {
			continue
		}
		name := inst.Info().Name
		if r.InstallerByName(name) != nil {
			slog.Warn("duplicate installer name ignored", "name", name)
			continue
		}
		r.installers = append(r.installers, inst)
	}
	return r
}

// Installers returns the registered installers in order.
func (r *Registry) Installers() []installer.Installer {
	out := make([]installer.Installer, len(r.installers))
	copy(out, r.installers)
	return out
}

// Len returns the number of registered installers.
func (r *Registry) Len() int { return len(r.installers) }

// AllTools queries every installer and returns entries in registration order.
func (r *Registry) AllTools(ctx context.Context) []*Entry {
	return r.load(ctx, r.installers)
}

// ToolsByCategory is AllTools filtered to one category.
func (r *Registry) ToolsByCategory(ctx context.Context, cat installer.Category) []*Entry {
	var subset []installer.Installer
	for _, inst := range r.installers {
		if inst.Info().Category == cat {
			subset = append(subset, inst)
		}
	}
	return r.load(ctx, subset)
}

// InstallerByName returns the installer with the given name, compared
// case-insensitively, or nil.
func (r *Registry) InstallerByName(name string) installer.Installer {
	for _, inst := range r.installers {
		if installer.SameName(inst.Info().Name, name) {
			return inst
		}
	}
	return nil
}

func (r *Registry) load(ctx context.Context, list []installer.Installer) []*Entry {
	entries := make([]*Entry, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, inst := range list {
		g.Go(func() error {
			entries[i] = &Entry{Installer: inst, Installed: IsInstalled(gctx, inst)}
			return nil
		})
	}
	_ = g.Wait()

	installed := 0
	for _, e := range entries {
		if e.Installed {
			installed++
		}
	}
	slog.Debug("installed state loaded", "tools", len(entries), "installed", installed)
	return entries
}

// IsInstalled calls inst.IsInstalled, turning a panic into false.
func IsInstalled(ctx context.Context, inst installer.Installer) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("installed check panicked", "tool", inst.Info().Name, "panic", fmt.Sprint(rec))
			ok = false
		}
	}()
	return inst.IsInstalled(ctx)
}
