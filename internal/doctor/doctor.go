// Package doctor implements the "doctor" command, which prints the installed
// state of every tool in the catalog grouped by category, and flags tools
// whose declared dependencies are missing.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

// Catalog is the registry surface the report reads.
type Catalog interface {
	AllTools(ctx context.Context) []*registry.Entry
}

// Options tune the report.
type Options struct {
	// Versions asks each installed tool for its version. Slow: one process
	// per tool.
	Versions bool
}

// Report counts what the last run found.
type Report struct {
	Total     int
	Installed int
	Missing   int
	AlwaysRun int
	Unmet     int // tools with at least one missing dependency
}

type versioner interface {
	Version() (string, error)
}

// Run executes the doctor command, printing to os.Stdout.
func Run(ctx context.Context, cat Catalog, opts Options) (Report, error) {
	return RunTo(ctx, os.Stdout, cat, opts)
}

// RunTo executes the doctor command, writing all output to w.
func RunTo(ctx context.Context, w io.Writer, cat Catalog, opts Options) (Report, error) {
	platform.PrintBanner(w, "Developer Environment Status")

	entries := cat.AllTools(ctx)
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("checking tools: %w", err)
	}

	var rep Report
	for _, c := range installer.Categories() {
		var group []*registry.Entry
		for _, e := range entries {
			if e.Info().Category == c {
				group = append(group, e)
			}
		}
		if len(group) == 0 {
			continue
		}
		platform.PrintSectionLabel(w, c.Label())
		for _, e := range group {
			checkEntry(w, e, entries, opts, &rep)
		}
	}

	platform.PrintBanner(w, "Summary")
	fmt.Fprintf(w, "Installed: %d/%d\n", rep.Installed, rep.Total)
	if rep.Missing > 0 {
		fmt.Fprintln(w, platform.Yellow(fmt.Sprintf("Missing: %d (run devtool-installer to install)", rep.Missing)))
	}
	if rep.Unmet > 0 {
		fmt.Fprintln(w, platform.Yellow(fmt.Sprintf("Blocked by dependencies: %d", rep.Unmet)))
	}
	if rep.Missing == 0 && rep.Unmet == 0 {
		fmt.Fprintln(w, platform.BoldGreen("All tools are installed."))
	}
	fmt.Fprintln(w)
	return rep, nil
}

func checkEntry(w io.Writer, e *registry.Entry, all []*registry.Entry, opts Options, rep *Report) {
	info := e.Info()
	rep.Total++

	label := info.Name
	if e.Installed && opts.Versions {
		if v, ok := e.Installer.(versioner); ok {
			if ver, err := v.Version(); err == nil && ver != "" {
				label += ": " + ver
			}
		}
	}

	switch {
	case info.AlwaysRun:
		rep.AlwaysRun++
		always(w, label)
		if e.Installed {
			rep.Installed++
		}
	case e.Installed:
		rep.Installed++
		pass(w, label)
	default:
		rep.Missing++
		missing(w, label)
	}

	if unmet := unmetDependencies(info, all); len(unmet) > 0 {
		rep.Unmet++
		platform.PrintWarn(w, fmt.Sprintf("%s needs %s", info.Name, strings.Join(unmet, ", ")))
	}
}

// unmetDependencies returns the declared dependencies of info that are in
// the catalog but not installed. Unknown names count as satisfied.
func unmetDependencies(info installer.Info, all []*registry.Entry) []string {
	var unmet []string
	for _, dep := range info.Dependencies {
		for _, e := range all {
			if installer.SameName(e.Info().Name, dep) {
				if !e.Installed {
					unmet = append(unmet, e.Info().Name)
				}
				break
			}
		}
	}
	return unmet
}

func pass(w io.Writer, msg string) {
	platform.PrintOK(w, msg)
}

func missing(w io.Writer, msg string) {
	platform.PrintTag(w, "MISSING", platform.BoldRed, msg)
}

func always(w io.Writer, msg string) {
	platform.PrintTag(w, "ALWAYS", platform.Cyan, msg)
}
