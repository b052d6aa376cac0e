// Package tools defines the built-in developer tools and the custom tools
// read from config, with detection, installation, and version reporting.
package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// Seams for tests.
var (
	goos                  = runtime.GOOS
	goarch                = runtime.GOARCH
	lookPath              = platform.Exists
	availablePMs          = platform.AvailablePackageManagers
	installSystemPackages = platform.InstallSystemPackages
	isPackageInstalled    = platform.IsPackageInstalled
	isRoot                = platform.IsRoot
	usesSudo              = platform.PackageManager.UsesSudo
)

// Packages maps a package manager to the package id (or space-separated
// ids) that installs a tool through it.
type Packages map[platform.PackageManager]string

// Tool is an installable developer tool.
type Tool struct {
	Name         string
	Category     installer.Category
	Description  string
	Dependencies []string
	AlwaysRun    bool
	Binary       string   // command looked up by the default check
	Packages     Packages // nil → InstallFn is required
	InstallCmd   string   // manual install hint; derived from Packages if empty
	Platforms    []string // GOOS values; empty means every platform
	Elevates     bool     // InstallFn may fall back to a root package manager not in Packages
	Sudo         bool     // InstallFn runs sudo itself
	CheckFn      func(ctx context.Context) bool
	InstallFn    func(ctx context.Context, r installer.Reporter) error
	VersionFn    func() (string, error)
}

var (
	_ installer.Installer = (*Tool)(nil)
	_ installer.Elevated  = (*Tool)(nil)
)

// Info implements installer.Installer.
func (t *Tool) Info() installer.Info {
	return installer.Info{
		Name:         t.Name,
		Category:     t.Category,
		Description:  t.Description,
		Dependencies: slices.Clone(t.Dependencies),
		AlwaysRun:    t.AlwaysRun,
	}
}

// NeedsSudo implements installer.Elevated. It is true when the install may
// go through sudo for this user and so wants the credential cached first.
func (t *Tool) NeedsSudo() bool {
	if t.Sudo {
		return lookPath("sudo") && !isRoot()
	}
	for _, pm := range availablePMs() {
		if _, ok := t.Packages[pm]; (ok || t.Elevates) && usesSudo(pm) {
			return true
		}
	}
	return false
}

// Supported reports whether the tool can be installed on the given OS.
func (t *Tool) Supported(os string) bool {
	return len(t.Platforms) == 0 || slices.Contains(t.Platforms, os)
}

// IsInstalled reports whether the tool is available. Without a CheckFn the
// binary is looked up in PATH, then each package manager is asked.
func (t *Tool) IsInstalled(ctx context.Context) bool {
	if t.CheckFn != nil {
		return t.CheckFn(ctx)
	}
	if t.Binary != "" && lookPath(t.Binary) {
		return true
	}
	return packageListed(t.Packages)
}

// Install runs the tool's install function, or its package manager install.
func (t *Tool) Install(ctx context.Context, r installer.Reporter) error {
	r = installer.OrDiscard(r)
	if t.InstallFn != nil {
		return t.InstallFn(ctx, r)
	}
	return installPackage(ctx, r, t.Name, t.Packages)
}

// Version returns the tool's version string.
func (t *Tool) Version() (string, error) {
	if t.VersionFn != nil {
		return t.VersionFn()
	}
	if t.Binary != "" {
		out, err := platform.Output(t.Binary, "--version")
		if err == nil && out != "" {
			return firstLine(out), nil
		}
	}
	return "", fmt.Errorf("no version function for %s", t.Name)
}

// InstallHint returns the manual install command for this tool.
func (t *Tool) InstallHint() string {
	if t.InstallCmd != "" {
		return t.InstallCmd
	}
	for _, pm := range availablePMs() {
		if pkg, ok := t.Packages[pm]; ok {
			return platform.InstallHintForPM(pm, pkg)
		}
	}
	return ""
}

// errNoPackageManager is returned when none of a tool's package managers is
// present.
var errNoPackageManager = errors.New("no supported package manager found")

// installPackage tries every available package manager that carries the
// tool, in preference order, until one succeeds.
func installPackage(ctx context.Context, r installer.Reporter, name string, pkgs Packages) error {
	var lastErr error
	tried := 0
	for _, pm := range availablePMs() {
		pkg, ok := pkgs[pm]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		tried++
		r.StatusProgress(fmt.Sprintf("Installing %s via %s...", name, platform.PMLabel(pm)), 20)
		if err := installSystemPackages(pm, strings.Fields(pkg)); err != nil {
			lastErr = err
			r.Warning(fmt.Sprintf("%s install failed: %v", platform.PMLabel(pm), err))
			continue
		}
		r.Progress(100)
		return nil
	}
	if tried == 0 {
		return fmt.Errorf("%s: %w", name, errNoPackageManager)
	}
	return lastErr
}

// packageListed asks each available package manager carrying a package
// whether it is installed.
func packageListed(pkgs Packages) bool {
	if len(pkgs) == 0 {
		return false
	}
	for _, pm := range availablePMs() {
		pkg, ok := pkgs[pm]
		if !ok {
			continue
		}
		if fields := strings.Fields(pkg); len(fields) > 0 && isPackageInstalled(pm, fields[0]) {
			return true
		}
	}
	return false
}

// hasPackageFor reports whether any available package manager carries pkgs.
func hasPackageFor(pkgs Packages) bool {
	for _, pm := range availablePMs() {
		if _, ok := pkgs[pm]; ok {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// addToShellPath puts dir on PATH for this process and in the shell profile
// so new terminals find it too.
func addToShellPath(r installer.Reporter, home, dir string) {
	platform.PrependPath(dir)
	profile := platform.DetectShellProfile(home)
	if modified, err := profile.AddPath(home, dir); err != nil {
		r.Warning(fmt.Sprintf("Could not auto-configure PATH: %v", err))
	} else if modified {
		r.Status(fmt.Sprintf("Added %s to PATH in %s", dir, filepath.Base(profile.Path)))
	}
}
