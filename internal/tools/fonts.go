package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

const (
	// FontArchiveURL is the Cascadia Code Nerd Font release.
	FontArchiveURL = "https://github.com/ryanoasis/nerd-fonts/releases/download/v3.4.0/CascadiaCode.zip"
	// fontPrefix matches the family's file names inside the archive.
	fontPrefix = "CaskaydiaCove"
)

// fontDir returns the per-user font directory for the current OS.
func fontDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	switch goos {
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(local, "Microsoft", "Windows", "Fonts"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Fonts"), nil
	default:
		return filepath.Join(home, ".local", "share", "fonts", "CascadiaCode"), nil
	}
}

// isFontFile keeps the regular-width TrueType faces of the family.
func isFontFile(name string) bool {
	return strings.HasPrefix(name, fontPrefix) &&
		strings.HasSuffix(strings.ToLower(name), ".ttf") &&
		!strings.Contains(name, "Propo")
}

// fontsPresent reports whether dir holds any file of the family.
func fontsPresent(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, fontPrefix+"*"))
	return err == nil && len(matches) > 0
}

// DeveloperFonts returns the Nerd Font installer. It always re-runs so a
// selected run refreshes the files.
func DeveloperFonts() *Tool {
	return &Tool{
		Name:        "Developer Fonts",
		Category:    installer.CrossPlatform,
		Description: "Download Cascadia Code Nerd Font and install it for the current user",
		AlwaysRun:   true,
		InstallCmd:  FontArchiveURL,
		CheckFn: func(context.Context) bool {
			dir, err := fontDir()
			return err == nil && fontsPresent(dir)
		},
		InstallFn: installFonts,
	}
}

func installFonts(ctx context.Context, r installer.Reporter) error {
	dir, err := fontDir()
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "fonts-install-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archive := filepath.Join(tmpDir, "CascadiaCode.zip")
	progress := platform.DownloadPercent(func(pct int) {
		r.StatusProgress(fmt.Sprintf("Downloading Cascadia Code Nerd Font... %d%%", pct), pct*7/10)
	})
	if err := platform.Download(ctx, FontArchiveURL, archive, progress); err != nil {
		return fmt.Errorf("downloading fonts: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.StatusProgress("Extracting fonts...", 75)
	written, err := platform.ExtractZip(archive, dir, isFontFile)
	if err != nil {
		return fmt.Errorf("extracting fonts: %w", err)
	}
	if len(written) == 0 {
		return fmt.Errorf("no font files found in %s", filepath.Base(archive))
	}

	r.StatusProgress(fmt.Sprintf("Registering %d font files...", len(written)), 90)
	registerFonts(r, written)
	r.Progress(100)
	return nil
}

// registerFonts makes freshly copied fonts visible to running applications.
// Failures only warn; the files are in place either way.
func registerFonts(r installer.Reporter, files []string) {
	switch goos {
	case "windows":
		failed := 0
		for _, f := range files {
			name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)) + " (TrueType)"
			err := platform.RunQuiet("reg", "add", `HKCU\Software\Microsoft\Windows NT\CurrentVersion\Fonts`,
				"/v", name, "/t", "REG_SZ", "/d", f, "/f")
			if err != nil {
				failed++
			}
		}
		if failed > 0 {
			r.Warning(fmt.Sprintf("%d fonts could not be registered; sign out and back in to load them", failed))
		}
	case "darwin":
	default:
		if lookPath("fc-cache") {
			if err := platform.RunQuiet("fc-cache", "-f"); err != nil {
				r.Warning(fmt.Sprintf("fc-cache failed: %v", err))
			}
		}
	}
}
