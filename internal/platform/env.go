package platform

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const profileMarker = "# Added by devtool-installer"

// ShellProfile is the startup file of the user's login shell.
type ShellProfile struct {
	Shell string // zsh, bash or fish
	Path  string
}

// DetectShellProfile picks the profile from $SHELL. Without one it prefers an
// existing .zshrc, as on a stock macOS account, and then .bashrc.
func DetectShellProfile(home string) ShellProfile {
	shell := os.Getenv("SHELL")

	switch {
	case strings.HasSuffix(shell, "zsh"):
		return ShellProfile{"zsh", filepath.Join(home, ".zshrc")}
	case strings.HasSuffix(shell, "fish"):
		return ShellProfile{"fish", filepath.Join(home, ".config", "fish", "config.fish")}
	case strings.HasSuffix(shell, "bash"):
		return ShellProfile{"bash", filepath.Join(home, ".bashrc")}
	}

	if FileExists(filepath.Join(home, ".zshrc")) {
		return ShellProfile{"zsh", filepath.Join(home, ".zshrc")}
	}
	return ShellProfile{"bash", filepath.Join(home, ".bashrc")}
}

// homeRelative spells dir under home as $HOME/..., which every supported
// shell expands. Other paths are returned as is.
func homeRelative(home, dir string) string {
	rel, err := filepath.Rel(home, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return dir
	}
	return "$HOME/" + filepath.ToSlash(rel)
}

// PathLine is the profile line that puts dir on PATH.
func (p ShellProfile) PathLine(home, dir string) string {
	d := homeRelative(home, dir)
	if p.Shell == "fish" {
		return "fish_add_path " + d
	}
	return `export PATH="` + d + `:$PATH"`
}

// AddPath appends a PATH entry for dir unless the profile already mentions
// dir in any spelling. It reports whether the file changed.
func (p ShellProfile) AddPath(home, dir string) (modified bool, err error) {
	content, err := os.ReadFile(p.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	text := string(content)
	d := homeRelative(home, dir)
	for _, spelling := range []string{dir, d, strings.Replace(d, "$HOME", "~", 1), strings.Replace(d, "$HOME", "${HOME}", 1)} {
		if strings.Contains(text, spelling) {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
		return false, err
	}
	block := "\n" + profileMarker + "\n" + p.PathLine(home, dir) + "\n"
	if err := os.WriteFile(p.Path, append(content, block...), 0644); err != nil {
		return false, err
	}
	return true, nil
}

// PrependPath puts dir at the front of PATH for the current process so tools
// installed during this run are found by later detection checks.
func PrependPath(dir string) {
	current := os.Getenv("PATH")
	for _, p := range filepath.SplitList(current) {
		if p == dir {
			return
		}
	}
	os.Setenv("PATH", dir+string(os.PathListSeparator)+current)
}
