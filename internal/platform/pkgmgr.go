package platform

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// PackageManager represents a system package manager.
type PackageManager int

const (
	PMNone   PackageManager = iota
	PMBrew                  // macOS (Homebrew), also Linuxbrew
	PMApt                   // Debian, Ubuntu
	PMDnf                   // Fedora, RHEL, CentOS Stream
	PMPacman                // Arch, Manjaro
	PMApk                   // Alpine
	PMWinget                // Windows Package Manager
	PMChoco                 // Chocolatey
	PMScoop                 // Scoop
)

// AvailablePackageManagers returns every package manager found in PATH, in
// preference order for the current OS.
func AvailablePackageManagers() []PackageManager {
	return availableFor(runtime.GOOS, Exists)
}

func availableFor(goos string, exists func(string) bool) []PackageManager {
	var candidates []PackageManager
	switch goos {
	case "windows":
		candidates = []PackageManager{PMWinget, PMChoco, PMScoop}
	case "darwin":
		candidates = []PackageManager{PMBrew}
	default:
		candidates = []PackageManager{PMApt, PMDnf, PMPacman, PMApk, PMBrew}
	}
	var found []PackageManager
	for _, pm := range candidates {
		if exists(pm.Binary()) {
			found = append(found, pm)
		}
	}
	return found
}

// Binary returns the executable that drives the package manager.
func (pm PackageManager) Binary() string {
	switch pm {
	case PMBrew:
		return "brew"
	case PMApt:
		return "apt-get"
	case PMDnf:
		return "dnf"
	case PMPacman:
		return "pacman"
	case PMApk:
		return "apk"
	case PMWinget:
		return "winget"
	case PMChoco:
		return "choco"
	case PMScoop:
		return "scoop"
	default:
		return ""
	}
}

// InstallSystemPackages batch-installs packages via the given package manager.
func InstallSystemPackages(pm PackageManager, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if pm == PMNone {
		return fmt.Errorf("no package manager detected")
	}
	// winget takes a single --id per invocation
	if pm == PMWinget {
		for _, n := range names {
			name, args := installArgs(pm, []string{n}, nil)
			if err := RunCapture(name, args...); err != nil {
				return err
			}
		}
		return nil
	}
	var sudo []string
	if pm.UsesSudo() {
		sudo = sudoCaptured
	}
	name, args := installArgs(pm, names, sudo)
	return RunCapture(name, args...)
}

// Captured runs have no terminal to prompt on, so sudo must fail instead of
// waiting for a password. The credential is primed beforehand with
// SudoValidateCommand.
var (
	sudoCaptured = []string{"sudo", "-n"}
	sudoShown    = []string{"sudo"}
)

// UsesSudo reports whether installing through pm goes through sudo for the
// current user.
func (pm PackageManager) UsesSudo() bool {
	return pm.needsRoot() && Exists("sudo") && !IsRoot()
}

// installArgs builds the install command line for pm. sudo is prepended for
// package managers that write system directories.
func installArgs(pm PackageManager, names []string, sudo []string) (string, []string) {
	var args []string
	switch pm {
	case PMBrew:
		args = append([]string{"brew", "install"}, names...)
	case PMApt:
		args = append([]string{"apt-get", "install", "-y"}, names...)
	case PMDnf:
		args = append([]string{"dnf", "install", "-y"}, names...)
	case PMPacman:
		args = append([]string{"pacman", "-S", "--noconfirm"}, names...)
	case PMApk:
		args = append([]string{"apk", "add"}, names...)
	case PMWinget:
		args = []string{"winget", "install", "-e", "--id", strings.Join(names, " "),
			"--silent", "--accept-source-agreements", "--accept-package-agreements"}
	case PMChoco:
		args = append(append([]string{"choco", "install"}, names...), "-y")
	case PMScoop:
		args = append([]string{"scoop", "install"}, names...)
	default:
		return "", nil
	}
	if len(sudo) > 0 && pm.needsRoot() {
		args = append(slices.Clone(sudo), args...)
	}
	return args[0], args[1:]
}

// IsPackageInstalled asks pm whether the package is already installed.
func IsPackageInstalled(pm PackageManager, name string) bool {
	cmd, args := queryArgs(pm, name)
	if cmd == "" {
		return false
	}
	return RunQuiet(cmd, args...) == nil
}

// queryArgs builds a command that exits 0 only when name is installed.
func queryArgs(pm PackageManager, name string) (string, []string) {
	switch pm {
	case PMBrew:
		return "brew", []string{"list", name}
	case PMApt:
		return "dpkg", []string{"-s", name}
	case PMDnf:
		return "rpm", []string{"-q", name}
	case PMPacman:
		return "pacman", []string{"-Q", name}
	case PMApk:
		return "apk", []string{"info", "-e", name}
	case PMWinget:
		return "winget", []string{"list", "-e", "--id", name, "--accept-source-agreements"}
	case PMChoco:
		return "choco", []string{"list", "-e", name, "--limit-output"}
	case PMScoop:
		return "scoop", []string{"prefix", name}
	}
	return "", nil
}

func (pm PackageManager) needsRoot() bool {
	switch pm {
	case PMApt, PMDnf, PMPacman, PMApk:
		return true
	}
	return false
}

// InstallHintForPM returns the appropriate install command string for user display.
func InstallHintForPM(pm PackageManager, name string) string {
	if pm == PMNone {
		switch runtime.GOOS {
		case "windows":
			return "winget install -e --id " + name
		case "darwin":
			return "brew install " + name
		}
		return "apt install " + name
	}
	var sudo []string
	if pm.UsesSudo() {
		sudo = sudoShown
	}
	cmd, args := installArgs(pm, []string{name}, sudo)
	if pm == PMWinget {
		args = args[:4]
	}
	return cmd + " " + strings.Join(args, " ")
}

// String returns the package manager name.
func (pm PackageManager) String() string {
	names := []string{"none", "brew", "apt", "dnf", "pacman", "apk", "winget", "choco", "scoop"}
	if int(pm) >= 0 && int(pm) < len(names) {
		return names[pm]
	}
	return fmt.Sprintf("PackageManager(%d)", pm)
}

// PMLabel returns a human-readable label for the package manager (e.g., "brew", "winget").
func PMLabel(pm PackageManager) string {
	switch pm {
	case PMBrew:
		return "Homebrew"
	case PMApt:
		return "apt"
	case PMDnf:
		return "dnf"
	case PMPacman:
		return "pacman"
	case PMApk:
		return "apk"
	case PMWinget:
		return "winget"
	case PMChoco:
		return "Chocolatey"
	case PMScoop:
		return "Scoop"
	default:
		return "system package manager"
	}
}
