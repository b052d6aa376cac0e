package platform

import (
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are attached to a terminal
// whose size can be queried.
func IsInteractive() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	return err == nil && w > 0 && h > 0
}

// IsRoot reports whether the process runs with root privileges. Always false
// on Windows.
func IsRoot() bool {
	if runtime.GOOS == "windows" {
		return false
	}
	return os.Geteuid() == 0
}

// RestartCommand returns the command that reboots the machine immediately.
func RestartCommand() *exec.Cmd {
	name, args := restartArgs(runtime.GOOS, IsRoot(), Exists("sudo"))
	return exec.Command(name, args...)
}

func restartArgs(goos string, root, hasSudo bool) (string, []string) {
	if goos == "windows" {
		return "shutdown", []string{"/r", "/t", "0"}
	}
	if !root && hasSudo {
		return "sudo", []string{"shutdown", "-r", "now"}
	}
	return "shutdown", []string{"-r", "now"}
}

// SudoValidateCommand returns "sudo -v". Run attached to the terminal, it
// prompts for the password once and caches the credential so later
// "sudo -n" runs succeed without a terminal.
func SudoValidateCommand() *exec.Cmd {
	return exec.Command("sudo", "-v")
}

// SudoCached reports whether sudo would run now without a password.
func SudoCached() bool {
	return IsRoot() || RunQuiet("sudo", "-n", "-v") == nil
}
