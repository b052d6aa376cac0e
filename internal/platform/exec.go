package platform

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Commands are started with exec.Command rather than exec.CommandContext:
// a cancelled install batch lets the current external process run to
// completion instead of killing a package manager halfway through.

// RunAttached runs cmd with the console's stdin, stdout and stderr so the
// command can prompt, e.g. for a sudo password.
func RunAttached(cmd *exec.Cmd) error {
	slog.Debug("exec", "cmd", cmd.String(), "attached", true)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Path, err)
	}
	return nil
}

// RunQuiet executes a command and discards stdout/stderr.
func RunQuiet(name string, args ...string) error {
	slog.Debug("exec", "cmd", name, "args", args)
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run()
}

// RunCapture executes a command and discards stdout. On failure the error
// carries the last line of stderr so it can be shown as a status message.
func RunCapture(name string, args ...string) error {
	slog.Debug("exec", "cmd", name, "args", args)
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if line := lastLine(stderr.String()); line != "" {
			return fmt.Errorf("%s: %w: %s", name, err, line)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output executes a command and returns its stdout as a trimmed string.
func Output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = nil
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

// Exists checks if a command exists in PATH.
func Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
