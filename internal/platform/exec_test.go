package platform

import (
	"os/exec"
	"strings"
	"testing"
)

func TestRunAttached(t *testing.T) {
	if err := RunAttached(exec.Command("true")); err != nil {
		t.Errorf("RunAttached(true) error = %v", err)
	}
	err := RunAttached(exec.Command("false"))
	if err == nil {
		t.Fatal("RunAttached(false) expected error")
	}
	if !strings.Contains(err.Error(), "false") {
		t.Errorf("error = %q, want command path", err.Error())
	}
}

func TestRunQuiet_Success(t *testing.T) {
	err := RunQuiet("true")
	if err != nil {
		t.Errorf("RunQuiet(true) error = %v", err)
	}
}

func TestRunQuiet_Failure(t *testing.T) {
	err := RunQuiet("false")
	if err == nil {
		t.Error("RunQuiet(false) expected error")
	}
}

func TestOutput(t *testing.T) {
	out, err := Output("echo", "hello world")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out != "hello world" {
		t.Errorf("Output() = %q, want %q", out, "hello world")
	}
}

func TestOutput_TrimsWhitespace(t *testing.T) {
	out, err := Output("printf", "  padded  \n")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out != "padded" {
		t.Errorf("Output() = %q, want %q", out, "padded")
	}
}

func TestOutput_CommandNotFound(t *testing.T) {
	_, err := Output("nonexistent_command_xyz_12345")
	if err == nil {
		t.Error("Output() expected error for nonexistent command")
	}
}

func TestOutput_NonZeroExit(t *testing.T) {
	_, err := Output("false")
	if err == nil {
		t.Error("Output(false) expected error")
	}
}

func TestExists(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{"sh exists", "sh", true},
		{"echo exists", "echo", true},
		{"nonexistent command", "nonexistent_command_xyz_12345", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exists(tt.command)
			if got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestRunCapture_Success(t *testing.T) {
	if err := RunCapture("true"); err != nil {
		t.Errorf("RunCapture(true) error = %v", err)
	}
}

func TestRunCapture_IncludesStderr(t *testing.T) {
	err := RunCapture("sh", "-c", "echo first >&2; echo 'package not found' >&2; exit 3")
	if err == nil {
		t.Fatal("RunCapture() expected error")
	}
	if !strings.Contains(err.Error(), "package not found") {
		t.Errorf("error = %q, want last stderr line", err.Error())
	}
	if strings.Contains(err.Error(), "first") {
		t.Errorf("error = %q, should only carry the last stderr line", err.Error())
	}
}

func TestRunCapture_NoStderr(t *testing.T) {
	err := RunCapture("false")
	if err == nil {
		t.Fatal("RunCapture(false) expected error")
	}
	if !strings.HasPrefix(err.Error(), "false: ") {
		t.Errorf("error = %q, want command name prefix", err.Error())
	}
}
