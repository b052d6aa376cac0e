package platform

import (
	"strings"
	"testing"
)

func TestRestartArgs(t *testing.T) {
	tests := []struct {
		goos     string
		root     bool
		hasSudo  bool
		wantCmd  string
		wantArgs string
	}{
		{"windows", false, false, "shutdown", "/r /t 0"},
		{"linux", true, true, "shutdown", "-r now"},
		{"linux", false, true, "sudo", "shutdown -r now"},
		{"darwin", false, false, "shutdown", "-r now"},
	}
	for _, tt := range tests {
		cmd, args := restartArgs(tt.goos, tt.root, tt.hasSudo)
		if cmd != tt.wantCmd || strings.Join(args, " ") != tt.wantArgs {
			t.Errorf("restartArgs(%s, root=%v, sudo=%v) = %s %v", tt.goos, tt.root, tt.hasSudo, cmd, args)
		}
	}
}

func TestSudoValidateCommand(t *testing.T) {
	cmd := SudoValidateCommand()
	if got := strings.Join(cmd.Args, " "); got != "sudo -v" {
		t.Errorf("SudoValidateCommand() = %q, want %q", got, "sudo -v")
	}
}
