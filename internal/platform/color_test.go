package platform

import (
	"bytes"
	"testing"
)

func withColor(t *testing.T, on bool) {
	t.Helper()
	prev := colorEnabled
	colorEnabled = on
	t.Cleanup(func() { colorEnabled = prev })
}

func TestColorAllowed(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"plain terminal", map[string]string{"TERM": "xterm-256color"}, true},
		{"no color", map[string]string{"NO_COLOR": "1"}, false},
		{"accessible", map[string]string{"ACCESSIBLE": "1"}, false},
		{"accessible other value", map[string]string{"ACCESSIBLE": "yes"}, true},
		{"dumb terminal", map[string]string{"TERM": "dumb"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := colorAllowed(func(k string) string { return tt.env[k] })
			if got != tt.want {
				t.Errorf("colorAllowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitColorNoColor(t *testing.T) {
	withColor(t, true)
	t.Setenv("NO_COLOR", "1")
	InitColor()
	if colorEnabled {
		t.Error("colorEnabled should be false when NO_COLOR is set")
	}
}

func TestColorFunctions(t *testing.T) {
	withColor(t, true)
	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"Bold", Bold, "\033[1mtext\033[0m"},
		{"Yellow", Yellow, "\033[33mtext\033[0m"},
		{"Cyan", Cyan, "\033[36mtext\033[0m"},
		{"BoldRed", BoldRed, "\033[1m\033[31mtext\033[0m"},
		{"BoldGreen", BoldGreen, "\033[1m\033[32mtext\033[0m"},
		{"BoldBlue", BoldBlue, "\033[1m\033[34mtext\033[0m"},
		{"BoldCyan", BoldCyan, "\033[1m\033[36mtext\033[0m"},
	}
	for _, tt := range tests {
		if got := tt.fn("text"); got != tt.want {
			t.Errorf("%s(text) = %q, want %q", tt.name, got, tt.want)
		}
	}

	colorEnabled = false
	for _, tt := range tests {
		if got := tt.fn("text"); got != "text" {
			t.Errorf("%s(text) without color = %q", tt.name, got)
		}
	}
}

func TestPrintHelpers(t *testing.T) {
	withColor(t, false)
	tests := []struct {
		name  string
		print func(*bytes.Buffer)
		want  string
	}{
		{"banner", func(b *bytes.Buffer) { PrintBanner(b, "Summary") }, "\n=== Summary ===\n"},
		{"label", func(b *bytes.Buffer) { PrintSectionLabel(b, "Python Development") }, "\n[Python Development]\n"},
		{"step", func(b *bytes.Buffer) { PrintStep(b, 2, 5, "Node.js") }, "\n[2/5] Node.js\n"},
		{"ok", func(b *bytes.Buffer) { PrintOK(b, "Git installed") }, "  [OK] Git installed\n"},
		{"fail", func(b *bytes.Buffer) { PrintFail(b, "exit status 1") }, "  [FAIL] exit status 1\n"},
		{"warn", func(b *bytes.Buffer) { PrintWarn(b, "PATH not updated") }, "  [WARN] PATH not updated\n"},
		{"info", func(b *bytes.Buffer) { PrintInfo(b, "Downloading") }, "  [INFO] Downloading\n"},
		{"tag", func(b *bytes.Buffer) { PrintTag(b, "MISSING", BoldRed, "pip") }, "  [MISSING] pip\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.print(&buf)
		if buf.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, buf.String(), tt.want)
		}
	}
}

func TestPrintColored(t *testing.T) {
	withColor(t, true)
	var buf bytes.Buffer
	PrintStep(&buf, 1, 3, "Python")
	if want := "\n\033[1m\033[34m[1/3]\033[0m Python\n"; buf.String() != want {
		t.Errorf("PrintStep colored = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	PrintInfo(&buf, "Checking")
	if buf.String() != "  [INFO] Checking\n" {
		t.Errorf("PrintInfo should stay plain, got %q", buf.String())
	}
}
