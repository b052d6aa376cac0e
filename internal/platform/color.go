package platform

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// colorEnabled controls whether ANSI escape codes are emitted.
// Set once by InitColor().
var colorEnabled bool

// InitColor decides whether plain console output is colored. NO_COLOR,
// ACCESSIBLE=1, TERM=dumb and a redirected stdout all turn color off.
func InitColor() {
	colorEnabled = colorAllowed(os.Getenv) && term.IsTerminal(int(os.Stdout.Fd()))
}

func colorAllowed(getenv func(string) string) bool {
	switch {
	case getenv("NO_COLOR") != "":
		return false
	case getenv("ACCESSIBLE") == "1":
		return false
	case getenv("TERM") == "dumb":
		return false
	}
	return true
}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
)

func apply(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

func Bold(s string) string      { return apply(ansiBold, s) }
func Yellow(s string) string    { return apply(ansiYellow, s) }
func Cyan(s string) string      { return apply(ansiCyan, s) }
func BoldRed(s string) string   { return apply(ansiBold+ansiRed, s) }
func BoldGreen(s string) string { return apply(ansiBold+ansiGreen, s) }
func BoldBlue(s string) string  { return apply(ansiBold+ansiBlue, s) }
func BoldCyan(s string) string  { return apply(ansiBold+ansiCyan, s) }

// PrintBanner prints a bold cyan banner line: "\n=== title ===\n"
func PrintBanner(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", BoldCyan("=== "+title+" ==="))
}

// PrintSectionLabel prints a bold category label: "\n[label]\n"
func PrintSectionLabel(w io.Writer, label string) {
	fmt.Fprintf(w, "\n%s\n", Bold("["+label+"]"))
}

// PrintStep prints the position of a tool in a batch: "\n[n/total] label\n"
func PrintStep(w io.Writer, n, total int, label string) {
	fmt.Fprintf(w, "\n%s %s\n", BoldBlue(fmt.Sprintf("[%d/%d]", n, total)), label)
}

// PrintTag prints an indented status line with a bracketed tag colored by
// paint: "  [TAG] msg\n". A nil paint leaves the tag plain.
func PrintTag(w io.Writer, tag string, paint func(string) string, msg string) {
	t := "[" + tag + "]"
	if paint != nil {
		t = paint(t)
	}
	fmt.Fprintf(w, "  %s %s\n", t, msg)
}

func PrintOK(w io.Writer, msg string)   { PrintTag(w, "OK", BoldGreen, msg) }
func PrintFail(w io.Writer, msg string) { PrintTag(w, "FAIL", BoldRed, msg) }
func PrintWarn(w io.Writer, msg string) { PrintTag(w, "WARN", Yellow, msg) }
func PrintInfo(w io.Writer, msg string) { PrintTag(w, "INFO", nil, msg) }
