package installer

import (
	"fmt"
	"io"

	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// Reporter receives progress events from a running installer. Calls are
// fire-and-forget and may arrive in any order and any number of times.
type Reporter interface {
	Status(text string)
	Progress(percent int)
	StatusProgress(text string, percent int)
	Success(text string)
	Warning(text string)
	Error(text string)
}

type discard struct{}

func (discard) Status(string)              {}
func (discard) Progress(int)               {}
func (discard) StatusProgress(string, int) {}
func (discard) Success(string)             {}
func (discard) Warning(string)             {}
func (discard) Error(string)               {}

// Discard is a Reporter that drops every event.
var Discard Reporter = discard{}

// OrDiscard returns r, or Discard when r is nil.
func OrDiscard(r Reporter) Reporter {
	if r == nil {
		return Discard
	}
	return r
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// WriterReporter prints progress events as status lines. It is used when no
// interactive screen is available.
type WriterReporter struct {
	w       io.Writer
	lastPct int
}

// NewWriterReporter returns a reporter writing to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w, lastPct: -1}
}

func (r *WriterReporter) Status(text string) {
	platform.PrintInfo(r.w, text)
}

// Progress only prints on 10% boundaries to keep download output readable.
func (r *WriterReporter) Progress(percent int) {
	pct := ClampPercent(percent)
	step := pct / 10 * 10
	if step == r.lastPct {
		return
	}
	r.lastPct = step
	fmt.Fprintf(r.w, "  %3d%%\n", step)
}

func (r *WriterReporter) StatusProgress(text string, percent int) {
	r.Status(text)
	r.Progress(percent)
}

func (r *WriterReporter) Success(text string) {
	platform.PrintOK(r.w, text)
}

func (r *WriterReporter) Warning(text string) {
	platform.PrintWarn(r.w, text)
}

func (r *WriterReporter) Error(text string) {
	platform.PrintFail(r.w, text)
}

// Reset clears the progress throttle between items.
func (r *WriterReporter) Reset() {
	r.lastPct = -1
}
