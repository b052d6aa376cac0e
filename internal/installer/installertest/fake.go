// Package installertest provides a scriptable Installer for tests.
package installertest

import (
	"context"
	"sync"

	"github.com/lamchakchan/devtool-installer/internal/installer"
)

// Fake is an Installer whose behavior is set by its fields. It is safe for
// concurrent use.
type Fake struct {
	Desc installer.Info

	mu        sync.Mutex
	installed bool
	calls     int

	// InstallFunc runs inside Install. When nil, Install succeeds and marks
	// the fake installed.
	InstallFunc func(ctx context.Context, r installer.Reporter) error
	// PanicOnCheck makes IsInstalled panic.
	PanicOnCheck bool
	// Sudo is what NeedsSudo reports.
	Sudo bool
}

// New returns a fake with the given name and category.
func New(name string, cat installer.Category, deps ...string) *Fake {
	return &Fake{Desc: installer.Info{
		Name:         name,
		Category:     cat,
		Description:  name + " for tests",
		Dependencies: deps,
	}}
}

// Installed sets the initial installed state and returns f.
func (f *Fake) Installed(v bool) *Fake {
	f.mu.Lock()
	f.installed = v
	f.mu.Unlock()
	return f
}

// AlwaysRun marks the fake as a settings applier and returns f.
func (f *Fake) AlwaysRun() *Fake {
	f.Desc.AlwaysRun = true
	return f
}

// Calls returns how many times Install ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) Info() installer.Info { return f.Desc }

func (f *Fake) NeedsSudo() bool { return f.Sudo }

func (f *Fake) IsInstalled(context.Context) bool {
	if f.PanicOnCheck {
		panic("check exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installed
}

func (f *Fake) Install(ctx context.Context, r installer.Reporter) error {
	f.mu.Lock()
	f.calls++
	fn := f.InstallFunc
	f.mu.Unlock()

	r = installer.OrDiscard(r)
	if fn != nil {
		if err := fn(ctx, r); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.installed = true
	f.mu.Unlock()
	r.Success(f.Desc.Name + " installed")
	return nil
}

// Event is one recorded Reporter call.
type Event struct {
	Kind    string // status, progress, success, warning, error
	Text    string
	Percent int
}

// Recorder is a Reporter that keeps every call.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.Events = append(r.Events, e)
	r.mu.Unlock()
}

func (r *Recorder) Status(text string)  { r.add(Event{Kind: "status", Text: text}) }
func (r *Recorder) Progress(p int)      { r.add(Event{Kind: "progress", Percent: p}) }
func (r *Recorder) Success(text string) { r.add(Event{Kind: "success", Text: text}) }
func (r *Recorder) Warning(text string) { r.add(Event{Kind: "warning", Text: text}) }
func (r *Recorder) Error(text string)   { r.add(Event{Kind: "error", Text: text}) }

func (r *Recorder) StatusProgress(text string, p int) {
	r.add(Event{Kind: "status", Text: text, Percent: p})
}

// Kinds returns the recorded event kinds in order.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Kind
	}
	return out
}
