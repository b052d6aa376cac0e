package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

// Outcome is the state of one batch item.
type Outcome int

const (
	Pending   Outcome = iota // not attempted yet
	Running                  // install in progress
	Succeeded                // install returned nil
	Failed                   // install returned an error or panicked
	Blocked                  // a declared dependency is not installed
	Cancelled                // the batch was cancelled while this item ran
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Blocked:
		return "blocked"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Item is one tool in a batch.
type Item struct {
	Entry   *registry.Entry
	Outcome Outcome
	Err     error
	Unmet   []string // unmet dependency names when Blocked
}

// Name returns the tool's display name.
func (it *Item) Name() string { return it.Entry.Info().Name }

// Result is what running one item produced.
type Result struct {
	Outcome Outcome
	Err     error
	Unmet   []string
}

// PanicError wraps a value recovered from a panicking installer.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("installer panicked: %v", e.Value)
}

// Batch is an ordered set of tools installed one at a time. Only the owning
// goroutine calls Next, Record and Cancel; installers run elsewhere and hand
// their Result back to it.
type Batch struct {
	ID    string
	Items []*Item
	Force bool

	Succeeded int
	Failed    int
	Blocked   int

	current   int
	cancelled bool
}

func newBatch(id string, entries []*registry.Entry, force bool) *Batch {
	b := &Batch{ID: id, Force: force, current: -1}
	for _, e := range entries {
		b.Items = append(b.Items, &Item{Entry: e})
	}
	slog.Info("batch started", "batch", id, "items", len(b.Items), "force", force)
	return b
}

// Total returns the batch size.
func (b *Batch) Total() int { return len(b.Items) }

// Attempted returns how many items reached a counted outcome.
func (b *Batch) Attempted() int { return b.Succeeded + b.Failed + b.Blocked }

// Cancelled reports whether the batch was cancelled.
func (b *Batch) Cancelled() bool { return b.cancelled }

// Current returns the index of the item most recently handed out by Next,
// or -1 before the first call.
func (b *Batch) Current() int { return b.current }

// NeedsSudo reports whether any item not yet handed out wants sudo.
func (b *Batch) NeedsSudo() bool {
	for _, it := range b.Items[b.current+1:] {
		if installer.NeedsSudo(it.Entry.Installer) {
			return true
		}
	}
	return false
}

// Next marks the following item Running and returns its index. ok is false
// when the batch is cancelled or every item has been handed out.
func (b *Batch) Next() (idx int, item *Item, ok bool) {
	if b.cancelled || b.current+1 >= len(b.Items) {
		return -1, nil, false
	}
	b.current++
	it := b.Items[b.current]
	it.Outcome = Running
	return b.current, it, true
}

// Done reports whether no further item will run.
func (b *Batch) Done() bool {
	if b.cancelled {
		return true
	}
	if b.current+1 < len(b.Items) {
		return false
	}
	return b.current < 0 || b.Items[b.current].Outcome != Running
}

// Record stores the result for the item at idx and updates the counters.
// A Cancelled result also cancels the batch.
func (b *Batch) Record(idx int, res Result) {
	if idx < 0 || idx >= len(b.Items) {
		return
	}
	it := b.Items[idx]
	if it.Outcome != Running {
		return
	}
	wasDone := b.Done()
	it.Outcome = res.Outcome
	it.Err = res.Err
	it.Unmet = res.Unmet
	switch res.Outcome {
	case Succeeded:
		b.Succeeded++
	case Failed:
		b.Failed++
	case Blocked:
		b.Blocked++
	case Cancelled:
		b.cancelled = true
	}
	attrs := []any{"batch", b.ID, "tool", it.Name(), "outcome", res.Outcome.String()}
	if res.Err != nil {
		attrs = append(attrs, "err", res.Err)
	}
	if len(res.Unmet) > 0 {
		attrs = append(attrs, "unmet", res.Unmet)
	}
	slog.Info("batch item finished", attrs...)
	if !wasDone && b.Done() {
		b.logSummary()
	}
}

// Cancel stops the batch. Items not yet handed out are never attempted and
// are not counted. An item already running keeps its Running outcome until
// its result is recorded.
func (b *Batch) Cancel() {
	if b.cancelled {
		return
	}
	b.cancelled = true
	slog.Info("batch cancelled", "batch", b.ID)
	b.logSummary()
}

func (b *Batch) logSummary() {
	slog.Info("batch finished", "batch", b.ID,
		"succeeded", b.Succeeded, "failed", b.Failed, "blocked", b.Blocked,
		"total", b.Total(), "cancelled", b.cancelled)
}

// Run executes the remaining items synchronously. reporter returns the
// reporter for item i and may be nil; between is called after every item
// except the last and may be nil.
func (b *Batch) Run(ctx context.Context, cat Catalog, reporter func(i int, it *Item) installer.Reporter, between func()) {
	for {
		if ctx.Err() != nil {
			b.Cancel()
			return
		}
		idx, it, ok := b.Next()
		if !ok {
			return
		}
		var r installer.Reporter
		if reporter != nil {
			r = reporter(idx, it)
		}
		b.Record(idx, RunStep(ctx, cat, it.Entry.Installer, r))
		if between != nil && !b.Done() {
			between()
		}
	}
}

// RunStep installs one tool: it checks declared dependencies, then calls
// Install with panics recovered. It never panics and never returns an error;
// the outcome is in the Result.
func RunStep(ctx context.Context, cat Catalog, inst installer.Installer, r installer.Reporter) Result {
	r = installer.OrDiscard(r)
	info := inst.Info()

	if err := ctx.Err(); err != nil {
		return Result{Outcome: Cancelled, Err: err}
	}

	r.StatusProgress("Preparing installation...", 0)

	if unmet := UnmetDependencies(ctx, cat, info); len(unmet) > 0 {
		r.Error(fmt.Sprintf("%s requires %s to be installed first", info.Name, strings.Join(unmet, ", ")))
		return Result{Outcome: Blocked, Unmet: unmet}
	}

	err := safeInstall(ctx, inst, r)
	switch {
	case err == nil:
		r.Success(info.Name + " completed!")
		return Result{Outcome: Succeeded}
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		r.Warning("Installation cancelled!")
		return Result{Outcome: Cancelled, Err: err}
	default:
		r.Error(fmt.Sprintf("%s: %v", info.Name, err))
		return Result{Outcome: Failed, Err: err}
	}
}

// UnmetDependencies returns the declared dependencies of info that are
// registered but not installed. Only direct dependencies are checked. A
// dependency name the catalog does not know is treated as satisfied.
func UnmetDependencies(ctx context.Context, cat Catalog, info installer.Info) []string {
	var unmet []string
	for _, dep := range info.Dependencies {
		inst := cat.InstallerByName(dep)
		if inst == nil {
			slog.Warn("unknown dependency treated as satisfied", "tool", info.Name, "dependency", dep)
			continue
		}
		if !registry.IsInstalled(ctx, inst) {
			unmet = append(unmet, inst.Info().Name)
		}
	}
	return unmet
}

func safeInstall(ctx context.Context, inst installer.Installer, r installer.Reporter) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("installer panicked", "tool", inst.Info().Name, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
			err = &PanicError{Value: rec}
		}
	}()
	return inst.Install(ctx, r)
}
