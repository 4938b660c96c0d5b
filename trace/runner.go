package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mrakbook/whyx/trace/shim"
)

// DefaultTraceFile is the event-log name used when no output is requested.
const DefaultTraceFile = "whyx_trace.json"

// defaultIgnoredPrefixes excludes the tracer's own frames: no module whose
// name starts with one of these ever produces events or coverage entries.
var defaultIgnoredPrefixes = []string{"whyx"}

// Options selects which instruments a run combines. All three are optional;
// a run with none installs no hook at all.
type Options struct {
	Trace    bool
	Watch    []string
	Coverage bool
	// Output is the event-log path; empty means DefaultTraceFile in the
	// current directory.
	Output string
	// IgnoredPrefixes extends the tracer's self-exclusion list.
	IgnoredPrefixes []string
	// Stderr receives target-failure diagnostics; defaults to os.Stderr.
	Stderr io.Writer
}

// Summary is what a run reports back: where the log went, how many events
// were collected, and which top-level modules executed (coverage only).
type Summary struct {
	TraceFile  string   `json:"trace_file,omitempty"`
	EventCount int      `json:"event_count,omitempty"`
	Modules    []string `json:"modules,omitempty"`
}

// Runner executes one registered script under instrumentation. It
// implements shim.Hook for the duration of the run. Event appends are
// mutex-serialized because the target may report frames from multiple
// goroutines; readers only run after tear-down.
type Runner struct {
	opts     Options
	specs    []WatchSpec
	script   string // absolute target path
	stem     string // entry-module alias for watch specs
	prefixes []string

	mu       sync.Mutex
	events   []Event
	modules  map[string]bool
	pending  map[int]bool
	patched  []patchedClass
	attached map[*shim.Class][]attachedSpec
}

type patchedClass struct {
	class *shim.Class
	prev  shim.SetAttrFunc
}

type attachedSpec struct {
	attr   string
	target string
}

// NewRunner prepares a runner; watch specs are parsed up front and
// malformed ones dropped.
func NewRunner(opts Options) *Runner {
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	specs := ParseWatchList(opts.Watch)
	pending := make(map[int]bool, len(specs))
	for i := range specs {
		pending[i] = true
	}
	return &Runner{
		opts:     opts,
		specs:    specs,
		prefixes: append(append([]string{}, defaultIgnoredPrefixes...), opts.IgnoredPrefixes...),
		modules:  make(map[string]bool),
		pending:  pending,
		attached: make(map[*shim.Class][]attachedSpec),
	}
}

// Run executes the script registered under scriptPath with the configured
// instruments. A panic in the target is caught and reported as a one-line
// diagnostic; tear-down always restores class hooks and clears the global
// frame hook, and the event log is still written.
func (r *Runner) Run(scriptPath string) (Summary, error) {
	main, ok := shim.LookupScript(scriptPath)
	if !ok {
		return Summary{}, fmt.Errorf("no instrumented script registered for %s", scriptPath)
	}
	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		abs = scriptPath
	}
	r.script = abs
	r.stem = ScriptStem(scriptPath)

	active := r.opts.Trace || len(r.specs) > 0 || r.opts.Coverage
	if active {
		shim.SetHook(r)
	}

	func() {
		defer func() {
			if p := recover(); p != nil {
				fmt.Fprintf(r.opts.Stderr, "Error during execution: %v\n", p)
			}
		}()
		entry := shim.NewModule("__main__", abs)
		frame := entry.Enter("<module>")
		main(entry)
		frame.Exit(nil)
	}()

	r.teardown(active)
	return r.summarize()
}

// teardown restores every patched class hook and clears the global frame
// hook. It is safe to call more than once.
func (r *Runner) teardown(active bool) {
	r.mu.Lock()
	patched := r.patched
	r.patched = nil
	r.mu.Unlock()
	for _, p := range patched {
		p.class.RestoreSetAttr(p.prev)
	}
	if active {
		shim.ClearHook()
	}
}

func (r *Runner) summarize() (Summary, error) {
	var summary Summary
	if r.opts.Coverage {
		executed := make([]string, 0, len(r.modules))
		for mod := range r.modules {
			if mod == "" || strings.HasPrefix(mod, "whyx") {
				continue
			}
			executed = append(executed, mod)
		}
		sort.Strings(executed)
		summary.Modules = executed
	}
	if r.opts.Trace || len(r.specs) > 0 {
		output := r.opts.Output
		if output == "" {
			cwd, err := os.Getwd()
			if err != nil {
				cwd = "."
			}
			output = filepath.Join(cwd, DefaultTraceFile)
		}
		if err := WriteEvents(output, r.events); err != nil {
			fmt.Fprintf(r.opts.Stderr, "Error writing trace to %s: %v\n", output, err)
		} else {
			summary.TraceFile = output
			summary.EventCount = len(r.events)
		}
	}
	return summary, nil
}

// Events returns the collected log. Only meaningful after Run returns.
func (r *Runner) Events() []Event {
	return r.events
}

func (r *Runner) ignored(module string) bool {
	for _, prefix := range r.prefixes {
		if strings.HasPrefix(module, prefix) {
			return true
		}
	}
	return false
}

// OnCall implements shim.Hook.
func (r *Runner) OnCall(f *shim.Frame) {
	mod := f.Module().Name()
	if r.ignored(mod) {
		return
	}
	if len(r.specs) > 0 {
		r.tryAttach(f.Module())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fqn := f.FQN()
	if r.opts.Coverage {
		if top := topComponent(fqn); top != "" {
			r.modules[top] = true
		}
	}
	if r.opts.Trace {
		r.events = append(r.events, Event{Type: EventCall, Func: fqn})
	}
}

// OnReturn implements shim.Hook.
func (r *Runner) OnReturn(f *shim.Frame, value any) {
	if r.ignored(f.Module().Name()) {
		return
	}
	if !r.opts.Trace {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Type: EventReturn, Func: f.FQN(), Value: shim.Render(value)})
}

// tryAttach installs pending watchpoints whose module alias matches the
// observed module and whose class is defined on it. Installation is lazy:
// a spec stays pending until its module has been observed. The entry
// module ("__main__") additionally answers to the script's file stem, so
// users can watch demo.User.age for lab/demo.go.
func (r *Runner) tryAttach(module *shim.Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		return
	}

	aliases := map[string]bool{module.Name(): true}
	if module.Name() == "__main__" && module.File() == r.script {
		aliases[r.stem] = true
	}

	for idx := range r.pending {
		spec := r.specs[idx]
		if !aliases[spec.Module] {
			continue
		}
		class, ok := module.LookupClass(spec.Class)
		if !ok {
			continue
		}
		r.attachLocked(class, spec)
		delete(r.pending, idx)
	}
}

// attachLocked records the (attribute, canonical target) pair on the class
// and wraps its set-hook once. The wrapper appends an assign event for
// matching attributes, then delegates to the previous hook; if that hook
// rejects the write, the universal default store applies (the shim's Set
// handles the fallback).
func (r *Runner) attachLocked(class *shim.Class, spec WatchSpec) {
	entry := attachedSpec{attr: spec.Attr, target: spec.Target()}
	for _, existing := range r.attached[class] {
		if existing == entry {
			return
		}
	}
	alreadyPatched := len(r.attached[class]) > 0
	r.attached[class] = append(r.attached[class], entry)
	if alreadyPatched {
		return
	}

	var prev shim.SetAttrFunc
	prev = class.SwapSetAttr(func(obj *shim.Object, f *shim.Frame, name string, value any) error {
		r.recordAssign(class, f, name, value)
		return prev(obj, f, name, value)
	})
	r.patched = append(r.patched, patchedClass{class: class, prev: prev})
}

func (r *Runner) recordAssign(class *shim.Class, f *shim.Frame, name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range r.attached[class] {
		if spec.attr != name {
			continue
		}
		ev := Event{
			Type:   EventAssign,
			Target: spec.target,
			Func:   "<unknown>",
			File:   "<unknown>",
			Value:  shim.Render(value),
		}
		if f != nil {
			ev.Func = f.FQN()
			ev.File = f.File()
			ev.Line = f.Line()
		}
		r.events = append(r.events, ev)
	}
}

func topComponent(fqn string) string {
	if i := strings.Index(fqn, "."); i >= 0 {
		return fqn[:i]
	}
	return fqn
}

// Run is the package-level convenience used by the CLI: build a runner,
// execute, and return its summary.
func Run(scriptPath string, opts Options) (Summary, error) {
	return NewRunner(opts).Run(scriptPath)
}
