// Package shim is the small instrumentation surface that traced programs
// link against. Go has no per-frame interpreter hook and no runtime class
// patching, so a target program reports its own frames and attribute stores
// through this package: functions open a Frame on entry and close it on
// return, and object attribute writes route through the owning Class's
// swappable set-hook. The tracer installs a process-wide Hook for the
// duration of a run and swaps class set-hooks for watchpoints; both are
// restored on tear-down.
package shim

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Hook observes frame enter/leave events. Exactly one hook can be active at
// a time; see SetHook.
type Hook interface {
	OnCall(f *Frame)
	OnReturn(f *Frame, value any)
}

// ScriptMain is the entry point of a registered instrumented script. The
// runner invokes it with the entry module, whose name is "__main__" so
// targets can gate main-only behavior on m.Name().
type ScriptMain func(m *Module)

var (
	mu      sync.RWMutex
	hook    Hook
	modules = make(map[string]*Module)
	scripts = make(map[string]ScriptMain)
)

// SetHook installs the process-wide frame hook. The previous hook is
// returned so callers can restore it.
func SetHook(h Hook) Hook {
	mu.Lock()
	defer mu.Unlock()
	prev := hook
	hook = h
	return prev
}

// ClearHook uninstalls the process-wide frame hook.
func ClearHook() {
	mu.Lock()
	defer mu.Unlock()
	hook = nil
}

func activeHook() Hook {
	mu.RLock()
	defer mu.RUnlock()
	return hook
}

// RegisterScript binds an instrumented entry point to a script path. Paths
// are stored slash-separated; LookupScript matches them exactly or as a
// path suffix, so both "lab/demo.go" and an absolute path resolve.
func RegisterScript(path string, main ScriptMain) {
	mu.Lock()
	defer mu.Unlock()
	scripts[normalizePath(path)] = main
}

// LookupScript resolves a script path to its registered entry point.
func LookupScript(path string) (ScriptMain, bool) {
	mu.RLock()
	defer mu.RUnlock()
	normalized := normalizePath(path)
	if main, ok := scripts[normalized]; ok {
		return main, true
	}
	for key, main := range scripts {
		if strings.HasSuffix(normalized, "/"+key) {
			return main, true
		}
	}
	return nil, false
}

// LookupModule returns the most recently registered module with the given
// runtime name.
func LookupModule(name string) (*Module, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := modules[name]
	return m, ok
}

func normalizePath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "./")
}

// Module is a runtime module handle. The tracer assigns the entry module
// the name "__main__"; library modules register under their dotted names.
type Module struct {
	name string
	file string

	classMu sync.Mutex
	classes map[string]*Class
}

// NewModule creates and globally registers a module handle.
func NewModule(name, file string) *Module {
	m := &Module{
		name:    name,
		file:    file,
		classes: make(map[string]*Class),
	}
	mu.Lock()
	modules[name] = m
	mu.Unlock()
	return m
}

func (m *Module) Name() string { return m.name }
func (m *Module) File() string { return m.file }

// Class returns the module's class with the given name, creating and
// registering it on first use.
func (m *Module) Class(name string) *Class {
	m.classMu.Lock()
	defer m.classMu.Unlock()
	if c, ok := m.classes[name]; ok {
		return c
	}
	c := &Class{module: m, name: name, setattr: defaultSetAttr}
	m.classes[name] = c
	return c
}

// LookupClass returns a class previously defined on the module, if any.
func (m *Module) LookupClass(name string) (*Class, bool) {
	m.classMu.Lock()
	defer m.classMu.Unlock()
	c, ok := m.classes[name]
	return c, ok
}

// Enter opens a frame for a free function (or the module body, by
// convention named "<module>") and reports it to the active hook. The
// caller's file and line are captured for assignment attribution.
func (m *Module) Enter(fn string) *Frame {
	return m.enter(fn, nil)
}

// EnterMethod opens a frame that carries a self local, so the frame's
// qualified name includes the receiver's class.
func (m *Module) EnterMethod(fn string, self *Object) *Frame {
	return m.enter(fn, self)
}

func (m *Module) enter(fn string, self *Object) *Frame {
	file, line := m.file, 0
	if _, callerFile, callerLine, ok := runtime.Caller(2); ok {
		file, line = callerFile, callerLine
	}
	f := &Frame{module: m, fn: fn, file: file, line: line}
	f.locals = map[string]any{}
	if self != nil {
		f.locals["self"] = self
		f.self = self
	}
	if h := activeHook(); h != nil {
		h.OnCall(f)
	}
	return f
}

// Frame is one live activation of an instrumented function. It exposes the
// inspector surface the tracer needs: module name, function name, locals,
// file and line.
type Frame struct {
	module *Module
	fn     string
	self   *Object
	locals map[string]any
	file   string
	line   int
}

func (f *Frame) Module() *Module        { return f.module }
func (f *Frame) Function() string       { return f.fn }
func (f *Frame) Locals() map[string]any { return f.locals }
func (f *Frame) File() string           { return f.file }
func (f *Frame) Line() int              { return f.line }

// FQN is the frame's fully qualified name: module.Class.func when the frame
// holds a self local and is not the module-body frame, module.func
// otherwise.
func (f *Frame) FQN() string {
	if f.self != nil && f.fn != "<module>" {
		return f.module.name + "." + f.self.class.name + "." + f.fn
	}
	return f.module.name + "." + f.fn
}

// Exit closes the frame, reporting the return value to the active hook.
func (f *Frame) Exit(value any) {
	if h := activeHook(); h != nil {
		h.OnReturn(f, value)
	}
}

// SetAttrFunc is a class's attribute-assignment hook. A non-nil error means
// the hook rejected the write; callers fall back to the universal default.
type SetAttrFunc func(obj *Object, f *Frame, name string, value any) error

func defaultSetAttr(obj *Object, _ *Frame, name string, value any) error {
	obj.attrs[name] = value
	return nil
}

// Class is a runtime class handle with a swappable attribute-set hook. The
// hook is process-global per class; watchpoint installers swap it for the
// duration of a run and must restore it afterwards.
type Class struct {
	module *Module
	name   string

	hookMu  sync.Mutex
	setattr SetAttrFunc
}

func (c *Class) Name() string { return c.name }

// QualifiedName is module.Class.
func (c *Class) QualifiedName() string { return c.module.name + "." + c.name }

// New creates an instance with an empty attribute map. Initialization is
// the target program's business (its __init__-equivalent frame).
func (c *Class) New() *Object {
	return &Object{class: c, attrs: make(map[string]any)}
}

// SwapSetAttr replaces the class's set-hook and returns the previous one.
func (c *Class) SwapSetAttr(fn SetAttrFunc) SetAttrFunc {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	prev := c.setattr
	c.setattr = fn
	return prev
}

// RestoreSetAttr reinstates a previously swapped-out hook; nil restores the
// universal default.
func (c *Class) RestoreSetAttr(fn SetAttrFunc) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	if fn == nil {
		fn = defaultSetAttr
	}
	c.setattr = fn
}

// CurrentSetAttr returns the class's active set-hook.
func (c *Class) CurrentSetAttr() SetAttrFunc {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	return c.setattr
}

// Object is an instance of a Class with a plain attribute map.
type Object struct {
	class *Class

	attrMu sync.Mutex
	attrs  map[string]any
}

func (o *Object) Class() *Class { return o.class }

// Get reads an attribute; missing attributes read as nil.
func (o *Object) Get(name string) any {
	o.attrMu.Lock()
	defer o.attrMu.Unlock()
	return o.attrs[name]
}

// Set routes an attribute write through the class's current set-hook. The
// frame identifies the assigning function for watchpoint attribution. If
// the hook rejects the write, the universal default store applies.
func (o *Object) Set(f *Frame, name string, value any) {
	setattr := o.class.CurrentSetAttr()
	o.attrMu.Lock()
	defer o.attrMu.Unlock()
	if err := setattr(o, f, name, value); err != nil {
		o.attrs[name] = value
	}
}

// Render produces the human-readable string form of a runtime value used in
// return and assign events. It never panics; unrenderable values yield a
// sentinel.
func Render(value any) (rendered string) {
	defer func() {
		if recover() != nil {
			rendered = "<unrenderable>"
		}
	}()
	switch v := value.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
