package shim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameFQN(t *testing.T) {
	m := NewModule("__main__", "/tmp/demo.go")
	free := m.Enter("workflow")
	assert.Equal(t, "__main__.workflow", free.FQN())
	free.Exit(nil)

	user := m.Class("User")
	obj := user.New()
	method := m.EnterMethod("__init__", obj)
	assert.Equal(t, "__main__.User.__init__", method.FQN())
	assert.Same(t, obj, method.Locals()["self"])
	method.Exit(nil)

	// The module-body frame never takes a class qualifier.
	body := m.EnterMethod("<module>", obj)
	assert.Equal(t, "__main__.<module>", body.FQN())
	body.Exit(nil)
}

func TestClassRegistrationIdempotent(t *testing.T) {
	m := NewModule("mod.x", "/tmp/x.go")
	first := m.Class("Thing")
	second := m.Class("Thing")
	assert.Same(t, first, second)

	found, ok := m.LookupClass("Thing")
	require.True(t, ok)
	assert.Same(t, first, found)

	_, ok = m.LookupClass("Absent")
	assert.False(t, ok)
}

func TestSwapAndRestoreSetAttr(t *testing.T) {
	m := NewModule("mod.y", "/tmp/y.go")
	class := m.Class("Box")
	obj := class.New()

	var seen []string
	var prev SetAttrFunc
	prev = class.SwapSetAttr(func(o *Object, f *Frame, name string, value any) error {
		seen = append(seen, name)
		return prev(o, f, name, value)
	})

	obj.Set(nil, "size", 3)
	assert.Equal(t, []string{"size"}, seen)
	assert.Equal(t, 3, obj.Get("size"))

	class.RestoreSetAttr(prev)
	obj.Set(nil, "size", 4)
	assert.Equal(t, []string{"size"}, seen, "restored hook must not record")
	assert.Equal(t, 4, obj.Get("size"))
}

func TestSetAttrRejectionFallsBackToDefault(t *testing.T) {
	m := NewModule("mod.z", "/tmp/z.go")
	class := m.Class("Strict")
	obj := class.New()

	class.SwapSetAttr(func(*Object, *Frame, string, any) error {
		return assert.AnError
	})
	defer class.RestoreSetAttr(nil)

	obj.Set(nil, "field", "v")
	assert.Equal(t, "v", obj.Get("field"), "rejected write falls back to the default store")
}

func TestScriptRegistryLookup(t *testing.T) {
	RegisterScript("lab/sample.go", func(*Module) {})

	_, ok := LookupScript("lab/sample.go")
	assert.True(t, ok)
	_, ok = LookupScript("./lab/sample.go")
	assert.True(t, ok)
	_, ok = LookupScript("/abs/checkout/lab/sample.go")
	assert.True(t, ok)
	_, ok = LookupScript("lab/other.go")
	assert.False(t, ok)
}

func TestHookObservesFrames(t *testing.T) {
	recorder := &recordingHook{}
	SetHook(recorder)
	defer ClearHook()

	m := NewModule("mod.h", "/tmp/h.go")
	f := m.Enter("work")
	f.Exit(41)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, "mod.h.work", recorder.calls[0])
	require.Len(t, recorder.returns, 1)
	assert.Equal(t, 41, recorder.returns[0])
}

type recordingHook struct {
	calls   []string
	returns []any
}

func (h *recordingHook) OnCall(f *Frame)              { h.calls = append(h.calls, f.FQN()) }
func (h *recordingHook) OnReturn(_ *Frame, value any) { h.returns = append(h.returns, value) }

func TestRender(t *testing.T) {
	assert.Equal(t, "None", Render(nil))
	assert.Equal(t, "0", Render(0))
	assert.Equal(t, `"Al"`, Render("Al"))
	assert.Equal(t, "true", Render(true))
}
