package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchHistory_PreservesOrder(t *testing.T) {
	events := []Event{
		{Type: EventAssign, Target: "demo.User.age", Func: "__main__.User.__init__", File: "/tmp/demo.go", Line: 3, Value: "0"},
		{Type: EventCall, Func: "__main__.increment"},
		{Type: EventAssign, Target: "demo.User.age", Func: "__main__.increment", File: "/tmp/demo.go", Line: 7, Value: "2"},
		{Type: EventAssign, Target: "other.Thing.size", Func: "__main__.resize", File: "/tmp/demo.go", Line: 9, Value: "1"},
	}

	history := WatchHistory(events, "demo.User.age")
	require.Len(t, history, 2)
	assert.Equal(t, "0", history[0].Value)
	assert.Equal(t, "2", history[1].Value)
	assert.Equal(t, "__main__.increment", history[1].Func)
	assert.Equal(t, 7, history[1].Line)
}

func TestWatchHistory_RelativizesPathsUnderCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	events := []Event{
		{Type: EventAssign, Target: "demo.User.age", Func: "f", File: filepath.Join(cwd, "lab", "demo.go"), Line: 1, Value: "0"},
		{Type: EventAssign, Target: "demo.User.age", Func: "f", File: "/elsewhere/demo.go", Line: 2, Value: "2"},
	}

	history := WatchHistory(events, "demo.User.age")
	require.Len(t, history, 2)
	assert.Equal(t, filepath.Join("lab", "demo.go"), history[0].File)
	assert.Equal(t, "/elsewhere/demo.go", history[1].File)
}

func TestWatchHistory_UnknownTarget(t *testing.T) {
	events := []Event{{Type: EventAssign, Target: "demo.User.age", Value: "0"}}
	assert.Empty(t, WatchHistory(events, "demo.User.name"))
}
