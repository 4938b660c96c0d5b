package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callEvent(fn string) Event        { return Event{Type: EventCall, Func: fn} }
func returnEvent(fn, val string) Event { return Event{Type: EventReturn, Func: fn, Value: val} }

func assignEvent(target, val string) Event {
	return Event{Type: EventAssign, Target: target, Value: val}
}

func TestDiff_AddedAndRemovedCalls(t *testing.T) {
	oldEvents := []Event{
		callEvent("m.run"),
		callEvent("m.a"),
		returnEvent("m.a", "None"),
		returnEvent("m.run", "None"),
	}
	newEvents := []Event{
		callEvent("m.run"),
		callEvent("m.b"),
		returnEvent("m.b", "None"),
		returnEvent("m.run", "None"),
	}

	report := Diff(oldEvents, newEvents)
	assert.Equal(t, []Edge{{"m.run", "m.b"}}, report.AddedCalls)
	assert.Equal(t, []Edge{{"m.run", "m.a"}}, report.RemovedCalls)
}

func TestDiff_Symmetry(t *testing.T) {
	// added(A,B) == removed(B,A) for any pair of logs.
	a := []Event{callEvent("m.run"), callEvent("m.x"), returnEvent("m.x", "1"), returnEvent("m.run", "None")}
	b := []Event{callEvent("m.run"), callEvent("m.y"), returnEvent("m.y", "2"), returnEvent("m.run", "None")}

	forward := Diff(a, b)
	backward := Diff(b, a)
	assert.Equal(t, forward.AddedCalls, backward.RemovedCalls)
	assert.Equal(t, forward.RemovedCalls, backward.AddedCalls)
}

func TestDiff_ChangedReturnsComparedAsSets(t *testing.T) {
	oldEvents := []Event{
		callEvent("m.f"), returnEvent("m.f", "1"),
		callEvent("m.f"), returnEvent("m.f", "2"),
	}
	sameSetDifferentOrder := []Event{
		callEvent("m.f"), returnEvent("m.f", "2"),
		callEvent("m.f"), returnEvent("m.f", "1"),
	}
	changed := []Event{
		callEvent("m.f"), returnEvent("m.f", "1"),
		callEvent("m.f"), returnEvent("m.f", "3"),
	}

	assert.Empty(t, Diff(oldEvents, sameSetDifferentOrder).ChangedReturns)

	report := Diff(oldEvents, changed)
	require.Contains(t, report.ChangedReturns, "m.f")
	assert.Equal(t, []string{"1", "2"}, report.ChangedReturns["m.f"].Old)
	assert.Equal(t, []string{"1", "3"}, report.ChangedReturns["m.f"].New)
}

func TestDiff_WatchDiffs(t *testing.T) {
	// v1 records one age assignment beyond init, v2 records two: the diff
	// reports the target with a strictly longer new sequence.
	v1 := []Event{
		assignEvent("demo.Person.age", "0"),
		assignEvent("demo.Person.age", "1"),
	}
	v2 := []Event{
		assignEvent("demo.Person.age", "0"),
		assignEvent("demo.Person.age", "1"),
		assignEvent("demo.Person.age", "2"),
	}

	report := Diff(v1, v2)
	require.Contains(t, report.WatchDiffs, "demo.Person.age")
	change := report.WatchDiffs["demo.Person.age"]
	assert.Greater(t, len(change.New), len(change.Old))
}

func TestDiff_WatchAbsentSideIsNull(t *testing.T) {
	withWatch := []Event{assignEvent("demo.User.age", "0")}

	report := Diff(withWatch, nil)
	require.Contains(t, report.WatchDiffs, "demo.User.age")
	assert.Equal(t, []string{"0"}, report.WatchDiffs["demo.User.age"].Old)
	assert.Nil(t, report.WatchDiffs["demo.User.age"].New)

	reverse := Diff(nil, withWatch)
	require.Contains(t, reverse.WatchDiffs, "demo.User.age")
	assert.Nil(t, reverse.WatchDiffs["demo.User.age"].Old)
}

func TestDiff_IdenticalWatchSequencesNotReported(t *testing.T) {
	events := []Event{assignEvent("demo.User.age", "0"), assignEvent("demo.User.age", "2")}
	assert.Empty(t, Diff(events, events).WatchDiffs)
}

func TestProfileEvents_UnbalancedReturnDoesNotPop(t *testing.T) {
	// A return whose name does not match the stack top leaves the stack
	// alone, so edges after abnormal termination stay attributed.
	events := []Event{
		callEvent("m.outer"),
		returnEvent("m.other", "None"),
		callEvent("m.inner"),
	}
	p := profileEvents(events)
	assert.True(t, p.edges[Edge{"m.outer", "m.inner"}])
}
