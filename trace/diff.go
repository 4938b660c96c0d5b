package trace

import "sort"

// ReturnChange reports a function whose set of return-value renderings
// differs between two traces.
type ReturnChange struct {
	Old []string `json:"old"`
	New []string `json:"new"`
}

// WatchChange reports a watched target whose assignment sequence differs; a
// side absent from its trace is null.
type WatchChange struct {
	Old []string `json:"old"`
	New []string `json:"new"`
}

// DiffReport is the structural difference between two event logs.
type DiffReport struct {
	AddedCalls     []Edge                  `json:"added_calls"`
	RemovedCalls   []Edge                  `json:"removed_calls"`
	ChangedReturns map[string]ReturnChange `json:"changed_returns"`
	WatchDiffs     map[string]WatchChange  `json:"watch_diffs"`
}

// Edge is a (caller, callee) pair induced by a trace: the top of the call
// stack at the moment the callee is entered.
type Edge [2]string

type traceProfile struct {
	edges   map[Edge]bool
	returns map[string][]string
	watches map[string][]string
}

// profileEvents replays a log once, reconstructing call edges from the
// call/return stack and collecting return values and watch assignments.
// Return events pop only when the stack top matches, which keeps the stack
// sane across abnormal terminations.
func profileEvents(events []Event) traceProfile {
	p := traceProfile{
		edges:   make(map[Edge]bool),
		returns: make(map[string][]string),
		watches: make(map[string][]string),
	}
	var stack []string
	for _, ev := range events {
		switch ev.Type {
		case EventCall:
			if len(stack) > 0 {
				p.edges[Edge{stack[len(stack)-1], ev.Func}] = true
			}
			stack = append(stack, ev.Func)
		case EventReturn:
			if len(stack) > 0 && stack[len(stack)-1] == ev.Func {
				stack = stack[:len(stack)-1]
			}
			p.returns[ev.Func] = append(p.returns[ev.Func], ev.Value)
		case EventAssign:
			p.watches[ev.Target] = append(p.watches[ev.Target], ev.Value)
		}
	}
	return p
}

// Diff compares two event logs: call edges present in one but not the
// other, functions whose return-value sets changed, and watched targets
// whose assignment sequences differ.
func Diff(oldEvents, newEvents []Event) DiffReport {
	oldProfile := profileEvents(oldEvents)
	newProfile := profileEvents(newEvents)

	report := DiffReport{
		AddedCalls:     edgeDifference(newProfile.edges, oldProfile.edges),
		RemovedCalls:   edgeDifference(oldProfile.edges, newProfile.edges),
		ChangedReturns: make(map[string]ReturnChange),
		WatchDiffs:     make(map[string]WatchChange),
	}

	for fn, oldValues := range oldProfile.returns {
		newValues, ok := newProfile.returns[fn]
		if ok && !equalAsSets(oldValues, newValues) {
			report.ChangedReturns[fn] = ReturnChange{Old: oldValues, New: newValues}
		}
	}

	for target, oldValues := range oldProfile.watches {
		newValues, ok := newProfile.watches[target]
		if !ok {
			report.WatchDiffs[target] = WatchChange{Old: oldValues, New: nil}
		} else if !equalOrdered(oldValues, newValues) {
			report.WatchDiffs[target] = WatchChange{Old: oldValues, New: newValues}
		}
	}
	for target, newValues := range newProfile.watches {
		if _, ok := oldProfile.watches[target]; !ok {
			report.WatchDiffs[target] = WatchChange{Old: nil, New: newValues}
		}
	}
	return report
}

func edgeDifference(have, subtract map[Edge]bool) []Edge {
	diff := []Edge{}
	for edge := range have {
		if !subtract[edge] {
			diff = append(diff, edge)
		}
	}
	sort.Slice(diff, func(i, j int) bool {
		if diff[i][0] != diff[j][0] {
			return diff[i][0] < diff[j][0]
		}
		return diff[i][1] < diff[j][1]
	})
	return diff
}

func equalAsSets(a, b []string) bool {
	setA := make(map[string]bool, len(a))
	for _, v := range a {
		setA[v] = true
	}
	setB := make(map[string]bool, len(b))
	for _, v := range b {
		setB[v] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for v := range setA {
		if !setB[v] {
			return false
		}
	}
	return true
}

func equalOrdered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
