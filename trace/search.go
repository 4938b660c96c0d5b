package trace

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Match pairs an event with its position in the input log.
type Match struct {
	Index int   `json:"index"`
	Event Event `json:"event"`
}

// Search scans a log once and returns every event whose canonical JSON form
// contains pattern, case-insensitively. When eventType is non-empty only
// events of that type are considered.
func Search(events []Event, pattern, eventType string) []Match {
	needle := strings.ToLower(pattern)
	var matches []Match
	for i, ev := range events {
		if eventType != "" && ev.Type != eventType {
			continue
		}
		blob, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(blob)), needle) {
			matches = append(matches, Match{Index: i, Event: ev})
		}
	}
	return matches
}

// Filter evaluates a boolean expression against every event and returns the
// matches. The expression sees type, func, target, value, file, line and
// index, e.g.:
//
//	type == "call" && func contains "workflow"
//
// The expression is compiled once; a non-boolean result is an error.
func Filter(events []Event, expression string) ([]Match, error) {
	program, err := expr.Compile(expression, expr.Env(eventEnv(Event{}, 0)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter: %w", err)
	}
	var matches []Match
	for i, ev := range events {
		keep, err := runFilter(program, ev, i)
		if err != nil {
			return nil, fmt.Errorf("evaluating filter on event %d: %w", i, err)
		}
		if keep {
			matches = append(matches, Match{Index: i, Event: ev})
		}
	}
	return matches, nil
}

func runFilter(program *vm.Program, ev Event, index int) (bool, error) {
	output, err := expr.Run(program, eventEnv(ev, index))
	if err != nil {
		return false, err
	}
	keep, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter did not evaluate to a boolean")
	}
	return keep, nil
}

func eventEnv(ev Event, index int) map[string]any {
	return map[string]any{
		"type":   ev.Type,
		"func":   ev.Func,
		"target": ev.Target,
		"value":  ev.Value,
		"file":   ev.File,
		"line":   ev.Line,
		"index":  index,
	}
}
