package trace

import (
	"os"
	"path/filepath"
	"strings"
)

// HistoryEntry is one recorded assignment to a watched target.
type HistoryEntry struct {
	File  string `json:"file"`
	Line  int    `json:"line"`
	Func  string `json:"func"`
	Value string `json:"value"`
}

// WatchHistory extracts the assignment history for a watched target from an
// event log, preserving log order. File paths under the current working
// directory are displayed relative to it.
func WatchHistory(events []Event, target string) []HistoryEntry {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	var history []HistoryEntry
	for _, ev := range events {
		if ev.Type != EventAssign || ev.Target != target {
			continue
		}
		file := ev.File
		if file == "" {
			file = "<unknown>"
		} else if cwd != "" && strings.HasPrefix(file, cwd) {
			if rel, rerr := filepath.Rel(cwd, file); rerr == nil {
				file = rel
			}
		}
		fn := ev.Func
		if fn == "" {
			fn = "<unknown>"
		}
		history = append(history, HistoryEntry{
			File:  file,
			Line:  ev.Line,
			Func:  fn,
			Value: ev.Value,
		})
	}
	return history
}
