package trace

import (
	"path/filepath"
	"strings"
)

// WatchSpec names one attribute to watch: module alias, class and
// attribute, parsed from the user string "module.Class.attr".
type WatchSpec struct {
	Module string
	Class  string
	Attr   string
}

// Target is the canonical watched-target name recorded on assign events.
func (w WatchSpec) Target() string {
	return w.Module + "." + w.Class + "." + w.Attr
}

// ParseWatchList parses watch strings by splitting on the last two dots.
// Strings with fewer than three components are malformed and silently
// skipped; the corresponding watch simply never attaches.
func ParseWatchList(watches []string) []WatchSpec {
	var specs []WatchSpec
	for _, watch := range watches {
		last := strings.LastIndex(watch, ".")
		if last <= 0 {
			continue
		}
		mid := strings.LastIndex(watch[:last], ".")
		if mid <= 0 {
			continue
		}
		specs = append(specs, WatchSpec{
			Module: watch[:mid],
			Class:  watch[mid+1:last],
			Attr:   watch[last+1:],
		})
	}
	return specs
}

// ScriptStem is the module alias derived from a script path: the file name
// without extension (lab/demo.go -> "demo"). Users watch the entry module
// under this alias.
func ScriptStem(scriptPath string) string {
	base := filepath.Base(scriptPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "__main__"
	}
	return stem
}
