package trace

import (
	"sort"
	"strings"
)

// syntheticModules never show up in coverage reports: the interpreter's
// entry pseudo-module and the builtin namespace.
var syntheticModules = map[string]bool{
	"__main__": true,
	"builtins": true,
}

// ModuleCalls is a per-module call tally.
type ModuleCalls struct {
	Module string `json:"module"`
	Calls  int    `json:"calls"`
}

// CoverageReport tallies call events per top-level module, excluding the
// tracer's own package and the synthetic pseudo-modules, ranked by count
// descending with names breaking ties. A positive top truncates the
// ranking. Note the run summary keeps "__main__"; only this report
// suppresses it.
func CoverageReport(events []Event, top int) []ModuleCalls {
	counts := make(map[string]int)
	for _, ev := range events {
		if ev.Type != EventCall {
			continue
		}
		mod := topComponent(ev.Func)
		if mod == "" || strings.HasPrefix(mod, "whyx") || syntheticModules[mod] {
			continue
		}
		counts[mod]++
	}

	ranked := make([]ModuleCalls, 0, len(counts))
	for mod, n := range counts {
		ranked = append(ranked, ModuleCalls{Module: mod, Calls: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Calls != ranked[j].Calls {
			return ranked[i].Calls > ranked[j].Calls
		}
		return ranked[i].Module < ranked[j].Module
	})
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	return ranked
}
