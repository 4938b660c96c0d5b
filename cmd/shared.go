package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mrakbook/whyx/graph"
)

// DefaultIndexFile is the index name probed in the working directory when
// no explicit index is given.
const DefaultIndexFile = ".whyx_index.json"

// printJSON pretty-prints a value to stdout.
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
}

// loadOrBuildIndex loads an existing index (the hint path, then
// ./.whyx_index.json) and falls back to building one from the project
// without persisting it.
func loadOrBuildIndex(indexHint, project string) (*graph.Index, error) {
	if indexHint != "" {
		if _, err := os.Stat(indexHint); err == nil {
			return graph.LoadIndex(indexHint)
		}
	}
	cwd, err := os.Getwd()
	if err == nil {
		fallback := filepath.Join(cwd, DefaultIndexFile)
		if _, statErr := os.Stat(fallback); statErr == nil {
			return graph.LoadIndex(fallback)
		}
	}
	if project == "" {
		project = "."
	}
	return graph.BuildIndex(project, graph.BuildOptions{})
}

// resolveOrReport resolves a user symbol against the index. On ambiguity it
// prints the candidate list (or a structured JSON error) and reports false.
func resolveOrReport(idx *graph.Index, symbol, role string, asJSON bool) (string, bool) {
	res := graph.ResolveSymbol(idx, symbol)
	switch res.Kind {
	case graph.Ambiguous:
		if asJSON {
			printJSON(map[string]any{
				"error":      "ambiguous",
				"input":      symbol,
				"candidates": res.Candidates,
			})
		} else {
			fmt.Printf("Ambiguous %s '%s'. Did you mean:\n", role, symbol)
			for _, c := range res.Candidates {
				fmt.Printf(" - %s\n", c)
			}
		}
		return "", false
	default:
		return res.FQN, true
	}
}

// noteResolved prints the resolution hint the way the query commands do.
func noteResolved(input, resolved string) {
	if input != resolved {
		color.New(color.Faint).Printf("(Resolved '%s' -> '%s')\n", input, resolved)
	}
}
