package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/graph"
	"github.com/mrakbook/whyx/trace"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the static index or a recorded trace",
}

var queryCallersCmd = &cobra.Command{
	Use:   "callers <function>",
	Short: "Show caller chains leading to a function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.QueryCommand)
		idx, err := loadOrBuildIndex(cmd.Flag("index").Value.String(), cmd.Flag("project").Value.String())
		if err != nil {
			return err
		}
		asJSON := jsonMode(cmd)
		target, ok := resolveOrReport(idx, args[0], "function", asJSON)
		if !ok {
			return nil
		}
		maxDepth, _ := cmd.Flags().GetInt("max-depth") //nolint:all
		limit, _ := cmd.Flags().GetInt("limit")        //nolint:all

		chains := graph.BuildCallMaps(idx).CallerPaths(target, limit, maxDepth)
		if asJSON {
			printJSON(map[string]any{"target": args[0], "resolved": target, "chains": chains})
			return nil
		}
		noteResolved(args[0], target)
		if len(chains) == 0 {
			fmt.Printf("No callers found for %s.\n", target)
			return nil
		}
		fmt.Printf("%s is called by:\n", target)
		for _, chain := range chains {
			fmt.Println(" - " + strings.Join(chain, " -> "))
		}
		return nil
	},
}

var queryCalleesCmd = &cobra.Command{
	Use:   "callees <function>",
	Short: "Show what a function calls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.QueryCommand)
		idx, err := loadOrBuildIndex(cmd.Flag("index").Value.String(), cmd.Flag("project").Value.String())
		if err != nil {
			return err
		}
		asJSON := jsonMode(cmd)
		target, ok := resolveOrReport(idx, args[0], "function", asJSON)
		if !ok {
			return nil
		}
		transitive, _ := cmd.Flags().GetBool("transitive") //nolint:all
		maxDepth, _ := cmd.Flags().GetInt("max-depth")     //nolint:all

		maps := graph.BuildCallMaps(idx)
		var result []string
		if transitive {
			result = maps.TransitiveCallees(target, maxDepth)
		} else {
			result = maps.DirectCallees(target)
		}
		if asJSON {
			printJSON(map[string]any{
				"target":     args[0],
				"resolved":   target,
				"callees":    result,
				"transitive": transitive,
			})
			return nil
		}
		noteResolved(args[0], target)
		if len(result) == 0 {
			if transitive {
				fmt.Printf("No transitive callees found for %s.\n", target)
			} else {
				fmt.Printf("%s does not call any other functions directly.\n", target)
			}
			return nil
		}
		header := "directly calls"
		if transitive {
			header = "transitively calls"
		}
		fmt.Printf("%s %s:\n", target, header)
		for _, callee := range result {
			fmt.Printf(" - %s\n", callee)
		}
		return nil
	},
}

var queryFindPathCmd = &cobra.Command{
	Use:   "find-path",
	Short: "Find call paths between two functions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		analytics.ReportEvent(analytics.QueryCommand)
		idx, err := loadOrBuildIndex(cmd.Flag("index").Value.String(), cmd.Flag("project").Value.String())
		if err != nil {
			return err
		}
		asJSON := jsonMode(cmd)
		srcIn := cmd.Flag("from").Value.String()
		tgtIn := cmd.Flag("to").Value.String()
		if srcIn == "" || tgtIn == "" {
			return fmt.Errorf("both --from and --to are required")
		}

		srcRes := graph.ResolveSymbol(idx, srcIn)
		tgtRes := graph.ResolveSymbol(idx, tgtIn)
		if srcRes.Kind == graph.Ambiguous || tgtRes.Kind == graph.Ambiguous {
			if asJSON {
				printJSON(map[string]any{
					"error":           "ambiguous",
					"from_input":      srcIn,
					"from_candidates": srcRes.Candidates,
					"to_input":        tgtIn,
					"to_candidates":   tgtRes.Candidates,
				})
				return nil
			}
			if srcRes.Kind == graph.Ambiguous {
				fmt.Printf("Ambiguous source '%s'. Did you mean:\n", srcIn)
				for _, c := range srcRes.Candidates {
					fmt.Printf(" - %s\n", c)
				}
			}
			if tgtRes.Kind == graph.Ambiguous {
				fmt.Printf("Ambiguous target '%s'. Did you mean:\n", tgtIn)
				for _, c := range tgtRes.Candidates {
					fmt.Printf(" - %s\n", c)
				}
			}
			return nil
		}

		src, tgt := srcRes.FQN, tgtRes.FQN
		limit, _ := cmd.Flags().GetInt("limit")        //nolint:all
		maxDepth, _ := cmd.Flags().GetInt("max-depth") //nolint:all
		paths := graph.BuildCallMaps(idx).FindAllPaths(src, tgt, limit, maxDepth)

		if asJSON {
			printJSON(map[string]any{
				"source":          srcIn,
				"source_resolved": src,
				"target":          tgtIn,
				"target_resolved": tgt,
				"paths":           paths,
			})
			return nil
		}
		if src != srcIn || tgt != tgtIn {
			fmt.Printf("(Resolved '--from %s' -> '%s', '--to %s' -> '%s')\n", srcIn, src, tgtIn, tgt)
		}
		if len(paths) == 0 {
			fmt.Printf("No call path found from %s to %s.\n", src, tgt)
			return nil
		}
		fmt.Printf("Found %d path(s):\n", len(paths))
		for _, p := range paths {
			fmt.Println(" - " + strings.Join(p, " -> "))
		}
		return nil
	},
}

var queryHistoryCmd = &cobra.Command{
	Use:   "history <target>",
	Short: "Show the assignment history of a watched attribute",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.QueryCommand)
		traceFile := cmd.Flag("file").Value.String()
		if traceFile == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			traceFile = filepath.Join(cwd, trace.DefaultTraceFile)
		}
		return runHistory(traceFile, args[0], jsonMode(cmd))
	},
}

var queryTraceSearchCmd = &cobra.Command{
	Use:   "trace-search",
	Short: "Search events in a recorded trace",
	RunE: func(cmd *cobra.Command, _ []string) error {
		analytics.ReportEvent(analytics.QueryCommand)
		traceFile := cmd.Flag("file").Value.String()
		if traceFile == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			traceFile = filepath.Join(cwd, trace.DefaultTraceFile)
		}
		if _, err := os.Stat(traceFile); err != nil {
			return fmt.Errorf("trace file %s not found", traceFile)
		}

		pattern := cmd.Flag("contains").Value.String()
		filterExpr := cmd.Flag("filter").Value.String()
		eventType := cmd.Flag("type").Value.String()
		if pattern == "" && filterExpr == "" {
			return fmt.Errorf("supply a search pattern via --contains or an expression via --filter")
		}

		events, err := trace.LoadEvents(traceFile)
		if err != nil {
			return err
		}

		var matches []trace.Match
		if filterExpr != "" {
			matches, err = trace.Filter(events, filterExpr)
			if err != nil {
				return err
			}
		} else {
			matches = trace.Search(events, pattern, eventType)
		}

		if jsonMode(cmd) {
			printJSON(map[string]any{
				"file":    traceFile,
				"pattern": pattern,
				"type":    eventType,
				"matches": matches,
			})
			return nil
		}
		if len(matches) == 0 {
			fmt.Println("No matching events.")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("[%d] %s %s\n", m.Index, m.Event.Type, describeEvent(m.Event))
		}
		return nil
	},
}

func describeEvent(ev trace.Event) string {
	switch ev.Type {
	case trace.EventCall:
		return ev.Func
	case trace.EventReturn:
		return fmt.Sprintf("%s -> %s", ev.Func, ev.Value)
	case trace.EventAssign:
		return fmt.Sprintf("%s = %s (by %s)", ev.Target, ev.Value, ev.Func)
	default:
		return ev.Func
	}
}

// runHistory is shared by `query history` and the legacy `history` synonym.
func runHistory(traceFile, target string, asJSON bool) error {
	if _, err := os.Stat(traceFile); err != nil {
		return fmt.Errorf("trace file %s not found", traceFile)
	}
	events, err := trace.LoadEvents(traceFile)
	if err != nil {
		return err
	}
	history := trace.WatchHistory(events, target)
	if asJSON {
		printJSON(map[string]any{"target": target, "history": history})
		return nil
	}
	if len(history) == 0 {
		fmt.Printf("No assignments to %s were recorded in the trace.\n", target)
		return nil
	}
	for _, entry := range history {
		fn := entry.Func
		if i := strings.LastIndex(fn, "."); i >= 0 {
			fn = fn[i+1:]
		}
		fmt.Printf("%s:%d - %s set to %s (by %s)\n", entry.File, entry.Line, target, entry.Value, fn)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(queryCallersCmd, queryCalleesCmd, queryFindPathCmd, queryHistoryCmd, queryTraceSearchCmd)

	for _, c := range []*cobra.Command{queryCallersCmd, queryCalleesCmd, queryFindPathCmd} {
		c.Flags().String("index", "", "Index file to load (default ./"+DefaultIndexFile+")")
		c.Flags().StringP("project", "p", ".", "Project to analyze when no index exists")
	}
	queryCallersCmd.Flags().Int("max-depth", 64, "Maximum chain depth")
	queryCallersCmd.Flags().Int("limit", 200, "Maximum number of chains")
	queryCalleesCmd.Flags().Bool("transitive", false, "Include transitive callees")
	queryCalleesCmd.Flags().Int("max-depth", 64, "Maximum traversal depth (transitive mode)")
	queryFindPathCmd.Flags().String("from", "", "Source function")
	queryFindPathCmd.Flags().String("to", "", "Target function")
	queryFindPathCmd.Flags().Int("limit", 50, "Maximum number of paths")
	queryFindPathCmd.Flags().Int("max-depth", 32, "Maximum path depth")
	queryHistoryCmd.Flags().StringP("file", "f", "", "Trace file (default ./"+trace.DefaultTraceFile+")")
	queryTraceSearchCmd.Flags().StringP("file", "f", "", "Trace file (default ./"+trace.DefaultTraceFile+")")
	queryTraceSearchCmd.Flags().String("contains", "", "Case-insensitive substring to search for")
	queryTraceSearchCmd.Flags().String("filter", "", "Boolean filter expression over events")
	queryTraceSearchCmd.Flags().StringP("type", "t", "", "Restrict to one event type (call, return, assign)")
}
