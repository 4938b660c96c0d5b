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

// Legacy top-level synonyms kept for backward compatibility with older
// scripts: callers, callees, findpath and history re-dispatch to the query
// implementations with their historical defaults (current directory,
// default index, human output).

var legacyCallersCmd = &cobra.Command{
	Use:    "callers <function>",
	Short:  "Legacy synonym for `query callers`",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.LegacySynonymUsage)
		idx, err := loadOrBuildIndex("", ".")
		if err != nil {
			return err
		}
		target, ok := resolveOrReport(idx, args[0], "function", false)
		if !ok {
			return nil
		}
		chains := graph.BuildCallMaps(idx).CallerPaths(target, 200, 64)
		if len(chains) == 0 {
			fmt.Printf("No callers found for %s.\n", target)
			return nil
		}
		noteResolved(args[0], target)
		fmt.Printf("%s is called by:\n", target)
		for _, chain := range chains {
			fmt.Println(" - " + strings.Join(chain, " -> "))
		}
		return nil
	},
}

var legacyCalleesCmd = &cobra.Command{
	Use:    "callees <function>",
	Short:  "Legacy synonym for `query callees`",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.LegacySynonymUsage)
		idx, err := loadOrBuildIndex("", ".")
		if err != nil {
			return err
		}
		target, ok := resolveOrReport(idx, args[0], "function", false)
		if !ok {
			return nil
		}
		result := graph.BuildCallMaps(idx).DirectCallees(target)
		if len(result) == 0 {
			fmt.Printf("%s does not call any other functions directly.\n", target)
			return nil
		}
		noteResolved(args[0], target)
		fmt.Printf("%s directly calls:\n", target)
		for _, callee := range result {
			fmt.Printf(" - %s\n", callee)
		}
		return nil
	},
}

var legacyFindPathCmd = &cobra.Command{
	Use:    "findpath <source> <target>",
	Short:  "Legacy synonym for `query find-path`",
	Hidden: true,
	Args:   cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.LegacySynonymUsage)
		idx, err := loadOrBuildIndex("", ".")
		if err != nil {
			return err
		}
		src, ok := resolveOrReport(idx, args[0], "source", false)
		if !ok {
			return nil
		}
		tgt, ok := resolveOrReport(idx, args[1], "target", false)
		if !ok {
			return nil
		}
		paths := graph.BuildCallMaps(idx).FindAllPaths(src, tgt, 1, 64)
		if len(paths) == 0 {
			fmt.Printf("No call path found from %s to %s.\n", src, tgt)
			return nil
		}
		if src != args[0] || tgt != args[1] {
			fmt.Printf("(Resolved '%s' -> '%s', '%s' -> '%s')\n", args[0], src, args[1], tgt)
		}
		fmt.Println("Call path found:")
		fmt.Println(strings.Join(paths[0], " -> "))
		return nil
	},
}

var legacyHistoryCmd = &cobra.Command{
	Use:    "history <target> | history <trace-file> <target>",
	Short:  "Legacy synonym for `query history`",
	Hidden: true,
	Args:   cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.LegacySynonymUsage)
		var traceFile, target string
		if len(args) == 2 {
			traceFile, target = args[0], args[1]
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			traceFile = filepath.Join(cwd, trace.DefaultTraceFile)
			target = args[0]
		}
		return runHistory(traceFile, target, false)
	},
}

func init() {
	rootCmd.AddCommand(legacyCallersCmd, legacyCalleesCmd, legacyFindPathCmd, legacyHistoryCmd)
}
