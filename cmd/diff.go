package cmd

import (
	"fmt"
	"strings"

	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/trace"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <trace1> <trace2>",
	Short: "Structurally compare two recorded traces",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.DiffCommand)

		oldEvents, err := trace.LoadEvents(args[0])
		if err != nil {
			return fmt.Errorf("diffing traces: %w", err)
		}
		newEvents, err := trace.LoadEvents(args[1])
		if err != nil {
			return fmt.Errorf("diffing traces: %w", err)
		}

		report := trace.Diff(oldEvents, newEvents)
		if jsonMode(cmd) {
			printJSON(report)
			return nil
		}

		printEdgeSection("Added calls", report.AddedCalls)
		printEdgeSection("Removed calls", report.RemovedCalls)
		if len(report.ChangedReturns) > 0 {
			fmt.Println("Changed returns:")
			for fn, change := range report.ChangedReturns {
				fmt.Printf(" - %s: %s -> %s\n", fn,
					strings.Join(change.Old, ","), strings.Join(change.New, ","))
			}
		}
		if len(report.WatchDiffs) > 0 {
			fmt.Println("Watch differences:")
			for target, change := range report.WatchDiffs {
				fmt.Printf(" - %s: old=%v new=%v\n", target, change.Old, change.New)
			}
		}
		if len(report.AddedCalls) == 0 && len(report.RemovedCalls) == 0 &&
			len(report.ChangedReturns) == 0 && len(report.WatchDiffs) == 0 {
			fmt.Println("Traces are structurally identical.")
		}
		return nil
	},
}

func printEdgeSection(title string, edges []trace.Edge) {
	if len(edges) == 0 {
		return
	}
	fmt.Println(title + ":")
	for _, e := range edges {
		fmt.Printf(" - %s -> %s\n", e[0], e[1])
	}
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
