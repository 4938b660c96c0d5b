package cmd

import (
	"fmt"
	"os"

	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/trace"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <trace>",
	Short: "Summarize a recorded trace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.ReportCommand)

		traceFile := args[0]
		if _, err := os.Stat(traceFile); err != nil {
			return fmt.Errorf("trace file %s not found", traceFile)
		}
		events, err := trace.LoadEvents(traceFile)
		if err != nil {
			return err
		}
		asJSON := jsonMode(cmd)
		coverage, _ := cmd.Flags().GetBool("coverage") //nolint:all
		top, _ := cmd.Flags().GetInt("top")            //nolint:all

		if !coverage {
			byType := map[string]int{}
			for _, ev := range events {
				byType[ev.Type]++
			}
			if asJSON {
				printJSON(map[string]any{"events": len(events), "by_type": byType})
			} else {
				fmt.Printf("%d events (%d calls, %d returns, %d assigns). Use --coverage to list modules touched.\n",
					len(events), byType[trace.EventCall], byType[trace.EventReturn], byType[trace.EventAssign])
			}
			return nil
		}

		ranked := trace.CoverageReport(events, top)
		if asJSON {
			printJSON(map[string]any{"modules_touched": ranked})
			return nil
		}
		if len(ranked) == 0 {
			fmt.Println("No module calls recorded.")
			return nil
		}
		fmt.Println("Modules touched:")
		for _, mc := range ranked {
			fmt.Printf(" - %-30s %d calls\n", mc.Module, mc.Calls)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("coverage", false, "Rank modules by call count")
	reportCmd.Flags().Int("top", 0, "Limit the ranking to the top N modules")
}
