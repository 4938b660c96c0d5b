package cmd

import (
	"fmt"
	"strings"

	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/config"
	"github.com/mrakbook/whyx/trace"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Execute an instrumented script under tracing",
	Long: `Run executes a registered instrumented script with any combination of
call/return tracing, attribute watchpoints and module coverage. The event
log is written as a JSON array; the summary reports where it went.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.RunCommand)

		doTrace, _ := cmd.Flags().GetBool("trace")        //nolint:all
		coverage, _ := cmd.Flags().GetBool("coverage")    //nolint:all
		watches, _ := cmd.Flags().GetStringArray("watch") //nolint:all
		outputPath := cmd.Flag("output").Value.String()

		cfg, err := config.Load(".")
		if err != nil {
			return err
		}

		summary, err := trace.Run(args[0], trace.Options{
			Trace:           doTrace,
			Watch:           watches,
			Coverage:        coverage,
			Output:          outputPath,
			IgnoredPrefixes: cfg.IgnoredPrefixes,
		})
		if err != nil {
			return err
		}

		if jsonMode(cmd) {
			printJSON(summary)
			return nil
		}
		if summary.TraceFile != "" {
			fmt.Printf("Trace written to %s (%d events)\n", summary.TraceFile, summary.EventCount)
		}
		if summary.Modules != nil {
			fmt.Printf("Modules executed: %s\n", strings.Join(summary.Modules, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("trace", false, "Record call/return events")
	runCmd.Flags().StringArrayP("watch", "w", nil, "Watch attribute assignments (module.Class.attr, repeatable)")
	runCmd.Flags().Bool("coverage", false, "Collect executed-module coverage")
	runCmd.Flags().StringP("output", "o", "", "Event-log output file (default ./"+trace.DefaultTraceFile+")")
}
