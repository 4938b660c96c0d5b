package cmd

import (
	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/output"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "whyx",
	Short: "whyx - explore why and how code runs",
	Long: `whyx combines a static call-graph index of a Python project with a
dynamic execution tracer, and answers questions over both: who calls a
function, what it calls, how two traces differ, and how a watched
attribute changed over a run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON on stdout")
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable metrics collection")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (-v, -vv)")
}

func jsonMode(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json") //nolint:all
	return asJSON
}

func newLogger(cmd *cobra.Command) *output.Logger {
	level, _ := cmd.Flags().GetCount("verbose") //nolint:all
	verbosity := output.VerbosityDefault
	switch {
	case level >= 2:
		verbosity = output.VerbosityDebug
	case level == 1:
		verbosity = output.VerbosityVerbose
	}
	return output.NewLogger(verbosity)
}
