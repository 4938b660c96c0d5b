package cmd

import (
	"fmt"
	"os"

	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/output"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	GitCommit = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		analytics.ReportEvent(analytics.VersionCommand)
		if jsonMode(cmd) {
			printJSON(map[string]string{"version": Version, "commit": GitCommit})
			return
		}
		if output.IsTTY(os.Stdout) {
			output.PrintBanner(os.Stdout, Version)
		} else {
			fmt.Println(output.CompactBanner(Version))
		}
		fmt.Printf("Git Commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
