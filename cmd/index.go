package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/mrakbook/whyx/analytics"
	"github.com/mrakbook/whyx/config"
	"github.com/mrakbook/whyx/graph"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Build a static call-graph index for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.IndexCommand)

		projectPath := args[0]
		outputPath := cmd.Flag("output").Value.String()
		if outputPath == "" {
			outputPath = filepath.Join(projectPath, DefaultIndexFile)
		}
		asJSON := jsonMode(cmd)
		logger := newLogger(cmd)

		cfg, err := config.Load(projectPath)
		if err != nil {
			return err
		}

		opts := graph.BuildOptions{SkipDirs: cfg.SkipDirs}
		if !asJSON {
			started := false
			opts.Progress = func(done, total int, _ string) {
				if !started {
					logger.StartProgress(total, "indexing")
					started = true
				}
				logger.StepProgress()
			}
		}

		idx, err := graph.BuildIndex(projectPath, opts)
		logger.FinishProgress()
		if err != nil {
			return err
		}
		if err := idx.Save(outputPath); err != nil {
			return err
		}
		logger.Progress("Indexed %d functions, %d edges", len(idx.Functions), len(idx.Edges))

		summary := map[string]any{
			"project":    projectPath,
			"functions":  len(idx.Functions),
			"edges":      len(idx.Edges),
			"index_file": outputPath,
		}
		if asJSON {
			printJSON(summary)
		} else {
			fmt.Printf("Indexed %s: %d functions, %d edges -> %s\n",
				projectPath, len(idx.Functions), len(idx.Edges), outputPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringP("output", "o", "", "Index output file (default <path>/"+DefaultIndexFile+")")
}
