package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gemmbench/internal/report"
)

func newMergeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "merge <report-glob>...",
		Short: "Combine saved benchmark reports into one",
		Long: `Loads every report matched by the given glob patterns and reduces them
into a single report. All reports must describe the same benchmark: identical
dimensions, scalars, layout and transpositions. With --out the merged report
is written as JSON, otherwise it is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := report.LoadGlob(args, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				return fmt.Errorf("no reports matched the given patterns")
			}

			merged, err := report.Merge(reports)
			if err != nil {
				return err
			}

			if outPath != "" {
				return report.Save(outPath, merged)
			}
			fmt.Fprint(cmd.OutOrStdout(), merged.Full())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the merged report as JSON to this path instead of printing it")

	return cmd
}

func init() {
	rootCmd.AddCommand(newMergeCmd())
}
