package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived benchmark runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, err := newArchive(viper.GetString("archive_path"))
			if err != nil {
				return err
			}
			defer arch.Close()

			entries, err := arch.Recent(limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived runs.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDIMENSIONS\tREPEATS\tAVERAGE (ms)\tWHEN")
			for _, e := range entries {
				dims := e.Report.Dimensions
				fmt.Fprintf(w, "%d\t%s\t%dx%dx%d\t%d\t%.6f\t%s\n",
					e.ID, e.Name, dims.M(), dims.N(), dims.K(),
					e.Repeats, e.AverageMs, e.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	return cmd
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
