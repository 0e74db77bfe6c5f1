package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ecfr_analytics/internal/analytics"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cache size and the last warm run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			store, err := a.cache()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data root: %s\n", a.layout.Root)
			fmt.Fprintf(out, "Cache:     %s, %s records\n", store.Backend(), humanize.Comma(int64(records)))

			var report analytics.WarmReport
			path, err := a.layout.LatestReport(&report)
			switch {
			case errors.Is(err, os.ErrNotExist):
				fmt.Fprintln(out, "Last warm: never")
				return nil
			case err != nil:
				return err
			}
			fmt.Fprintf(out, "Last warm: %s (%s), %d failures\n", report.RunID, humanize.Time(report.FinishedAt), len(report.Failures))
			fmt.Fprintf(out, "Report:    %s\n", path)
			return nil
		},
	}
}
