package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ecfr_analytics/internal/analytics"
)

func warmCmd() *cobra.Command {
	var req analytics.WarmRequest
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Recompute analytics and write them to the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store, err := a.cache()
			if err != nil {
				return err
			}
			defer store.Close()

			engine, err := analytics.Open(ctx, a.client(), store, a.engineOptions()...)
			if err != nil {
				return err
			}

			report, runErr := analytics.NewWarmer(engine, store).Run(ctx, req)
			path, err := a.layout.SaveReport(report.RunID, report.StartedAt, report)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Warm run %s finished in %s (%s cache)\n", report.RunID, report.Duration().Round(time.Millisecond), store.Backend())
			fmt.Fprintf(out, "  agencies:  %s\n", humanize.Comma(int64(report.AgenciesWritten)))
			fmt.Fprintf(out, "  histories: %s\n", humanize.Comma(int64(report.HistoriesWritten)))
			fmt.Fprintf(out, "  titles:    %s\n", humanize.Comma(int64(report.TitlesWritten)))
			for _, f := range report.Failures {
				fmt.Fprintf(out, "  failed %s %s: %s\n", f.Unit, f.Key, f.Error)
			}
			fmt.Fprintf(out, "Report saved to %s\n", path)

			if runErr != nil {
				return runErr
			}
			if n := len(report.Failures); n > 0 {
				return fmt.Errorf("%d of %d units failed", n, n+report.AgenciesWritten+report.HistoriesWritten+report.TitlesWritten)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&req.Agencies, "agency", nil, "agency slug to warm (repeatable, default all)")
	f.IntSliceVar(&req.Titles, "title", nil, "title number to warm (repeatable, default all)")
	f.StringVar(&req.StartDate, "start-date", "", "also warm historical changes since this date (YYYY-MM-DD)")
	f.BoolVar(&req.SkipAgencies, "skip-agencies", false, "do not warm agency records")
	f.BoolVar(&req.SkipTitles, "skip-titles", false, "do not warm title records")
	f.IntVar(&req.Concurrency, "concurrency", 2, "units processed at once")
	return cmd
}
