package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ecfr_analytics/internal/analytics"
	"ecfr_analytics/internal/cache"
)

func catalogCmd() *cobra.Command {
	var agenciesOnly, titlesOnly bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List titles and agencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			engine, err := analytics.Open(cmd.Context(), a.client(), cache.New(cache.NopKV{}, cache.BackendNone), a.engineOptions()...)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if !agenciesOnly {
				fmt.Fprintln(w, "TITLE\tNAME\tUP TO DATE\tRESERVED")
				for _, t := range engine.Titles() {
					fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", t.Number, t.Name, t.UpToDateAsOf, t.Reserved)
				}
			}
			if !titlesOnly {
				if !agenciesOnly {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, "SLUG\tNAME\tREFERENCES")
				for _, ag := range engine.Agencies() {
					fmt.Fprintf(w, "%s\t%s\t%d\n", ag.Slug, ag.Name, len(ag.CFRReferences))
				}
			}
			ov := engine.Overview()
			fmt.Fprintf(w, "\n%d titles, %d agencies, updated %s\n", ov.TotalTitles, ov.TotalAgencies, ov.LastUpdated)
			return nil
		},
	}
	cmd.Flags().BoolVar(&agenciesOnly, "agencies", false, "only list agencies")
	cmd.Flags().BoolVar(&titlesOnly, "titles", false, "only list titles")
	return cmd
}
