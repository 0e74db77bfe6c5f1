package main

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"ecfr_analytics/internal/ingest"
	"ecfr_analytics/internal/metrics"
	"ecfr_analytics/internal/model"
)

func analyzeFileCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze-file <path>",
		Short: "Compute text metrics for a local XML, PDF, DOCX or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ingest.NewNormalizer().ParseFile(args[0])
			if err != nil {
				return err
			}
			complexity := model.NewComplexityMetrics(doc.Text)
			advanced := model.NewAdvancedTextMetrics(doc.Text)
			burden := model.NewRegulatoryBurden(doc.Name, doc.Text)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"document":   doc.Name,
					"format":     doc.Format,
					"complexity": complexity,
					"advanced":   advanced,
					"burden":     burden,
				})
			}

			fmt.Fprintf(out, "%s (%s, %s)\n", doc.Name, doc.Format, humanize.Bytes(uint64(len(doc.Text))))
			fmt.Fprintf(out, "  words:              %s\n", humanize.Comma(int64(metrics.CountWords(doc.Text))))
			fmt.Fprintf(out, "  flesch:             %.1f (%s)\n", complexity.FleschKincaidScore.Score, complexity.FleschKincaidScore.Message)
			fmt.Fprintf(out, "  legal clarity:      %.1f (%s)\n", advanced.LegalClarityScore.Score, advanced.LegalClarityScore.Message)
			fmt.Fprintf(out, "  ambiguity:          %.2f (%s)\n", advanced.AmbiguityScore.Score, advanced.AmbiguityScore.Details.SeverityLevel)
			fmt.Fprintf(out, "  restriction words:  %s\n", humanize.Comma(int64(burden.RestrictionWords)))
			fmt.Fprintf(out, "  deadlines:          %s\n", humanize.Comma(int64(burden.DeadlineMentions)))
			fmt.Fprintf(out, "  citations:          %s\n", humanize.Comma(int64(complexity.CitationCount)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
