// Package timeline folds historical changes into a per-date chart series.
package timeline

import (
	"sort"

	"ecfr_analytics/internal/changes"
)

type Point struct {
	Date               string `json:"date"`
	WordsAdded         int    `json:"wordsAdded"`
	WordsRemoved       int    `json:"wordsRemoved"`
	TotalChanges       int    `json:"totalChanges"`
	SignificantChanges int    `json:"significantChanges"`
}

// Build sums changes per date. Points are sorted by date ascending.
func Build(cs []changes.HistoricalChange) []Point {
	byDate := make(map[string]*Point, len(cs))
	for _, c := range cs {
		p, ok := byDate[c.Date]
		if !ok {
			p = &Point{Date: c.Date}
			byDate[c.Date] = p
		}
		p.WordsAdded += c.WordsAdded
		p.WordsRemoved += c.WordsRemoved
		p.TotalChanges++
		if c.SignificantChange {
			p.SignificantChanges++
		}
	}

	out := make([]Point, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
