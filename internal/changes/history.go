package changes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ecfr_analytics/internal/ecfr"
)

type ChangeType string

const (
	Addition     ChangeType = "addition"
	Modification ChangeType = "modification"
	Removal      ChangeType = "removal"
)

// DefaultMaxVersions caps how many versions of one section are diffed.
const DefaultMaxVersions = 10

type HistoricalChange struct {
	Date              string     `json:"date"`
	AgencySlug        string     `json:"agencySlug"`
	Title             int        `json:"title"`
	Chapter           string     `json:"chapter,omitempty"`
	Section           string     `json:"section"`
	ChangeType        ChangeType `json:"changeType"`
	SectionsAffected  int        `json:"sectionsAffected"`
	WordsAdded        int        `json:"wordsAdded"`
	WordsRemoved      int        `json:"wordsRemoved"`
	Summary           string     `json:"summary"`
	SignificantChange bool       `json:"significantChange"`
}

// SectionHistory is the chronological version list of one section.
type SectionHistory struct {
	Section  string
	Versions []ecfr.ContentVersion
}

// Target identifies the agency reference a history belongs to.
type Target struct {
	AgencySlug string
	Title      int
	Chapter    string
}

// ContentFunc returns the normalized text of a section as of date.
type ContentFunc func(ctx context.Context, date, section string) (string, error)

// Group buckets versions by section identifier in first-appearance order,
// sorts each bucket by amendment date, and keeps the limit most recent.
// Appendix and supplement entries are dropped.
func Group(versions []ecfr.ContentVersion, limit int) []SectionHistory {
	if limit <= 0 {
		limit = DefaultMaxVersions
	}
	index := map[string]int{}
	var out []SectionHistory
	for _, v := range versions {
		if strings.Contains(v.Identifier, "Appendix") || strings.Contains(v.Identifier, "Supplement") {
			continue
		}
		i, ok := index[v.Identifier]
		if !ok {
			i = len(out)
			index[v.Identifier] = i
			out = append(out, SectionHistory{Section: v.Identifier})
		}
		out[i].Versions = append(out[i].Versions, v)
	}
	for i := range out {
		vs := out[i].Versions
		sort.SliceStable(vs, func(a, b int) bool { return vs[a].AmendmentDate < vs[b].AmendmentDate })
		if len(vs) > limit {
			out[i].Versions = vs[len(vs)-limit:]
		}
	}
	return out
}

// Changes classifies each version of the section in chronological order.
// A version whose content cannot be fetched is reported to onErr and skipped.
func (h SectionHistory) Changes(ctx context.Context, target Target, content ContentFunc, onErr func(ecfr.ContentVersion, error)) []HistoricalChange {
	memo := map[string]string{}
	load := func(date string) (string, error) {
		if text, ok := memo[date]; ok {
			return text, nil
		}
		text, err := content(ctx, date, h.Section)
		if err != nil {
			return "", err
		}
		memo[date] = text
		return text, nil
	}

	out := make([]HistoricalChange, 0, len(h.Versions))
	for i, v := range h.Versions {
		if ctx.Err() != nil {
			break
		}
		change, err := h.classify(i, v, load)
		if err != nil {
			if onErr != nil {
				onErr(v, err)
			}
			continue
		}
		change.Date = v.AmendmentDate
		change.AgencySlug = target.AgencySlug
		change.Title = target.Title
		change.Chapter = target.Chapter
		change.Section = h.Section
		change.SectionsAffected = 1
		out = append(out, change)
	}
	return out
}

func (h SectionHistory) classify(i int, v ecfr.ContentVersion, load func(string) (string, error)) (HistoricalChange, error) {
	switch {
	case v.Removed:
		removed := 0
		if i > 0 {
			before, err := load(h.Versions[i-1].Date)
			if err != nil {
				return HistoricalChange{}, fmt.Errorf("load section %s at %s: %w", h.Section, h.Versions[i-1].Date, err)
			}
			removed = len(strings.Fields(before))
		}
		return HistoricalChange{
			ChangeType:        Removal,
			WordsRemoved:      removed,
			Summary:           fmt.Sprintf("Section %s removed", h.Section),
			SignificantChange: true,
		}, nil
	case i == 0:
		after, err := load(v.Date)
		if err != nil {
			return HistoricalChange{}, fmt.Errorf("load section %s at %s: %w", h.Section, v.Date, err)
		}
		return HistoricalChange{
			ChangeType:        Addition,
			WordsAdded:        len(strings.Fields(after)),
			Summary:           fmt.Sprintf("Section %s added", h.Section),
			SignificantChange: true,
		}, nil
	default:
		before, err := load(h.Versions[i-1].Date)
		if err != nil {
			return HistoricalChange{}, fmt.Errorf("load section %s at %s: %w", h.Section, h.Versions[i-1].Date, err)
		}
		after, err := load(v.Date)
		if err != nil {
			return HistoricalChange{}, fmt.Errorf("load section %s at %s: %w", h.Section, v.Date, err)
		}
		d := Diff(before, after)
		return HistoricalChange{
			ChangeType:        Modification,
			WordsAdded:        d.Added,
			WordsRemoved:      d.Removed,
			Summary:           d.Summary(),
			SignificantChange: d.Significant(),
		}, nil
	}
}
