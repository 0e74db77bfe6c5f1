package analytics

import (
	"context"
	"fmt"

	"ecfr_analytics/internal/ecfr"
)

// xmlText fetches a title's XML as of date and normalizes it.
func (e *Engine) xmlText(ctx context.Context, date string, title int, p ecfr.XMLParams) (string, error) {
	raw, err := e.client.TitleXML(ctx, date, title, p)
	if err != nil {
		return "", fmt.Errorf("fetch title %d xml: %w", title, err)
	}
	text, err := e.normalizer.ExtractText(raw)
	if err != nil {
		return "", fmt.Errorf("normalize title %d: %w", title, err)
	}
	return text, nil
}

// latestText is the current text of a title, or of one section when
// section is set. Concurrent callers for the same scope share one fetch.
func (e *Engine) latestText(ctx context.Context, title int, section string) (string, error) {
	return shared(ctx, e, flightKey("text", title, section), func(ctx context.Context) (string, error) {
		date, err := e.catalog.LatestDate(title)
		if err != nil {
			return "", err
		}
		return e.xmlText(ctx, date, title, ecfr.XMLParams{Section: section})
	})
}

// chapterText is the current text an agency reference covers.
func (e *Engine) chapterText(ctx context.Context, ref ecfr.CFRReference) (string, error) {
	date, err := e.catalog.LatestDate(ref.Title)
	if err != nil {
		return "", err
	}
	return e.xmlText(ctx, date, ref.Title, ecfr.XMLParams{Chapter: ref.Chapter, Subtitle: ref.Subtitle, Part: ref.Part})
}

// sectionContent returns a changes.ContentFunc bound to one title.
func (e *Engine) sectionContent(title int) func(ctx context.Context, date, section string) (string, error) {
	return func(ctx context.Context, date, section string) (string, error) {
		if date == "" {
			return "", nil
		}
		return e.xmlText(ctx, date, title, ecfr.XMLParams{Section: section})
	}
}
