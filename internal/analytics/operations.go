package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ecfr_analytics/internal/changes"
	"ecfr_analytics/internal/ecfr"
	"ecfr_analytics/internal/model"
	"ecfr_analytics/internal/pipeline"
	"ecfr_analytics/internal/structure"
	"ecfr_analytics/internal/timeline"
)

// AgencyWordCounts totals words and sections over every reference of the
// agency. Any failed reference fails the whole request.
func (e *Engine) AgencyWordCounts(ctx context.Context, slug string) (out *model.AgencyWordCount, err error) {
	defer func(start time.Time) { observe(opWordCounts, start, err) }(time.Now())

	agency, err := e.resolvedAgency(slug)
	if err != nil {
		return nil, err
	}
	if v, ok := cached(e, opWordCounts, slug, func() (*model.AgencyWordCount, bool, error) {
		return e.cache.AgencyWordCounts(ctx, slug)
	}); ok {
		return v, nil
	}
	return shared(ctx, e, flightKey(opWordCounts, slug), func(ctx context.Context) (*model.AgencyWordCount, error) {
		return e.computeWordCounts(ctx, agency)
	})
}

func (e *Engine) computeWordCounts(ctx context.Context, agency ecfr.Agency) (*model.AgencyWordCount, error) {
	results := pipeline.Map(ctx, agency.CFRReferences, e.workers, e.referenceWordCount)
	titles := make([]model.TitleWordCount, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			ref := agency.CFRReferences[i]
			return nil, upstream(fmt.Sprintf("word counts for title %d chapter %s", ref.Title, ref.Chapter), r.Err)
		}
		titles = append(titles, r.Value)
	}
	return model.NewAgencyWordCount(agency.Name, titles), nil
}

func (e *Engine) referenceWordCount(ctx context.Context, ref ecfr.CFRReference) (model.TitleWordCount, error) {
	date, err := e.catalog.LatestDate(ref.Title)
	if err != nil {
		return model.TitleWordCount{}, err
	}
	text, err := e.chapterText(ctx, ref)
	if err != nil {
		return model.TitleWordCount{}, err
	}
	root, err := e.client.TitleStructure(ctx, date, ref.Title)
	if err != nil {
		return model.TitleWordCount{}, fmt.Errorf("fetch title %d structure: %w", ref.Title, err)
	}
	return model.TitleWordCount{
		TitleNumber:   ref.Title,
		Chapter:       ref.Chapter,
		WordCount:     len(strings.Fields(text)),
		SectionsCount: structure.SectionsFor(root, ref.Chapter),
	}, nil
}

// HistoricalChanges diffs section versions issued since startDate. A failed
// reference or version is logged and skipped.
func (e *Engine) HistoricalChanges(ctx context.Context, slug, startDate string) (out []changes.HistoricalChange, err error) {
	defer func(start time.Time) { observe(opHistory, start, err) }(time.Now())

	agency, err := e.Agency(slug)
	if err != nil {
		return nil, err
	}
	if v, ok := cached(e, opHistory, slug+"/"+startDate, func() ([]changes.HistoricalChange, bool, error) {
		return e.cache.HistoricalChanges(ctx, slug, startDate)
	}); ok {
		return v, nil
	}
	return shared(ctx, e, flightKey(opHistory, slug, startDate), func(ctx context.Context) ([]changes.HistoricalChange, error) {
		return e.computeHistory(ctx, agency, startDate)
	})
}

func (e *Engine) computeHistory(ctx context.Context, agency ecfr.Agency, startDate string) ([]changes.HistoricalChange, error) {
	results := pipeline.Map(ctx, agency.CFRReferences, e.workers, func(ctx context.Context, ref ecfr.CFRReference) ([]changes.HistoricalChange, error) {
		return e.referenceHistory(ctx, agency.Slug, ref, startDate)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := []changes.HistoricalChange{}
	for i, r := range results {
		if r.Err != nil {
			ref := agency.CFRReferences[i]
			e.partialFailure(opHistory, r.Err,
				zap.String("slug", agency.Slug), zap.Int("title", ref.Title), zap.String("chapter", ref.Chapter))
			continue
		}
		out = append(out, r.Value...)
	}
	return out, nil
}

func (e *Engine) referenceHistory(ctx context.Context, slug string, ref ecfr.CFRReference, startDate string) ([]changes.HistoricalChange, error) {
	if _, ok := e.catalog.Title(ref.Title); !ok {
		return nil, titleNotFound(ref.Title)
	}
	versions, err := e.client.Versions(ctx, ref.Title, ecfr.VersionParams{IssueDateGTE: startDate, Chapter: ref.Chapter})
	if err != nil {
		return nil, fmt.Errorf("fetch title %d versions: %w", ref.Title, err)
	}

	target := changes.Target{AgencySlug: slug, Title: ref.Title, Chapter: ref.Chapter}
	content := e.sectionContent(ref.Title)
	var out []changes.HistoricalChange
	for _, group := range changes.Group(versions.ContentVersions, e.maxVersions) {
		out = append(out, group.Changes(ctx, target, content, func(v ecfr.ContentVersion, err error) {
			e.partialFailure(opHistory, err,
				zap.String("slug", slug), zap.Int("title", ref.Title),
				zap.String("section", group.Section), zap.String("date", v.Date))
		})...)
	}
	return out, nil
}

// Timeline folds the agency's historical changes into a per-date series.
func (e *Engine) Timeline(ctx context.Context, slug, startDate string) ([]timeline.Point, error) {
	cs, err := e.HistoricalChanges(ctx, slug, startDate)
	if err != nil {
		return nil, err
	}
	return timeline.Build(cs), nil
}

func (e *Engine) ComplexityMetrics(ctx context.Context, title int, section string) (out *model.ComplexityMetrics, err error) {
	defer func(start time.Time) { observe(opComplexity, start, err) }(time.Now())

	if _, err := e.Title(title); err != nil {
		return nil, err
	}
	if v, ok := cached(e, opComplexity, flightKey(title, section), func() (*model.ComplexityMetrics, bool, error) {
		return e.cache.ComplexityMetrics(ctx, title, section)
	}); ok {
		return v, nil
	}
	text, err := e.latestText(ctx, title, section)
	if err != nil {
		return nil, upstream(fmt.Sprintf("complexity metrics for title %d", title), err)
	}
	return model.NewComplexityMetrics(text), nil
}

func (e *Engine) AdvancedTextMetrics(ctx context.Context, title int, section string) (out *model.AdvancedTextMetrics, err error) {
	defer func(start time.Time) { observe(opAdvanced, start, err) }(time.Now())

	if _, err := e.Title(title); err != nil {
		return nil, err
	}
	if v, ok := cached(e, opAdvanced, flightKey(title, section), func() (*model.AdvancedTextMetrics, bool, error) {
		return e.cache.AdvancedTextMetrics(ctx, title, section)
	}); ok {
		return v, nil
	}
	text, err := e.latestText(ctx, title, section)
	if err != nil {
		return nil, upstream(fmt.Sprintf("advanced text metrics for title %d", title), err)
	}
	return model.NewAdvancedTextMetrics(text), nil
}

// RegulatoryBurden scores the combined text of the agency's references.
// Failed references are skipped unless all of them fail.
func (e *Engine) RegulatoryBurden(ctx context.Context, slug string) (out *model.RegulatoryBurden, err error) {
	defer func(start time.Time) { observe(opBurden, start, err) }(time.Now())

	agency, err := e.resolvedAgency(slug)
	if err != nil {
		return nil, err
	}
	if v, ok := cached(e, opBurden, slug, func() (*model.RegulatoryBurden, bool, error) {
		return e.cache.RegulatoryBurden(ctx, slug)
	}); ok {
		return v, nil
	}
	return shared(ctx, e, flightKey(opBurden, slug), func(ctx context.Context) (*model.RegulatoryBurden, error) {
		return e.computeBurden(ctx, agency)
	})
}

func (e *Engine) computeBurden(ctx context.Context, agency ecfr.Agency) (*model.RegulatoryBurden, error) {
	results := pipeline.Map(ctx, agency.CFRReferences, e.workers, e.chapterText)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(results))
	var errs []error
	for i, r := range results {
		if r.Err != nil {
			ref := agency.CFRReferences[i]
			e.partialFailure(opBurden, r.Err,
				zap.String("slug", agency.Slug), zap.Int("title", ref.Title), zap.String("chapter", ref.Chapter))
			errs = append(errs, r.Err)
			continue
		}
		texts = append(texts, r.Value)
	}
	if len(results) > 0 && len(texts) == 0 {
		return nil, upstream("regulatory burden for "+agency.Slug, errors.Join(errs...))
	}
	return model.NewRegulatoryBurden(agency.Name, strings.TrimSpace(strings.Join(texts, " "))), nil
}
