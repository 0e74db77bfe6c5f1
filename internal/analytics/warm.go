package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ecfr_analytics/internal/cache"
	"ecfr_analytics/internal/model"
)

// WarmRequest selects what a warm run computes. Empty Agencies and Titles
// mean all of them; an empty StartDate skips historical changes.
type WarmRequest struct {
	Agencies     []string
	Titles       []int
	StartDate    string
	SkipAgencies bool
	SkipTitles   bool
	Concurrency  int
}

type WarmFailure struct {
	Unit  string `json:"unit"`
	Key   string `json:"key"`
	Error string `json:"error"`
}

type WarmReport struct {
	RunID            string        `json:"runId"`
	StartedAt        time.Time     `json:"startedAt"`
	FinishedAt       time.Time     `json:"finishedAt"`
	AgenciesWritten  int           `json:"agenciesWritten"`
	HistoriesWritten int           `json:"historiesWritten"`
	TitlesWritten    int           `json:"titlesWritten"`
	Failures         []WarmFailure `json:"failures"`
}

func (r WarmReport) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Warmer recomputes records through the engine and writes them to the
// cache. It is the only cache writer.
type Warmer struct {
	engine *Engine
	writer cache.Writer
	logger *zap.Logger
}

func NewWarmer(engine *Engine, writer cache.Writer) *Warmer {
	return &Warmer{engine: engine, writer: writer, logger: engine.logger}
}

// Run processes every selected unit. Unit failures land in the report;
// the returned error is only set when ctx ends the run early.
func (w *Warmer) Run(ctx context.Context, req WarmRequest) (WarmReport, error) {
	report := WarmReport{RunID: uuid.NewString(), StartedAt: time.Now().UTC(), Failures: []WarmFailure{}}
	log := w.logger.With(zap.String("run_id", report.RunID))

	slugs, titles, err := w.selection(req)
	if err != nil {
		return report, err
	}
	log.Info("warm run started", zap.Int("agencies", len(slugs)), zap.Int("titles", len(titles)))

	var mu sync.Mutex
	fail := func(unit, key string, err error) {
		log.Warn("warm unit failed", zap.String("unit", unit), zap.String("key", key), zap.Error(err))
		mu.Lock()
		report.Failures = append(report.Failures, WarmFailure{Unit: unit, Key: key, Error: err.Error()})
		mu.Unlock()
	}
	count := func(n *int) {
		mu.Lock()
		*n++
		mu.Unlock()
	}

	limit := req.Concurrency
	if limit <= 0 {
		limit = 2
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, slug := range slugs {
		g.Go(func() error {
			if err := w.warmAgency(gctx, slug); err != nil {
				fail("agency", slug, err)
			} else {
				count(&report.AgenciesWritten)
			}
			if req.StartDate == "" {
				return gctx.Err()
			}
			if err := w.warmHistory(gctx, slug, req.StartDate); err != nil {
				fail("historical-changes", slug, err)
			} else {
				count(&report.HistoriesWritten)
			}
			return gctx.Err()
		})
	}
	for _, title := range titles {
		g.Go(func() error {
			if err := w.warmTitle(gctx, title); err != nil {
				fail("title", fmt.Sprint(title), err)
			} else {
				count(&report.TitlesWritten)
			}
			return gctx.Err()
		})
	}

	err = g.Wait()
	report.FinishedAt = time.Now().UTC()
	log.Info("warm run finished",
		zap.Int("agencies_written", report.AgenciesWritten),
		zap.Int("histories_written", report.HistoriesWritten),
		zap.Int("titles_written", report.TitlesWritten),
		zap.Int("failures", len(report.Failures)),
		zap.Duration("elapsed", report.Duration()),
	)
	return report, err
}

func (w *Warmer) selection(req WarmRequest) ([]string, []int, error) {
	var slugs []string
	if !req.SkipAgencies {
		slugs = req.Agencies
		if len(slugs) == 0 {
			for _, a := range w.engine.Agencies() {
				slugs = append(slugs, a.Slug)
			}
		}
		for _, s := range slugs {
			if _, err := w.engine.Agency(s); err != nil {
				return nil, nil, err
			}
		}
	}

	var titles []int
	if !req.SkipTitles {
		titles = req.Titles
		if len(titles) == 0 {
			for _, t := range w.engine.Titles() {
				if !t.Reserved {
					titles = append(titles, t.Number)
				}
			}
		}
		for _, n := range titles {
			if _, err := w.engine.Title(n); err != nil {
				return nil, nil, err
			}
		}
	}
	return slugs, titles, nil
}

func (w *Warmer) warmAgency(ctx context.Context, slug string) error {
	agency, err := w.engine.resolvedAgency(slug)
	if err != nil {
		return err
	}
	counts, err := w.engine.computeWordCounts(ctx, agency)
	if err != nil {
		return err
	}
	burden, err := w.engine.computeBurden(ctx, agency)
	if err != nil {
		return err
	}
	return w.writer.PutAgency(ctx, slug, model.AgencyRecord{WordCounts: counts, Burden: burden})
}

func (w *Warmer) warmHistory(ctx context.Context, slug, startDate string) error {
	agency, err := w.engine.Agency(slug)
	if err != nil {
		return err
	}
	cs, err := w.engine.computeHistory(ctx, agency, startDate)
	if err != nil {
		return err
	}
	return w.writer.PutHistoricalChanges(ctx, slug, startDate, cs)
}

func (w *Warmer) warmTitle(ctx context.Context, title int) error {
	text, err := w.engine.latestText(ctx, title, "")
	if err != nil {
		return upstream(fmt.Sprintf("warm title %d", title), err)
	}
	return w.writer.PutTitle(ctx, title, model.TitleRecord{
		Complexity: model.NewComplexityMetrics(text),
		Advanced:   model.NewAdvancedTextMetrics(text),
	})
}
