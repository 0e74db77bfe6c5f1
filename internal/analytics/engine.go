// Package analytics answers agency and title analytics queries. Each query
// reads the cache first and computes from the eCFR API on a miss; the
// engine never writes the cache.
package analytics

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ecfr_analytics/internal/cache"
	"ecfr_analytics/internal/catalog"
	"ecfr_analytics/internal/changes"
	"ecfr_analytics/internal/ecfr"
	"ecfr_analytics/internal/ingest"
	"ecfr_analytics/internal/model"
)

type Engine struct {
	catalog     *catalog.Catalog
	client      ecfr.Client
	cache       cache.Reader
	normalizer  *ingest.Normalizer
	logger      *zap.Logger
	workers     int
	maxVersions int
	flight      singleflight.Group
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWorkers bounds per-request fan-out. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

func WithMaxVersionsPerSection(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxVersions = n
		}
	}
}

func WithNormalizer(n *ingest.Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// NewEngine serves queries against a built catalog. A nil store behaves
// as an always-empty cache.
func NewEngine(cat *catalog.Catalog, client ecfr.Client, store cache.Reader, opts ...Option) *Engine {
	if store == nil {
		store = cache.New(cache.NopKV{}, cache.BackendNone)
	}
	e := &Engine{
		catalog:     cat,
		client:      client,
		cache:       store,
		normalizer:  ingest.NewNormalizer(),
		logger:      zap.NewNop(),
		maxVersions: changes.DefaultMaxVersions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open builds the catalog from client and returns a ready engine.
func Open(ctx context.Context, client ecfr.Client, store cache.Reader, opts ...Option) (*Engine, error) {
	cat, err := catalog.Build(ctx, client)
	if err != nil {
		return nil, upstream("build catalog", err)
	}
	e := NewEngine(cat, client, store, opts...)
	e.logger.Info("catalog loaded",
		zap.Int("titles", cat.TitleCount()),
		zap.Int("agencies", cat.AgencyCount()),
		zap.String("last_updated", cat.LastUpdated()),
	)
	return e, nil
}

func (e *Engine) Overview() model.Overview {
	return model.Overview{
		TotalTitles:   e.catalog.TitleCount(),
		TotalAgencies: e.catalog.AgencyCount(),
		LastUpdated:   e.catalog.LastUpdated(),
	}
}

func (e *Engine) Agencies() []ecfr.Agency { return e.catalog.Agencies() }

func (e *Engine) Titles() []ecfr.TitleInfo { return e.catalog.Titles() }

func (e *Engine) Agency(slug string) (ecfr.Agency, error) {
	a, ok := e.catalog.Agency(slug)
	if !ok {
		return ecfr.Agency{}, agencyNotFound(slug)
	}
	return a, nil
}

func (e *Engine) Title(number int) (ecfr.TitleInfo, error) {
	t, ok := e.catalog.Title(number)
	if !ok {
		return ecfr.TitleInfo{}, titleNotFound(number)
	}
	return t, nil
}

// resolvedAgency returns the agency after checking every reference points
// at a known title.
func (e *Engine) resolvedAgency(slug string) (ecfr.Agency, error) {
	a, err := e.Agency(slug)
	if err != nil {
		return a, err
	}
	for _, ref := range a.CFRReferences {
		if _, ok := e.catalog.Title(ref.Title); !ok {
			return a, titleNotFound(ref.Title)
		}
	}
	return a, nil
}

// cached returns a cache hit. Read errors are logged and count as a miss.
func cached[T any](e *Engine, op, key string, read func() (T, bool, error)) (T, bool) {
	v, ok, err := read()
	if err != nil {
		e.logger.Warn("cache read failed", zap.String("operation", op), zap.String("key", key), zap.Error(err))
		var zero T
		return zero, false
	}
	if ok {
		e.logger.Debug("cache hit", zap.String("operation", op), zap.String("key", key))
	}
	return v, ok
}

// shared collapses concurrent identical computations. The computation runs
// on a context detached from the first caller's cancellation; each caller
// stops waiting when its own ctx is done.
func shared[T any](ctx context.Context, e *Engine, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	detached := context.WithoutCancel(ctx)
	ch := e.flight.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(T), nil
	}
}

func flightKey(parts ...any) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('/')
		}
		fmt.Fprint(&b, p)
	}
	return b.String()
}
