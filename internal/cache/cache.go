// Package cache stores precomputed analytics records. The engine only reads
// through Reader; the warm job is the only Writer.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ecfr_analytics/internal/changes"
	"ecfr_analytics/internal/model"
)

// Reader returns a cached value, or ok=false when the record is absent.
type Reader interface {
	AgencyWordCounts(ctx context.Context, slug string) (*model.AgencyWordCount, bool, error)
	RegulatoryBurden(ctx context.Context, slug string) (*model.RegulatoryBurden, bool, error)
	HistoricalChanges(ctx context.Context, slug, startDate string) ([]changes.HistoricalChange, bool, error)
	ComplexityMetrics(ctx context.Context, title int, section string) (*model.ComplexityMetrics, bool, error)
	AdvancedTextMetrics(ctx context.Context, title int, section string) (*model.AdvancedTextMetrics, bool, error)
}

type Writer interface {
	PutAgency(ctx context.Context, slug string, rec model.AgencyRecord) error
	PutTitle(ctx context.Context, title int, rec model.TitleRecord) error
	PutHistoricalChanges(ctx context.Context, slug, startDate string, cs []changes.HistoricalChange) error
}

// KV is the byte store a backend provides.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	// Count reports how many records the backend holds.
	Count(ctx context.Context) (int, error)
	Close() error
}

func AgencyKey(slug string) string { return "agencies/" + slug }

func TitleKey(title int) string { return "titles/title-" + strconv.Itoa(title) }

func HistoricalChangesKey(slug, startDate string) string {
	return "historical-changes/" + slug + "/" + startDate
}

// Store encodes records as JSON over a KV backend.
type Store struct {
	kv      KV
	backend string
}

func New(kv KV, backend string) *Store {
	return &Store{kv: kv, backend: backend}
}

func (s *Store) Backend() string { return s.backend }

func (s *Store) Close() error { return s.kv.Close() }

func (s *Store) Count(ctx context.Context) (int, error) { return s.kv.Count(ctx) }

func (s *Store) AgencyWordCounts(ctx context.Context, slug string) (*model.AgencyWordCount, bool, error) {
	var rec model.AgencyRecord
	ok, err := s.read(ctx, AgencyKey(slug), &rec)
	if err != nil || !ok || rec.WordCounts == nil {
		return nil, false, err
	}
	return rec.WordCounts, true, nil
}

func (s *Store) RegulatoryBurden(ctx context.Context, slug string) (*model.RegulatoryBurden, bool, error) {
	var rec model.AgencyRecord
	ok, err := s.read(ctx, AgencyKey(slug), &rec)
	if err != nil || !ok || rec.Burden == nil {
		return nil, false, err
	}
	return rec.Burden, true, nil
}

func (s *Store) HistoricalChanges(ctx context.Context, slug, startDate string) ([]changes.HistoricalChange, bool, error) {
	var cs []changes.HistoricalChange
	ok, err := s.read(ctx, HistoricalChangesKey(slug, startDate), &cs)
	if err != nil || !ok {
		return nil, false, err
	}
	if cs == nil {
		cs = []changes.HistoricalChange{}
	}
	return cs, true, nil
}

// ComplexityMetrics only answers whole-title lookups; records are never
// stored per section.
func (s *Store) ComplexityMetrics(ctx context.Context, title int, section string) (*model.ComplexityMetrics, bool, error) {
	if section != "" {
		lookups.WithLabelValues(s.backend, "miss").Inc()
		return nil, false, nil
	}
	var rec model.TitleRecord
	ok, err := s.read(ctx, TitleKey(title), &rec)
	if err != nil || !ok || rec.Complexity == nil {
		return nil, false, err
	}
	return rec.Complexity, true, nil
}

func (s *Store) AdvancedTextMetrics(ctx context.Context, title int, section string) (*model.AdvancedTextMetrics, bool, error) {
	if section != "" {
		lookups.WithLabelValues(s.backend, "miss").Inc()
		return nil, false, nil
	}
	var rec model.TitleRecord
	ok, err := s.read(ctx, TitleKey(title), &rec)
	if err != nil || !ok || rec.Advanced == nil {
		return nil, false, err
	}
	return rec.Advanced, true, nil
}

func (s *Store) PutAgency(ctx context.Context, slug string, rec model.AgencyRecord) error {
	return s.write(ctx, AgencyKey(slug), rec)
}

func (s *Store) PutTitle(ctx context.Context, title int, rec model.TitleRecord) error {
	return s.write(ctx, TitleKey(title), rec)
}

func (s *Store) PutHistoricalChanges(ctx context.Context, slug, startDate string, cs []changes.HistoricalChange) error {
	if cs == nil {
		cs = []changes.HistoricalChange{}
	}
	return s.write(ctx, HistoricalChangesKey(slug, startDate), cs)
}

func (s *Store) read(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		lookups.WithLabelValues(s.backend, "error").Inc()
		return false, fmt.Errorf("read cache %s: %w", key, err)
	}
	if !ok {
		lookups.WithLabelValues(s.backend, "miss").Inc()
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		lookups.WithLabelValues(s.backend, "error").Inc()
		return false, fmt.Errorf("decode cache %s: %w", key, err)
	}
	lookups.WithLabelValues(s.backend, "hit").Inc()
	return true, nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	writes.WithLabelValues(s.backend).Inc()
	return nil
}
