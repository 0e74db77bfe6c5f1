package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecfr_analytics/internal/changes"
	"ecfr_analytics/internal/db"
	"ecfr_analytics/internal/metrics"
	"ecfr_analytics/internal/model"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileKV(filepath.Join(dir, "json"))
	require.NoError(t, err)
	sqlite, err := db.OpenStore(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	bdg, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)

	kvs := map[string]KV{
		BackendFile:   file,
		BackendSQLite: sqlite,
		BackendBadger: bdg,
		BackendMemory: NewMemoryKV(),
	}
	t.Cleanup(func() {
		for _, kv := range kvs {
			_ = kv.Close()
		}
	})
	return kvs
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	agency := model.AgencyRecord{
		WordCounts: model.NewAgencyWordCount("Test Agency", []model.TitleWordCount{{TitleNumber: 5, Chapter: "I", WordCount: 1000, SectionsCount: 10}}),
		Burden:     &model.RegulatoryBurden{AgencyName: "Test Agency", RestrictionWords: 3},
	}
	title := model.TitleRecord{
		Complexity: &model.ComplexityMetrics{AverageSentenceLength: 12.5, TechnicalTermFrequency: map[string]int{"permit": 2}},
		Advanced:   &model.AdvancedTextMetrics{Entropy: metrics.ScoreMessage{Score: 4.2}},
	}
	hist := []changes.HistoricalChange{{Date: "2024-01-01", AgencySlug: "test-agency", Title: 5, ChangeType: changes.Addition}}

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(kv, name)

			_, ok, err := s.AgencyWordCounts(ctx, "test-agency")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.PutAgency(ctx, "test-agency", agency))
			require.NoError(t, s.PutTitle(ctx, 5, title))
			require.NoError(t, s.PutHistoricalChanges(ctx, "test-agency", "2023-01-01", hist))

			wc, ok, err := s.AgencyWordCounts(ctx, "test-agency")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 100.0, wc.AverageWordsPerSection)

			burden, ok, err := s.RegulatoryBurden(ctx, "test-agency")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 3, burden.RestrictionWords)

			cm, ok, err := s.ComplexityMetrics(ctx, 5, "")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 2, cm.TechnicalTermFrequency["permit"])

			adv, ok, err := s.AdvancedTextMetrics(ctx, 5, "")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 4.2, adv.Entropy.Score)

			got, ok, err := s.HistoricalChanges(ctx, "test-agency", "2023-01-01")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, hist, got)

			_, ok, err = s.HistoricalChanges(ctx, "test-agency", "2024-06-01")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSectionLookupsMiss(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), BackendMemory)
	require.NoError(t, s.PutTitle(ctx, 5, model.TitleRecord{
		Complexity: &model.ComplexityMetrics{},
		Advanced:   &model.AdvancedTextMetrics{},
	}))

	_, ok, err := s.ComplexityMetrics(ctx, 5, "1.1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.AdvancedTextMetrics(ctx, 5, "1.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPartialRecordIsMiss(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV(), BackendMemory)
	require.NoError(t, s.PutAgency(ctx, "a", model.AgencyRecord{WordCounts: &model.AgencyWordCount{}}))

	_, ok, err := s.RegulatoryBurden(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptRecordIsError(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, AgencyKey("a"), []byte("{not json")))
	_, ok, err := New(kv, BackendMemory).AgencyWordCounts(ctx, "a")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFileKVLayout(t *testing.T) {
	root := t.TempDir()
	kv, err := NewFileKV(root)
	require.NoError(t, err)
	require.NoError(t, kv.Put(context.Background(), AgencyKey("test-agency"), []byte("{}")))

	_, err = os.Stat(filepath.Join(root, "agencies", "test-agency.json"))
	assert.NoError(t, err)

	_, _, err = kv.Get(context.Background(), "../escape")
	assert.Error(t, err)
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendFile, BackendSQLite, BackendBadger, BackendMemory, BackendNone} {
		s, err := Open(backend, dir, nil)
		require.NoError(t, err, backend)
		assert.Equal(t, backend, s.Backend())
		require.NoError(t, s.Close())
	}
	_, err := Open("redis", dir, nil)
	assert.Error(t, err)
}

func TestNoneBackendAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	s, err := Open(BackendNone, "", nil)
	require.NoError(t, err)
	require.NoError(t, s.PutTitle(ctx, 1, model.TitleRecord{Complexity: &model.ComplexityMetrics{}}))
	_, ok, err := s.ComplexityMetrics(ctx, 1, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreCount(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(kv, name)
			n, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			require.NoError(t, s.PutTitle(ctx, 5, model.TitleRecord{}))
			require.NoError(t, s.PutTitle(ctx, 5, model.TitleRecord{}))
			require.NoError(t, s.PutTitle(ctx, 7, model.TitleRecord{}))
			require.NoError(t, s.PutHistoricalChanges(ctx, "test-agency", "2024-01-01", nil))

			n, err = s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}

	n, err := New(NopKV{}, BackendNone).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
