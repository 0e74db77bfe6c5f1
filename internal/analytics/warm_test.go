package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecfr_analytics/internal/cache"
)

func TestWarmerPopulatesCache(t *testing.T) {
	ctx := context.Background()
	client := historyClient()
	store := cache.New(cache.NewMemoryKV(), cache.BackendMemory)
	e := newEngine(t, client, store)

	report, err := NewWarmer(e, store).Run(ctx, WarmRequest{
		Agencies:  []string{"test-agency", "two-title"},
		StartDate: "2023-01-01",
	})
	require.NoError(t, err)
	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, report.AgenciesWritten)
	assert.Equal(t, 2, report.HistoriesWritten)
	assert.Equal(t, 2, report.TitlesWritten, "reserved titles are skipped")
	assert.Empty(t, report.Failures)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	before := client.callCount()
	wc, err := e.AgencyWordCounts(ctx, "test-agency")
	require.NoError(t, err)
	assert.Equal(t, 100.0, wc.AverageWordsPerSection)
	_, err = e.RegulatoryBurden(ctx, "two-title")
	require.NoError(t, err)
	hist, err := e.HistoricalChanges(ctx, "test-agency", "2023-01-01")
	require.NoError(t, err)
	assert.Len(t, hist, 2)
	_, err = e.ComplexityMetrics(ctx, 7, "")
	require.NoError(t, err)
	assert.Equal(t, before, client.callCount())
}

func TestWarmerRecordsUnitFailures(t *testing.T) {
	client := newFakeClient()
	client.fail[7] = errors.New("service unavailable")
	store := cache.New(cache.NewMemoryKV(), cache.BackendMemory)
	e := newEngine(t, client, store)

	report, err := NewWarmer(e, store).Run(context.Background(), WarmRequest{
		Agencies: []string{"two-title"},
		Titles:   []int{5, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.AgenciesWritten)
	assert.Equal(t, 1, report.TitlesWritten)
	require.Len(t, report.Failures, 2)
	units := []string{report.Failures[0].Unit, report.Failures[1].Unit}
	assert.ElementsMatch(t, []string{"agency", "title"}, units)
}

func TestWarmerRejectsUnknownSelection(t *testing.T) {
	store := cache.New(cache.NewMemoryKV(), cache.BackendMemory)
	e := newEngine(t, newFakeClient(), store)

	_, err := NewWarmer(e, store).Run(context.Background(), WarmRequest{Agencies: []string{"nope"}, SkipTitles: true})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewWarmer(e, store).Run(context.Background(), WarmRequest{SkipAgencies: true, Titles: []int{404}})
	assert.ErrorIs(t, err, ErrNotFound)
}
