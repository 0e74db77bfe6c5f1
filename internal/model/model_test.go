package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgencyWordCount(t *testing.T) {
	got := NewAgencyWordCount("Test Agency", []TitleWordCount{
		{TitleNumber: 5, Chapter: "I", WordCount: 600, SectionsCount: 6},
		{TitleNumber: 7, WordCount: 400, SectionsCount: 4},
	})
	assert.Equal(t, 1000, got.TotalWords)
	assert.Equal(t, 10, got.SectionsCount)
	assert.Equal(t, 100.0, got.AverageWordsPerSection)
}

func TestNewAgencyWordCountWithoutSections(t *testing.T) {
	got := NewAgencyWordCount("Empty", nil)
	assert.Equal(t, 0.0, got.AverageWordsPerSection)
	assert.NotNil(t, got.Titles)

	got = NewAgencyWordCount("Words only", []TitleWordCount{{TitleNumber: 1, WordCount: 50}})
	assert.Equal(t, 0.0, got.AverageWordsPerSection)
}

func TestNewComplexityMetrics(t *testing.T) {
	got := NewComplexityMetrics("The permit holder shall file. See 5 CFR 1.1 now.")
	assert.Equal(t, 5.0, got.AverageSentenceLength)
	assert.Equal(t, 1, got.CitationCount)
	assert.Equal(t, 1, got.TechnicalTermFrequency["permit"])
	assert.NotEmpty(t, got.FleschKincaidScore.Message)

	empty := NewComplexityMetrics("")
	assert.Equal(t, 0.0, empty.AverageSentenceLength)
	assert.Equal(t, 0.0, empty.AverageWordLength)
}

func TestNewAdvancedTextMetricsJSON(t *testing.T) {
	raw, err := json.Marshal(NewAdvancedTextMetrics("The agency may act."))
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"entropy", "legalClarityScore", "ambiguityScore", "definitionCoverage"} {
		assert.Contains(t, fields, key)
	}
}

func TestNewRegulatoryBurden(t *testing.T) {
	got := NewRegulatoryBurden("Test Agency", "The operator shall file Form 10 within 30 days with the Department of Labor.")
	assert.Equal(t, "Test Agency", got.AgencyName)
	assert.Equal(t, 1, got.RestrictionWords)
	assert.Equal(t, []string{"Department of Labor"}, got.InteragencyComplexity.AgencyReferences)
	assert.Equal(t, 1, got.InteragencyComplexity.OverlappingJurisdictions)
}
