// Package model holds the analytics result records served by the API and
// stored in the cache.
package model

import (
	"strings"

	"ecfr_analytics/internal/metrics"
)

type TitleWordCount struct {
	TitleNumber   int    `json:"titleNumber"`
	Chapter       string `json:"chapter,omitempty"`
	WordCount     int    `json:"wordCount"`
	SectionsCount int    `json:"sectionsCount"`
}

type AgencyWordCount struct {
	AgencyName             string           `json:"agencyName"`
	TotalWords             int              `json:"totalWords"`
	SectionsCount          int              `json:"sectionsCount"`
	AverageWordsPerSection float64          `json:"averageWordsPerSection"`
	Titles                 []TitleWordCount `json:"titles"`
}

// NewAgencyWordCount sums per-title counts. The average is 0 when no
// sections were found.
func NewAgencyWordCount(agencyName string, titles []TitleWordCount) *AgencyWordCount {
	out := &AgencyWordCount{AgencyName: agencyName, Titles: titles}
	if out.Titles == nil {
		out.Titles = []TitleWordCount{}
	}
	for _, t := range titles {
		out.TotalWords += t.WordCount
		out.SectionsCount += t.SectionsCount
	}
	if out.SectionsCount > 0 {
		out.AverageWordsPerSection = float64(out.TotalWords) / float64(out.SectionsCount)
	}
	return out
}

type ComplexityMetrics struct {
	AverageSentenceLength  float64              `json:"averageSentenceLength"`
	AverageWordLength      float64              `json:"averageWordLength"`
	FleschKincaidScore     metrics.ScoreMessage `json:"fleschKincaidScore"`
	TechnicalTermFrequency map[string]int       `json:"technicalTermFrequency"`
	Readability            metrics.Readability  `json:"readability"`
	LongSentenceCount      int                  `json:"longSentenceCount"`
	ComplexWordPercentage  float64              `json:"complexWordPercentage"`
	CitationCount          int                  `json:"citationCount"`
}

func NewComplexityMetrics(text string) *ComplexityMetrics {
	words := strings.Fields(text)
	sentences := metrics.Sentences(text)
	flesch := metrics.FleschReadingEase(text)
	complexity := metrics.ComplexityOf(text)

	out := &ComplexityMetrics{
		FleschKincaidScore:     metrics.ScoreMessage{Score: flesch, Message: metrics.InterpretFlesch(flesch)},
		TechnicalTermFrequency: metrics.TechnicalTermFrequency(text),
		Readability:            metrics.ReadabilityOf(text),
		LongSentenceCount:      complexity.LongSentenceCount,
		ComplexWordPercentage:  complexity.ComplexWordPercentage,
		CitationCount:          len(metrics.Citations(text)),
	}
	if len(sentences) > 0 {
		out.AverageSentenceLength = metrics.Round2(float64(len(words)) / float64(len(sentences)))
	}
	if len(words) > 0 {
		out.AverageWordLength = metrics.Round2(float64(len(strings.Join(words, ""))) / float64(len(words)))
	}
	return out
}

type AdvancedTextMetrics struct {
	Entropy            metrics.ScoreMessage       `json:"entropy"`
	LegalClarityScore  metrics.ScoreMessage       `json:"legalClarityScore"`
	AmbiguityScore     metrics.AmbiguityScore     `json:"ambiguityScore"`
	DefinitionCoverage metrics.DefinitionCoverage `json:"definitionCoverage"`
}

func NewAdvancedTextMetrics(text string) *AdvancedTextMetrics {
	entropy := metrics.Entropy(text)
	clarity := metrics.LegalClarity(text)
	return &AdvancedTextMetrics{
		Entropy:            metrics.ScoreMessage{Score: entropy, Message: metrics.InterpretEntropy(entropy)},
		LegalClarityScore:  metrics.ScoreMessage{Score: clarity, Message: metrics.InterpretClarity(clarity)},
		AmbiguityScore:     metrics.Ambiguity(text),
		DefinitionCoverage: metrics.DefinitionCoverageOf(text),
	}
}

type InteragencyComplexity struct {
	AgencyReferences         []string `json:"agencyReferences"`
	OverlappingJurisdictions int      `json:"overlappingJurisdictions"`
}

type RegulatoryBurden struct {
	AgencyName               string                        `json:"agencyName"`
	RestrictionWords         int                           `json:"restrictionWords"`
	ExceptionWords           int                           `json:"exceptionWords"`
	FormRequirements         int                           `json:"formRequirements"`
	DeadlineMentions         int                           `json:"deadlineMentions"`
	ComplianceCostIndicators metrics.ComplianceCosts       `json:"complianceCostIndicators"`
	EnforcementMetrics       metrics.EnforcementMetrics    `json:"enforcementMetrics"`
	RegulatoryFlexibility    metrics.RegulatoryFlexibility `json:"regulatoryFlexibility"`
	InteragencyComplexity    InteragencyComplexity         `json:"interagencyComplexity"`
}

func NewRegulatoryBurden(agencyName, text string) *RegulatoryBurden {
	refs := metrics.Jurisdictions(text)
	return &RegulatoryBurden{
		AgencyName:               agencyName,
		RestrictionWords:         metrics.RestrictionWordCount(text),
		ExceptionWords:           metrics.ExceptionWordCount(text),
		FormRequirements:         metrics.FormRequirements(text),
		DeadlineMentions:         metrics.DeadlineMentions(text),
		ComplianceCostIndicators: metrics.ComplianceCostsOf(text),
		EnforcementMetrics:       metrics.EnforcementOf(text),
		RegulatoryFlexibility:    metrics.FlexibilityOf(text),
		InteragencyComplexity: InteragencyComplexity{
			AgencyReferences:         refs,
			OverlappingJurisdictions: len(refs),
		},
	}
}

// AgencyRecord is the cached bundle for one agency.
type AgencyRecord struct {
	WordCounts *AgencyWordCount  `json:"wordCounts"`
	Burden     *RegulatoryBurden `json:"burden"`
}

// TitleRecord is the cached bundle for one whole title.
type TitleRecord struct {
	Complexity *ComplexityMetrics   `json:"complexity"`
	Advanced   *AdvancedTextMetrics `json:"advanced"`
}

type Overview struct {
	TotalTitles   int    `json:"totalTitles"`
	TotalAgencies int    `json:"totalAgencies"`
	LastUpdated   string `json:"lastUpdated"`
}
