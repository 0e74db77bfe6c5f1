package metrics

import (
	"math"
	"regexp"
	"strings"
)

const contextWindow = 5

type AmbiguousTerm struct {
	Term     string   `json:"term"`
	Count    int      `json:"count"`
	Contexts []string `json:"contexts"`
}

type AmbiguityDetails struct {
	AmbiguousTerms []AmbiguousTerm `json:"ambiguousTerms"`
	TotalWords     int             `json:"totalWords"`
	SeverityLevel  string          `json:"severityLevel"`
}

type AmbiguityScore struct {
	Score   float64          `json:"score"`
	Details AmbiguityDetails `json:"details"`
}

type CoverageStats struct {
	TotalTerms        int     `json:"totalTerms"`
	DefinedCount      int     `json:"definedCount"`
	PercentageCovered float64 `json:"percentageCovered"`
}

type DefinitionCoverage struct {
	Coverage       float64       `json:"coverage"`
	DefinedTerms   []string      `json:"definedTerms"`
	UndefinedTerms []string      `json:"undefinedTerms"`
	Stats          CoverageStats `json:"stats"`
}

// Ambiguity sums, per ambiguous term, occurrences per hundred words and keeps
// a five-word context window around each occurrence.
func Ambiguity(text string) AmbiguityScore {
	words := cleanTokens(text)
	total := len(words)

	found := make([]AmbiguousTerm, 0)
	score := 0.0
	for _, term := range AmbiguousTerms.terms {
		entry := AmbiguousTerm{Term: term}
		for i, w := range words {
			if w != term {
				continue
			}
			lo := max(0, i-contextWindow)
			hi := min(total, i+contextWindow+1)
			entry.Count++
			entry.Contexts = append(entry.Contexts, strings.Join(words[lo:hi], " "))
		}
		if entry.Count == 0 {
			continue
		}
		score += float64(entry.Count) / float64(total) * 100
		found = append(found, entry)
	}

	return AmbiguityScore{
		Score: score,
		Details: AmbiguityDetails{
			AmbiguousTerms: found,
			TotalWords:     total,
			SeverityLevel:  ambiguitySeverity(score),
		},
	}
}

func ambiguitySeverity(score float64) string {
	switch {
	case score < 1:
		return "Very Clear"
	case score < 2:
		return "Generally Clear"
	case score < 5:
		return "Moderately Ambiguous"
	case score < 10:
		return "Ambiguous"
	default:
		return "Highly Ambiguous"
	}
}

// Entropy is the Shannon entropy, in bits, of the word distribution.
func Entropy(text string) float64 {
	words := strings.Fields(punctuation.ReplaceAllString(strings.ToLower(text), ""))
	if len(words) == 0 {
		return 0
	}
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	total := float64(len(words))
	h := 0.0
	for _, n := range freq {
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}

func InterpretEntropy(score float64) string {
	switch {
	case score < 1:
		return "This document contains highly repetitive or boilerplate text with very little variation."
	case score < 3:
		return "This document is extremely simple and predictable, likely containing structured or templated content."
	case score < 5:
		return "This document has a clear and structured format, with minimal variation in vocabulary."
	case score < 7:
		return "This document is moderately complex, balancing structured text with some variation in language."
	case score < 9:
		return "This document contains a diverse vocabulary and more nuanced language, making it somewhat complex."
	default:
		return "This document is highly complex, with significant variation in vocabulary and potentially technical or legal language."
	}
}

// LegalClarity averages per-sentence clarity in [0,1]. Text without
// sentences scores 0.
func LegalClarity(text string) float64 {
	sentences := Sentences(text)
	if len(sentences) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sentences {
		total += sentenceClarity(s)
	}
	return total / float64(len(sentences))
}

func sentenceClarity(sentence string) float64 {
	penalty := 0
	switch wc := CountWords(sentence); {
	case wc > 50:
		penalty += 30
	case wc > 30:
		penalty += 20
	}
	for _, w := range cleanTokens(sentence) {
		if AmbiguousTerms.Has(w) {
			penalty += 30
			break
		}
	}
	if strings.Contains(sentence, ";") || strings.Count(sentence, ",") > 2 {
		penalty += 20
	}
	return float64(100-penalty) / 100
}

func InterpretClarity(score float64) string {
	switch {
	case score >= 0.9:
		return "This document is written in exceptionally clear and concise language, making it easy to understand."
	case score >= 0.75:
		return "This document is generally clear, with well-structured sentences and minimal legal complexity."
	case score >= 0.5:
		return "This document has moderate complexity, with some legal or technical terms that may require additional context."
	case score >= 0.25:
		return "This document is fairly complex, containing long or ambiguous sentences that may be difficult to interpret without legal expertise."
	default:
		return "This document is highly complex, with convoluted sentence structures and legal jargon that make it challenging to understand."
	}
}

var (
	definitionHeader = regexp.MustCompile(`(?i)\b(?:definitions?|terms?)\b:?`)
	definitionEnd    = regexp.MustCompile(`\n\n|\[`)
	definedTermRes   = []*regexp.Regexp{
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`'([^']+)'`),
		regexp.MustCompile("“([^”]+)”"),
		regexp.MustCompile(`(?i)\b(\w+)\s+means\b`),
		regexp.MustCompile(`(?i)\b(\w+)\s+refers to\b`),
		regexp.MustCompile(`(?i)\b(\w+)\s+shall mean\b`),
	}
)

// DefinitionCoverageOf reports how many technical terms found in text are
// defined in one of its definition sections.
func DefinitionCoverageOf(text string) DefinitionCoverage {
	defined := definedTerms(text)

	technical := TechnicalTermFrequency(text)
	if len(technical) == 0 {
		return DefinitionCoverage{
			Coverage:       1,
			DefinedTerms:   append([]string{}, defined.order...),
			UndefinedTerms: []string{},
			Stats:          CoverageStats{PercentageCovered: 100},
		}
	}

	out := DefinitionCoverage{DefinedTerms: []string{}, UndefinedTerms: []string{}}
	for _, term := range TechnicalTerms.terms {
		if _, ok := technical[term]; !ok {
			continue
		}
		if defined.has(term) {
			out.DefinedTerms = append(out.DefinedTerms, term)
		} else {
			out.UndefinedTerms = append(out.UndefinedTerms, term)
		}
	}
	out.Coverage = float64(len(out.DefinedTerms)) / float64(len(technical))
	out.Stats = CoverageStats{
		TotalTerms:        len(technical),
		DefinedCount:      len(out.DefinedTerms),
		PercentageCovered: out.Coverage * 100,
	}
	return out
}

type termSet struct {
	order []string
	seen  map[string]struct{}
}

func (s *termSet) add(term string) {
	if _, ok := s.seen[term]; ok {
		return
	}
	s.seen[term] = struct{}{}
	s.order = append(s.order, term)
}

func (s *termSet) has(term string) bool {
	_, ok := s.seen[term]
	return ok
}

// definedTerms scans each definition section: a header runs to the next
// blank line, "[" or end of text.
func definedTerms(text string) *termSet {
	set := &termSet{seen: map[string]struct{}{}}
	pos := 0
	for pos < len(text) {
		loc := definitionHeader.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[1]
		end := len(text)
		if stop := definitionEnd.FindStringIndex(text[start:]); stop != nil {
			end = start + stop[0]
		}
		section := text[start:end]
		for _, re := range definedTermRes {
			for _, m := range re.FindAllStringSubmatch(section, -1) {
				if term := strings.ToLower(strings.TrimSpace(m[1])); term != "" {
					set.add(term)
				}
			}
		}
		if end == start {
			end++
		}
		pos = end
	}
	return set
}
