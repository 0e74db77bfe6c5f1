package metrics

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespace    = regexp.MustCompile(`\s+`)
	hasLetter     = regexp.MustCompile(`[a-zA-Z]`)
	silentSuffix  = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	vowelGroup    = regexp.MustCompile(`[aeiouy]{1,2}`)
	sentenceBreak = regexp.MustCompile(`[.!?]\s+`)
	punctuation   = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()\"'\u201c\u201d\u2018\u2019\\[\\]?]")
)

// ScoreMessage pairs a score with its reader-facing interpretation.
type ScoreMessage struct {
	Score   float64 `json:"score"`
	Message string  `json:"message"`
}

type Readability struct {
	FleschKincaidGrade        float64 `json:"fleschKincaidGrade"`
	AutomatedReadabilityIndex float64 `json:"automatedReadabilityIndex"`
	ColemanLiauIndex          float64 `json:"colemanLiauIndex"`
}

type TextComplexity struct {
	AvgSentenceLength     float64 `json:"avgSentenceLength"`
	AvgWordLength         float64 `json:"avgWordLength"`
	LongSentenceCount     int     `json:"longSentenceCount"`
	ComplexWordPercentage float64 `json:"complexWordPercentage"`
}

func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountSyllables estimates syllables from vowel groups. Never less than 1.
func CountSyllables(word string) int {
	w := strings.ToLower(word)
	w = silentSuffix.ReplaceAllString(w, "")
	w = strings.TrimPrefix(w, "y")
	if n := len(vowelGroup.FindAllStringIndex(w, -1)); n > 0 {
		return n
	}
	return 1
}

// Sentences splits on terminal punctuation followed by whitespace. Periods
// inside "U.S."-style and single capital letter abbreviations do not split.
func Sentences(text string) []string {
	abbrev := abbreviationPeriods(text)
	out := make([]string, 0, 8)
	last := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		if abbrev[loc[0]] {
			continue
		}
		out = appendSentence(out, text[last:loc[0]+1])
		last = loc[1]
	}
	return appendSentence(out, text[last:])
}

func appendSentence(out []string, s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return out
	}
	return append(out, s)
}

// abbreviationPeriods marks the byte offsets of periods that end an
// abbreviation rather than a sentence.
func abbreviationPeriods(text string) []bool {
	marks := make([]bool, len(text))
	for i := 1; i < len(text); i++ {
		if text[i] != '.' || !isUpper(text[i-1]) {
			continue
		}
		var next byte
		if i+1 < len(text) {
			next = text[i+1]
		}
		switch {
		case isUpper(next):
			marks[i] = true
		case isSpace(next) && (i < 2 || !isAlnum(text[i-2])):
			marks[i] = true
		}
	}
	return marks
}

// FleschReadingEase is clamped to [0,100] and rounded to one decimal.
func FleschReadingEase(text string) float64 {
	clean := strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if clean == "" {
		return 0
	}
	sentences := Sentences(clean)
	words := letterWords(clean)
	if len(sentences) == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}
	wc := float64(len(words))
	score := 206.835 - 1.015*(wc/float64(len(sentences))) - 84.6*(float64(syllables)/wc)
	return math.Min(100, math.Max(0, round1(score)))
}

func InterpretFlesch(score float64) string {
	switch {
	case score >= 90:
		return "Very easy to read (5th grade)"
	case score >= 80:
		return "Easy to read (6th grade)"
	case score >= 70:
		return "Fairly easy to read (7th grade)"
	case score >= 60:
		return "Plain English (8th-9th grade)"
	case score >= 50:
		return "Fairly difficult (10th-12th grade)"
	case score >= 30:
		return "Difficult (College)"
	default:
		return "Very difficult (College graduate)"
	}
}

// ReadabilityOf computes grade-level indices. Each is floored at 0.
func ReadabilityOf(text string) Readability {
	sentences := Sentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return Readability{}
	}

	chars, syllables := 0, 0
	for _, w := range words {
		chars += utf8.RuneCountInString(w)
		syllables += CountSyllables(w)
	}
	wc := float64(len(words))
	sc := float64(len(sentences))

	grade := 0.39*(wc/sc) + 11.8*(float64(syllables)/wc) - 15.59
	ari := 4.71*(float64(chars)/wc) + 0.5*(wc/sc) - 21.43
	l := float64(chars) / wc * 100
	s := sc / wc * 100
	cli := 0.0588*l - 0.296*s - 15.8

	return Readability{
		FleschKincaidGrade:        math.Max(0, round1(grade)),
		AutomatedReadabilityIndex: math.Max(0, round1(ari)),
		ColemanLiauIndex:          math.Max(0, round1(cli)),
	}
}

func ComplexityOf(text string) TextComplexity {
	sentences := Sentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return TextComplexity{}
	}

	totalLen, long := 0, 0
	for _, s := range sentences {
		n := CountWords(s)
		totalLen += n
		if n > 30 {
			long++
		}
	}
	chars, complexWords := 0, 0
	for _, w := range words {
		chars += utf8.RuneCountInString(w)
		if CountSyllables(w) > 2 {
			complexWords++
		}
	}

	return TextComplexity{
		AvgSentenceLength:     round1(float64(totalLen) / float64(len(sentences))),
		AvgWordLength:         round1(float64(chars) / float64(len(words))),
		LongSentenceCount:     long,
		ComplexWordPercentage: round1(float64(complexWords) / float64(len(words)) * 100),
	}
}

// TechnicalTermFrequency counts each word once per technical term it
// carries. Containment covers the suffixed forms (permits, permitted).
func TechnicalTermFrequency(text string) map[string]int {
	counts := map[string]int{}
	terms := TechnicalTerms.terms
	for _, word := range cleanTokens(text) {
		for _, term := range terms {
			if strings.Contains(word, term) {
				counts[term]++
			}
		}
	}
	return counts
}

// cleanTokens lowercases text and splits it with punctuation treated as space.
func cleanTokens(text string) []string {
	return strings.Fields(punctuation.ReplaceAllString(strings.ToLower(text), " "))
}

func letterWords(text string) []string {
	fields := strings.Fields(text)
	out := fields[:0]
	for _, f := range fields {
		if hasLetter.MatchString(f) {
			out = append(out, f)
		}
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Round2 rounds to two decimals.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isAlnum(c byte) bool {
	return isUpper(c) || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
