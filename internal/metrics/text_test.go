package metrics

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords(" \n\t "))
	assert.Equal(t, 4, CountWords("  one two\nthree\tfour "))
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"the":        1,
		"made":       1,
		"created":    1,
		"regulation": 4,
		"agency":     3,
		"yes":        1,
		"rhythm":     1,
	}
	for word, want := range cases {
		assert.Equal(t, want, CountSyllables(word), word)
	}
}

func TestSentencesProtectsAbbreviations(t *testing.T) {
	got := Sentences("The U.S. Government issued rules. They apply now! Does it? Yes.")
	want := []string{
		"The U.S. Government issued rules.",
		"They apply now!",
		"Does it?",
		"Yes.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sentences mismatch (-want +got):\n%s", diff)
	}
}

func TestSentencesSingleCapitalAbbreviation(t *testing.T) {
	got := Sentences("Contact J. Smith today. Done.")
	require.Len(t, got, 2)
	assert.Equal(t, "Contact J. Smith today.", got[0])
}

func TestSentencesKeepsNULBytes(t *testing.T) {
	got := Sentences("Field A\x00B is void. The U.S. agency\x00 acts. Done.")
	want := []string{
		"Field A\x00B is void.",
		"The U.S. agency\x00 acts.",
		"Done.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sentences mismatch (-want +got):\n%s", diff)
	}
}

func TestSentencesEmpty(t *testing.T) {
	assert.Empty(t, Sentences(""))
	assert.Empty(t, Sentences("   "))
}

func TestFleschReadingEaseEmpty(t *testing.T) {
	assert.Equal(t, 0.0, FleschReadingEase(""))
	assert.Equal(t, 0.0, FleschReadingEase("   "))
	assert.Equal(t, 0.0, FleschReadingEase("123 456."))
}

func TestFleschReadingEaseClamped(t *testing.T) {
	assert.Equal(t, 100.0, FleschReadingEase("I go. I go."))
	assert.Equal(t, 0.0, FleschReadingEase("Internationalization considerations."))

	samples := []string{
		"The applicant shall submit the form within 30 days.",
		strings.Repeat("Notwithstanding any other provision of law, the administrator may promulgate regulations. ", 5),
		"a",
		"Go.",
	}
	for _, s := range samples {
		score := FleschReadingEase(s)
		assert.GreaterOrEqual(t, score, 0.0, s)
		assert.LessOrEqual(t, score, 100.0, s)
	}
}

func TestInterpretFlesch(t *testing.T) {
	assert.Equal(t, "Very easy to read (5th grade)", InterpretFlesch(95))
	assert.Equal(t, "Plain English (8th-9th grade)", InterpretFlesch(60))
	assert.Equal(t, "Difficult (College)", InterpretFlesch(30))
	assert.Equal(t, "Very difficult (College graduate)", InterpretFlesch(0))
}

func TestReadabilityOf(t *testing.T) {
	assert.Equal(t, Readability{}, ReadabilityOf(""))

	r := ReadabilityOf("The agency shall publish the notice. Comments are due within thirty days.")
	assert.GreaterOrEqual(t, r.FleschKincaidGrade, 0.0)
	assert.GreaterOrEqual(t, r.AutomatedReadabilityIndex, 0.0)
	assert.GreaterOrEqual(t, r.ColemanLiauIndex, 0.0)
}

func TestComplexityOf(t *testing.T) {
	long := strings.Repeat("word ", 31) + "end."
	c := ComplexityOf("Short one. " + long)
	assert.Equal(t, 1, c.LongSentenceCount)
	assert.Equal(t, TextComplexity{}, ComplexityOf(""))
}

func TestTechnicalTermFrequency(t *testing.T) {
	got := TechnicalTermFrequency("Permits and permitted facilities require inspection.")
	want := map[string]int{"permit": 2, "inspection": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("term frequency mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, TechnicalTermFrequency(""))
}
