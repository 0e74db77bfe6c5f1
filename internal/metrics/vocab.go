package metrics

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed vocab/technical_terms.json
var technicalTermsJSON []byte

//go:embed vocab/ambiguous_terms.json
var ambiguousTermsJSON []byte

//go:embed vocab/restriction_words.json
var restrictionWordsJSON []byte

//go:embed vocab/exception_words.json
var exceptionWordsJSON []byte

var (
	TechnicalTerms   = mustVocabulary("technical_terms", technicalTermsJSON)
	AmbiguousTerms   = mustVocabulary("ambiguous_terms", ambiguousTermsJSON)
	RestrictionWords = mustVocabulary("restriction_words", restrictionWordsJSON)
	ExceptionWords   = mustVocabulary("exception_words", exceptionWordsJSON)
)

// Vocabulary is an ordered list of lowercase terms with set lookup.
type Vocabulary struct {
	terms []string
	set   map[string]struct{}
}

func NewVocabulary(terms []string) Vocabulary {
	v := Vocabulary{set: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := v.set[t]; dup {
			continue
		}
		v.set[t] = struct{}{}
		v.terms = append(v.terms, t)
	}
	return v
}

func (v Vocabulary) Has(word string) bool {
	_, ok := v.set[word]
	return ok
}

func mustVocabulary(name string, raw []byte) Vocabulary {
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil {
		panic(fmt.Sprintf("decode %s vocabulary: %v", name, err))
	}
	return NewVocabulary(terms)
}
