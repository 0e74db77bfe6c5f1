package metrics

import "regexp"

type ComplianceCosts struct {
	ReportingRequirements     int `json:"reportingRequirements"`
	RecordKeepingRequirements int `json:"recordKeepingRequirements"`
	TestingRequirements       int `json:"testingRequirements"`
	CertificationRequirements int `json:"certificationRequirements"`
	FinancialRequirements     int `json:"financialRequirements"`
}

type EnforcementMetrics struct {
	PenaltyProvisions      int `json:"penaltyProvisions"`
	InspectionRequirements int `json:"inspectionRequirements"`
	AuditRequirements      int `json:"auditRequirements"`
}

type RegulatoryFlexibility struct {
	SmallBusinessProvisions int `json:"smallBusinessProvisions"`
	ExemptionProvisions     int `json:"exemptionProvisions"`
	PhaseInProvisions       int `json:"phaseInProvisions"`
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var (
	formPatterns = patterns(
		`(?i)form\s+[A-Z]?-?\d+`,
		`(?i)submit.*form`,
		`(?i)application\s+form`,
		`(?i)report.*form`,
		`(?i)form.*required`,
		`(?i)form.*must`,
		`(?i)complete.*form`,
		`(?i)standard\s+form`,
		`(?i)official\s+form`,
		`(?i)prescribed\s+form`,
	)
	deadlinePatterns = patterns(
		`(?i)within\s+\d+\s+(?:day|week|month|year)s?`,
		`(?i)(?:no|not)\s+later\s+than`,
		`(?i)by\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}`,
		`(?i)deadline`,
		`(?i)due\s+(?:date|by)`,
		`(?i)not\s+to\s+exceed\s+\d+\s+(?:day|week|month|year)s?`,
		`(?i)shall\s+(?:submit|complete|file|report)\s+(?:within|by|before)`,
		`(?i)must\s+be\s+(?:submitted|completed|filed|reported)\s+(?:within|by|before)`,
		`(?i)time\s+limit`,
		`(?i)expiration\s+(?:date|period)`,
	)

	reportingPatterns = patterns(
		`(?i)\breport(?:s|ed|ing)?\s+(?:to|on|annually|quarterly|monthly)\b`,
		`(?i)\bsubmit(?:s|ted)?\s+(?:a|an|the)\s+report\b`,
		`(?i)\bannual\s+report\b`,
		`(?i)\bnotif(?:y|ies|ied|ication)\b`,
	)
	recordKeepingPatterns = patterns(
		`(?i)\brecord[-\s]?keeping\b`,
		`(?i)\bmaintain\s+(?:records?|documentation)\b`,
		`(?i)\bretain(?:ed)?\s+(?:records?|copies|documentation)\b`,
		`(?i)\bkeep\s+records?\b`,
	)
	testingPatterns = patterns(
		`(?i)\btest(?:s|ing)?\s+(?:procedures?|methods?|requirements?)\b`,
		`(?i)\bsampling\s+(?:procedures?|methods?)\b`,
		`(?i)\banalytical\s+methods?\b`,
		`(?i)\bmonitoring\b`,
	)
	certificationPatterns = patterns(
		`(?i)\bcertif(?:y|ies|ied|ication|icate)\b`,
		`(?i)\baccredit(?:ed|ation)\b`,
		`(?i)\blicens(?:e|ed|ing)\b`,
		`(?i)\bregistration\b`,
	)
	financialPatterns = patterns(
		`(?i)\bfees?\b`,
		`(?i)\bbond(?:s|ing)?\b`,
		`(?i)\binsurance\b`,
		`(?i)\bfinancial\s+(?:assurance|responsibility|statements?)\b`,
		`\$\s?\d[\d,]*`,
	)

	penaltyPatterns = patterns(
		`(?i)\bcivil\s+(?:money\s+)?penalt(?:y|ies)\b`,
		`(?i)\bcriminal\s+penalt(?:y|ies)\b`,
		`(?i)\bfines?\b`,
		`(?i)\bsanctions?\b`,
		`(?i)\bimprisonment\b`,
	)
	inspectionPatterns = patterns(
		`(?i)\binspect(?:s|ed|ion|ions)?\b`,
		`(?i)\bsite\s+visits?\b`,
		`(?i)\bexamination\s+of\s+(?:records|premises|facilities)\b`,
	)
	auditPatterns = patterns(
		`(?i)\baudit(?:s|ed|ing|or|ors)?\b`,
		`(?i)\bcompliance\s+reviews?\b`,
	)

	smallBusinessPatterns = patterns(`(?i)small business`, `(?i)small entity`, `(?i)small organization`)
	exemptionPatterns     = patterns(`(?i)exempt(?:ion|ed|s)`, `(?i)waiver`, `(?i)variance`)
	phaseInPatterns       = patterns(`(?i)phase[-\s]in`, `(?i)gradually implement`, `(?i)compliance date`, `(?i)effective date`)

	jurisdictionPatterns = patterns(
		`(?:Department|Agency|Administration|Commission|Bureau) of (?:the\s+)?[A-Z][a-zA-Z]*(?:\s+(?:(?:of|and|for|the)\s+)?[A-Z][a-zA-Z]*)*`,
		`[A-Z]{2,5}\s+(?:and|&)\s+[A-Z]{2,5}`,
	)

	citationPatterns = patterns(
		`\d+\s+CFR\s+\d+\.\d+`,
		`\d+\s+U\.?S\.?C\.?\s+\d+`,
		`§+\s*\d+\.\d+`,
		`(?i)part\s+\d+`,
		`(?i)subpart\s+[A-Z]`,
		`(?i)chapter\s+[IVX]+`,
		`(?i)title\s+\d+`,
	)
)

// CountPatternMatches sums every non-overlapping match of every pattern.
func CountPatternMatches(text string, res []*regexp.Regexp) int {
	n := 0
	for _, re := range res {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

func RestrictionWordCount(text string) int { return vocabularyHits(text, RestrictionWords) }

func ExceptionWordCount(text string) int { return vocabularyHits(text, ExceptionWords) }

func vocabularyHits(text string, v Vocabulary) int {
	n := 0
	for _, w := range cleanTokens(text) {
		if v.Has(w) {
			n++
		}
	}
	return n
}

func FormRequirements(text string) int { return CountPatternMatches(text, formPatterns) }

func DeadlineMentions(text string) int { return CountPatternMatches(text, deadlinePatterns) }

func ComplianceCostsOf(text string) ComplianceCosts {
	return ComplianceCosts{
		ReportingRequirements:     CountPatternMatches(text, reportingPatterns),
		RecordKeepingRequirements: CountPatternMatches(text, recordKeepingPatterns),
		TestingRequirements:       CountPatternMatches(text, testingPatterns),
		CertificationRequirements: CountPatternMatches(text, certificationPatterns),
		FinancialRequirements:     CountPatternMatches(text, financialPatterns),
	}
}

func EnforcementOf(text string) EnforcementMetrics {
	return EnforcementMetrics{
		PenaltyProvisions:      CountPatternMatches(text, penaltyPatterns),
		InspectionRequirements: CountPatternMatches(text, inspectionPatterns),
		AuditRequirements:      CountPatternMatches(text, auditPatterns),
	}
}

func FlexibilityOf(text string) RegulatoryFlexibility {
	return RegulatoryFlexibility{
		SmallBusinessProvisions: CountPatternMatches(text, smallBusinessPatterns),
		ExemptionProvisions:     CountPatternMatches(text, exemptionPatterns),
		PhaseInProvisions:       CountPatternMatches(text, phaseInPatterns),
	}
}

// Jurisdictions returns distinct agency-like references, pattern by pattern
// in match order.
func Jurisdictions(text string) []string {
	return distinctMatches(text, jurisdictionPatterns)
}

func Citations(text string) []string {
	return distinctMatches(text, citationPatterns)
}

func distinctMatches(text string, res []*regexp.Regexp) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, re := range res {
		for _, m := range re.FindAllString(text, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}
