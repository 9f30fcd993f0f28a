package extractor

import "regexp"

const (
	dosagePattern    = `\b\d+(?:\.\d+)?\s?(?:mg|mcg|g|ml|units)\b`
	frequencyPattern = `\b(?:once(?:\s+daily)?|twice(?:\s+daily)?|(?:three|four) times(?:\s+(?:daily|a day))?|every \d+(?:-\d+)? hours|q\d+(?:-\d+)?h|od|bd|bid|tds|tid|qds|qid|prn|daily|weekly|monthly|at bedtime|before breakfast|after meals|for \d+ (?:days|weeks|months)|\d+ (?:days|weeks|months))\b`
	durationPattern  = `\bfor \d+ (?:days|weeks|months)\b`

	// nearWindow is how far past a drug token a dosage or frequency may start
	nearWindow = `.{0,40}?`

	// fallbackPrefixRunes bounds the text sent in the whole-text fallback query
	fallbackPrefixRunes = 60
)

var (
	dosageRe    = regexp.MustCompile(`(?i)` + dosagePattern)
	frequencyRe = regexp.MustCompile(`(?i)` + frequencyPattern)
	durationRe  = regexp.MustCompile(`(?i)` + durationPattern)

	// Anchored variants match the first span starting within nearWindow of the
	// beginning of the searched text. Group 1 is the span.
	nearDosageRe    = regexp.MustCompile(`(?is)^` + nearWindow + `(` + dosagePattern + `)`)
	nearFrequencyRe = regexp.MustCompile(`(?is)^` + nearWindow + `(` + frequencyPattern + `)`)
	nearDurationRe  = regexp.MustCompile(`(?is)^` + nearWindow + `(` + durationPattern + `)`)

	// Drug tokens are rune-aware so accented names stay whole. The match is
	// greedy over word runes; findCandidates rejects matches that start mid-word.
	candidateRe   = regexp.MustCompile(`\p{Lu}[\p{L}\p{M}\p{N}-]{2,}`)
	symptomRe     = regexp.MustCompile(`^([A-Z][a-z]+(?: [a-z]+){0,3})(?:\.|:|,| -)`)
	sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)
	lineBreakRe   = regexp.MustCompile(`\r\n|\r|\n`)
)

var stopwords = map[string]bool{
	"the":       true,
	"and":       true,
	"for":       true,
	"with":      true,
	"prescribe": true,
	"mild":      true,
	"infection": true,
	"daily":     true,
	"days":      true,
}

// commonConditions is ordered; the first keyword found in a sentence becomes
// the symptom when none is set yet
var commonConditions = []string{
	"fever", "cough", "pain", "reflux", "headache", "cold", "flu", "infection",
	"asthma", "diabetes", "hypertension", "allergy", "acidity", "acid",
}

var conditionSet = func() map[string]bool {
	m := make(map[string]bool, len(commonConditions))
	for _, c := range commonConditions {
		m[c] = true
	}
	return m
}()
