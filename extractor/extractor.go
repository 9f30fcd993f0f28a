// Package extractor pulls drug records out of free-form prescription text
package extractor

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/metrics"
	"github.com/giygas/medibot-api/oracle"
)

var _ interfaces.Extractor = (*Extractor)(nil)

// Extractor is a heuristic prescription parser that asks the oracle only to
// fill in missing dosage and frequency. It holds no per-call state.
type Extractor struct {
	oracle interfaces.Oracle
}

// New creates an extractor. A nil oracle behaves like oracle.Disabled.
func New(o interfaces.Oracle) *Extractor {
	if o == nil {
		o = oracle.Disabled{}
	}
	return &Extractor{oracle: o}
}

// candidate is a drug token and where it ends in its sentence
type candidate struct {
	name string
	end  int
}

// pass is the state of one Extract call
type pass struct {
	ctx     context.Context
	oracle  interfaces.Oracle
	symptom string
	// answers caches strict-extraction answers per sentence
	answers map[string]entities.ExtractionFacts
}

// Extract returns one record per (sentence, candidate) pair, in sentence order
// and then discovery order. It never fails; an empty result is a non-nil slice.
func (e *Extractor) Extract(ctx context.Context, text string) []entities.DrugRecord {
	flat := lineBreakRe.ReplaceAllString(text, " ")
	records := make([]entities.DrugRecord, 0)

	if strings.TrimSpace(flat) == "" {
		metrics.ExtractedRecords.Observe(0)
		return records
	}

	sentences := splitSentences(flat)
	p := &pass{
		ctx:     ctx,
		oracle:  e.oracle,
		answers: make(map[string]entities.ExtractionFacts),
	}
	if len(sentences) > 0 {
		if m := symptomRe.FindStringSubmatch(sentences[0]); m != nil {
			p.symptom = strings.TrimSpace(m[1])
		}
	}

	for _, sentence := range sentences {
		p.noteCondition(sentence)
		for _, c := range findCandidates(sentence) {
			records = append(records, p.record(sentence, c))
		}
	}

	if len(records) == 0 {
		if rec, ok := p.fallback(flat); ok {
			records = append(records, rec)
		}
	}

	metrics.ExtractedRecords.Observe(float64(len(records)))
	return records
}

// splitSentences cuts text after every '.', '!' or '?' followed by whitespace.
// The punctuation stays with its sentence; empty sentences are dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// findCandidates returns capitalized tokens that are neither stopwords nor
// common conditions. Repeated tokens yield one candidate.
func findCandidates(sentence string) []candidate {
	var out []candidate
	seen := make(map[string]bool)
	for _, loc := range candidateRe.FindAllStringIndex(sentence, -1) {
		if touchesWord(sentence, loc[0], loc[1]) {
			continue
		}
		token := sentence[loc[0]:loc[1]]
		lower := strings.ToLower(token)
		if stopwords[lower] || conditionSet[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, candidate{name: token, end: loc[1]})
	}
	return out
}

// touchesWord reports whether the span [start, end) of s is glued to a
// letter, mark or digit on either side
func touchesWord(s string, start, end int) bool {
	if r, size := utf8.DecodeLastRuneInString(s[:start]); size > 0 && isWordRune(r) {
		return true
	}
	if r, size := utf8.DecodeRuneInString(s[end:]); size > 0 && isWordRune(r) {
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)
}

// noteCondition sets the symptom from the first common condition mentioned,
// unless one is already set
func (p *pass) noteCondition(sentence string) {
	if p.symptom != "" {
		return
	}
	lower := strings.ToLower(sentence)
	for _, cond := range commonConditions {
		if strings.Contains(lower, cond) {
			p.symptom = cond
			return
		}
	}
}

func (p *pass) record(sentence string, c candidate) entities.DrugRecord {
	after := sentence[c.end:]
	rec := entities.DrugRecord{
		Name:      c.name,
		Dosage:    findSpan(after, sentence, nearDosageRe, dosageRe),
		Frequency: findSpan(after, sentence, nearFrequencyRe, frequencyRe),
		Duration:  findSpan(after, sentence, nearDurationRe, durationRe),
		Symptom:   p.symptom,
	}

	if rec.Dosage == "" && rec.Frequency == "" {
		if facts, ok := p.strictExtraction(sentence); ok {
			rec.Dosage = facts.Dosage
			rec.Frequency = facts.Frequency
			if rec.Duration == "" {
				rec.Duration = facts.Duration
			}
		}
	}
	return rec
}

// findSpan looks for a span starting within the near window after the token,
// then anywhere in the sentence
func findSpan(after, sentence string, near, anywhere *regexp.Regexp) string {
	if m := near.FindStringSubmatch(after); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(anywhere.FindString(sentence))
}

// strictExtraction asks the oracle to read one sentence. Answers are cached
// for the rest of the pass so repeated candidates cost one query.
func (p *pass) strictExtraction(sentence string) (entities.ExtractionFacts, bool) {
	if facts, ok := p.answers[sentence]; ok {
		return facts, !facts.Empty()
	}

	facts := p.query(sentence)
	p.answers[sentence] = facts
	return facts, !facts.Empty()
}

// fallback runs one strict extraction over the start of the text when no
// candidate was found
func (p *pass) fallback(text string) (entities.DrugRecord, bool) {
	facts := p.query(prefixRunes(strings.TrimSpace(text), fallbackPrefixRunes))
	if facts.Empty() {
		return entities.DrugRecord{}, false
	}

	symptom := p.symptom
	if symptom == "" {
		symptom = facts.Condition
	}
	return entities.DrugRecord{
		Name:      facts.Drug,
		Dosage:    facts.Dosage,
		Frequency: facts.Frequency,
		Symptom:   symptom,
		Duration:  facts.Duration,
	}, true
}

func (p *pass) query(input string) entities.ExtractionFacts {
	answer, err := p.oracle.QueryFreeform(p.ctx, oracle.ExtractionPrompt(input))
	if err != nil {
		if errors.Is(err, oracle.ErrUnavailable) {
			logging.Debug("Skipping oracle extraction, service unavailable")
		} else {
			logging.Warn("Oracle extraction failed", "error", err)
		}
		return entities.ExtractionFacts{}
	}
	return oracle.ParseExtraction(answer)
}

func prefixRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// PlainText renders records as "Drug:/Dosage:/Frequency:" blocks separated
// by a blank line
func PlainText(records []entities.DrugRecord) string {
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Drug: " + rec.Name + "\n")
		b.WriteString("Dosage: " + rec.Dosage + "\n")
		b.WriteString("Frequency: " + rec.Frequency)
	}
	return b.String()
}
