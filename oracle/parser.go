package oracle

import (
	"regexp"
	"strings"

	"github.com/giygas/medibot-api/entities"
)

// section is a state of the line-prefix parser
type section int

const (
	sectionNone section = iota
	sectionName
	sectionDosage
	sectionFrequency
	sectionInteractions
	sectionAlternatives
	sectionCondition
	sectionDrug
	sectionDuration
)

// sectionKind decides how continuation lines are folded into a section
type sectionKind int

const (
	// kindLine sections take their header line only
	kindLine sectionKind = iota
	// kindScalar sections join continuation lines with a single space
	kindScalar
	// kindList sections split header content and continuation lines on commas
	kindList
)

type header struct {
	prefix  string
	section section
	kind    sectionKind
}

// grammar is the ordered set of headers a response may use.
// Longer prefixes sharing a stem must come first.
type grammar []header

var factsGrammar = grammar{
	{"name:", sectionName, kindLine},
	{"dosage:", sectionDosage, kindScalar},
	{"frequency:", sectionFrequency, kindScalar},
	{"interactions:", sectionInteractions, kindList},
	{"alternatives:", sectionAlternatives, kindList},
}

var extractionGrammar = grammar{
	{"condition:", sectionCondition, kindLine},
	{"drug name:", sectionDrug, kindLine},
	{"drug:", sectionDrug, kindLine},
	{"dosage:", sectionDosage, kindScalar},
	{"frequency:", sectionFrequency, kindScalar},
	{"duration:", sectionDuration, kindScalar},
}

var (
	unknownLineRe  = regexp.MustCompile(`(?i)^` + UnknownSentinel)
	unknownTokenRe = regexp.MustCompile(`(?i)` + UnknownSentinel)
)

// placeholders the extraction prompt answers with when a field is absent
var extractionPlaceholders = map[string]bool{
	"...":            true,
	"n/a":            true,
	"na":             true,
	"none":           true,
	"unknown":        true,
	"not mentioned":  true,
	"not specified":  true,
	"not applicable": true,
	"-":              true,
}

// sectionMachine folds response lines into sections. Transitions:
//
//	header line          -> open(header.section) with the header's inline content
//	other line, open     -> continuation of the current section
//	other line, sectionNone -> ignored
type sectionMachine struct {
	grammar grammar
	state   section
	kind    sectionKind
	scalars map[section]string
	lists   map[section][]string
}

func newSectionMachine(g grammar) *sectionMachine {
	return &sectionMachine{
		grammar: g,
		state:   sectionNone,
		scalars: make(map[section]string),
		lists:   make(map[section][]string),
	}
}

// feed consumes one cleaned, non-empty line
func (m *sectionMachine) feed(line string) {
	if h, content, ok := m.matchHeader(line); ok {
		m.open(h, content)
		return
	}
	if m.state != sectionNone {
		m.continueSection(line)
	}
}

func (m *sectionMachine) matchHeader(line string) (header, string, bool) {
	for _, h := range m.grammar {
		if len(line) >= len(h.prefix) && strings.EqualFold(line[:len(h.prefix)], h.prefix) {
			return h, strings.TrimSpace(line[len(h.prefix):]), true
		}
	}
	return header{}, "", false
}

func (m *sectionMachine) open(h header, content string) {
	m.state = h.section
	m.kind = h.kind
	if content == "" {
		return
	}
	switch h.kind {
	case kindList:
		m.lists[h.section] = append(m.lists[h.section], splitItems(content)...)
	default:
		m.scalars[h.section] = content
	}
}

func (m *sectionMachine) continueSection(line string) {
	switch m.kind {
	case kindList:
		m.lists[m.state] = append(m.lists[m.state], splitItems(line)...)
	case kindScalar:
		if prev := m.scalars[m.state]; prev != "" {
			m.scalars[m.state] = prev + " " + line
		} else {
			m.scalars[m.state] = line
		}
	}
}

func (m *sectionMachine) list(s section) []string {
	if items, ok := m.lists[s]; ok {
		return items
	}
	return []string{}
}

// splitItems splits a comma-separated list, dropping empty items
func splitItems(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		item := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(part), "."))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// cleanLine strips surrounding whitespace, markdown emphasis and leading
// bullet markers so "**Dosage:** 5 mg" and "- aspirin" parse like plain lines
func cleanLine(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	line = strings.TrimSpace(line)
	return strings.TrimSpace(strings.TrimLeft(line, "*#-•"))
}

func responseLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if c := cleanLine(l); c != "" {
			lines = append(lines, c)
		}
	}
	return lines
}

// afterUnknownSentinel finds the first line that starts with the unknown
// sentinel, markdown aside, and returns the response text following the
// sentinel token byte for byte
func afterUnknownSentinel(text string) (string, bool) {
	offset := 0
	for _, raw := range strings.SplitAfter(text, "\n") {
		if unknownLineRe.MatchString(cleanLine(raw)) {
			loc := unknownTokenRe.FindStringIndex(raw)
			return text[offset+loc[1]:], true
		}
		offset += len(raw)
	}
	return "", false
}

// ParseFacts parses a drug-facts answer. A line starting with the unknown
// sentinel ends parsing with Recognized=false and the text after the sentinel
// kept verbatim as RawText. Text without any known section still yields a
// recognized record with empty fields.
func ParseFacts(text, queriedName string) entities.OracleFacts {
	facts := entities.OracleFacts{
		Name:         queriedName,
		Interactions: []string{},
		Alternatives: []string{},
		Recognized:   true,
		RawText:      strings.TrimSpace(text),
	}

	if rest, ok := afterUnknownSentinel(text); ok {
		facts.Recognized = false
		facts.RawText = rest
		return facts
	}

	m := newSectionMachine(factsGrammar)
	for _, line := range responseLines(text) {
		m.feed(line)
	}

	if name := m.scalars[sectionName]; name != "" {
		facts.Name = name
	}
	facts.Dosage = m.scalars[sectionDosage]
	facts.Frequency = m.scalars[sectionFrequency]
	facts.Interactions = m.list(sectionInteractions)
	facts.Alternatives = m.list(sectionAlternatives)
	return facts
}

// ParseExtraction parses an answer to the strict extraction prompt.
// Placeholder values such as "..." or "N/A" come back as empty strings.
func ParseExtraction(text string) entities.ExtractionFacts {
	m := newSectionMachine(extractionGrammar)
	for _, line := range responseLines(text) {
		m.feed(line)
	}

	field := func(s section) string {
		v := strings.TrimSpace(m.scalars[s])
		if extractionPlaceholders[strings.ToLower(v)] {
			return ""
		}
		return v
	}

	return entities.ExtractionFacts{
		Condition: field(sectionCondition),
		Drug:      field(sectionDrug),
		Dosage:    field(sectionDosage),
		Frequency: field(sectionFrequency),
		Duration:  field(sectionDuration),
	}
}
