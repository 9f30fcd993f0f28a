// Package entities holds the data types shared by the extraction pipeline,
// the knowledge base, the oracle adapter and the resolver.
package entities

// DrugRecord is one medication found in prescription text.
// Empty strings mean the field could not be determined.
type DrugRecord struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Symptom   string `json:"symptom"`
	Duration  string `json:"duration,omitempty"`
}

// AgeBand selects a dosage band in the knowledge base
type AgeBand string

const (
	BandAdult AgeBand = "adult"
	BandChild AgeBand = "child"
)

// KnowledgeEntry is a curated drug entry. Entries are built once at startup
// and must not be mutated afterwards.
type KnowledgeEntry struct {
	CanonicalName string             `json:"name"`
	DosageByBand  map[AgeBand]string `json:"dosage"`
	Alternatives  []string           `json:"alternatives"`
	Interactions  []string           `json:"interactions"`
	Uses          []string           `json:"uses"`
}

// OracleFacts is the parsed answer to a drug-facts query.
// Recognized=false means the oracle classified the term as not a medication.
type OracleFacts struct {
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Interactions []string `json:"interactions"`
	Alternatives []string `json:"alternatives"`
	Recognized   bool     `json:"is_recognized"`
	RawText      string   `json:"raw_text,omitempty"`
}

// ExtractionFacts is the parsed answer to the strict extraction prompt
type ExtractionFacts struct {
	Condition string `json:"condition"`
	Drug      string `json:"drug"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// Empty reports whether no drug-level field was extracted
func (f ExtractionFacts) Empty() bool {
	return f.Drug == "" && f.Dosage == "" && f.Frequency == ""
}

// InteractionResult maps a canonical drug key to its interaction findings
// or to a single advisory line.
type InteractionResult map[string][]string

// AlternativesAndInteractions is the combined single-call answer for one drug
type AlternativesAndInteractions struct {
	Alternatives []string `json:"alternatives"`
	Interactions []string `json:"interactions"`
}
