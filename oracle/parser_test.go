package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFactsSections(t *testing.T) {
	text := `Name: Ibuprofen
Dosage: 200-400 mg every 4-6 hours
for adults
Frequency: Every 4-6 hours as needed
Interactions: Aspirin, Warfarin,
Lithium.
Alternatives: Naproxen, Paracetamol`

	facts := ParseFacts(text, "ibuprofen")

	assert.True(t, facts.Recognized)
	assert.Equal(t, "Ibuprofen", facts.Name)
	assert.Equal(t, "200-400 mg every 4-6 hours for adults", facts.Dosage)
	assert.Equal(t, "Every 4-6 hours as needed", facts.Frequency)
	assert.Equal(t, []string{"Aspirin", "Warfarin", "Lithium"}, facts.Interactions)
	assert.Equal(t, []string{"Naproxen", "Paracetamol"}, facts.Alternatives)
}

func TestParseFactsMarkdown(t *testing.T) {
	text := `**Name:** Metformin
**Dosage:** 500 mg
**Interactions:**
- Alcohol
- Contrast dye
**Alternatives:** Sitagliptin`

	facts := ParseFacts(text, "metformin")

	assert.Equal(t, "Metformin", facts.Name)
	assert.Equal(t, "500 mg", facts.Dosage)
	assert.Equal(t, []string{"Alcohol", "Contrast dye"}, facts.Interactions)
	assert.Equal(t, []string{"Sitagliptin"}, facts.Alternatives)
}

func TestParseFactsHeadersAreCaseInsensitive(t *testing.T) {
	facts := ParseFacts("NAME: Foo\ndosage: 1 g\nALTERNATIVES: Bar", "foo")

	assert.Equal(t, "Foo", facts.Name)
	assert.Equal(t, "1 g", facts.Dosage)
	assert.Equal(t, []string{"Bar"}, facts.Alternatives)
}

func TestParseFactsUnknownSentinel(t *testing.T) {
	text := "UNKNOWN_MEDICATION: 'zorblax' looks like a fictional name.\nName: ignored"

	facts := ParseFacts(text, "zorblax")

	assert.False(t, facts.Recognized)
	assert.Equal(t, "zorblax", facts.Name)
	assert.Equal(t, ": 'zorblax' looks like a fictional name.\nName: ignored", facts.RawText)
	assert.Empty(t, facts.Dosage)
	assert.NotNil(t, facts.Interactions)
	assert.NotNil(t, facts.Alternatives)
}

func TestParseFactsUnknownSentinelKeepsTextVerbatim(t *testing.T) {
	text := "Dosage: 5 mg\r\n**unknown_medication**  maybe a *brand*,\r\n  - or a typo  \n"

	facts := ParseFacts(text, "zorblax")

	assert.False(t, facts.Recognized)
	assert.Equal(t, "**  maybe a *brand*,\r\n  - or a typo  \n", facts.RawText)
	assert.Empty(t, facts.Dosage)
}

func TestParseFactsNoSections(t *testing.T) {
	facts := ParseFacts("I am not sure what you mean.", "thing")

	assert.True(t, facts.Recognized)
	assert.Equal(t, "thing", facts.Name)
	assert.Empty(t, facts.Dosage)
	assert.Equal(t, []string{}, facts.Interactions)
	assert.Equal(t, []string{}, facts.Alternatives)
	assert.Equal(t, "I am not sure what you mean.", facts.RawText)
}

func TestParseFactsIgnoresPreamble(t *testing.T) {
	facts := ParseFacts("Here is the information you asked for.\n\nDosage: 5 mg", "x")

	assert.Equal(t, "5 mg", facts.Dosage)
}

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(t *testing.T, text string)
	}{
		{
			name: "all fields",
			text: "Condition: Acid reflux\nDrug: Omeprazole\nDosage: 20 mg\nFrequency: once daily\nDuration: 14 days",
			want: func(t *testing.T, text string) {
				got := ParseExtraction(text)
				assert.Equal(t, "Acid reflux", got.Condition)
				assert.Equal(t, "Omeprazole", got.Drug)
				assert.Equal(t, "20 mg", got.Dosage)
				assert.Equal(t, "once daily", got.Frequency)
				assert.Equal(t, "14 days", got.Duration)
				assert.False(t, got.Empty())
			},
		},
		{
			name: "drug name header",
			text: "Drug name: Amoxicillin\nDosage: N/A",
			want: func(t *testing.T, text string) {
				got := ParseExtraction(text)
				assert.Equal(t, "Amoxicillin", got.Drug)
				assert.Empty(t, got.Dosage)
			},
		},
		{
			name: "placeholders only",
			text: "Condition: ...\nDrug: ...\nDosage: none\nFrequency: Not specified\nDuration: -",
			want: func(t *testing.T, text string) {
				got := ParseExtraction(text)
				require.True(t, got.Empty())
				assert.Empty(t, got.Condition)
				assert.Empty(t, got.Duration)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, tt.text)
		})
	}
}

func TestPromptsCarryName(t *testing.T) {
	prompt := DrugFactsPrompt("warfarin")
	assert.Contains(t, prompt, "'warfarin'")
	assert.Contains(t, prompt, UnknownSentinel)
	assert.Contains(t, prompt, "Alternatives:")

	assert.Contains(t, ExtractionPrompt("take 2 tablets"), "Input: 'take 2 tablets'")
}
