package oracle

import "fmt"

// UnknownSentinel is the token the oracle is told to lead with when the
// queried term is not a medication
const UnknownSentinel = "UNKNOWN_MEDICATION"

const drugFactsTemplate = `Provide detailed pharmaceutical information for the drug '%[1]s'.

If '%[1]s' is not a recognized medication, please respond with '%[2]s' at the beginning of your response, followed by your best guess about what this might be, if possible.

For recognized medications, include the following sections:
Name: (standard name)
Dosage: (typical dosage ranges for adults and children if applicable)
Frequency: (how often it should be taken)
Interactions: (list major drug interactions, separated by commas)
Alternatives: (list alternative medications, separated by commas)

Format as plain text with clear section headers.`

const extractionTemplate = `You are a medical text extractor.
Task: Parse prescriptions into structured data.
Rules:
- Only list actual drugs, not symptoms or conditions.
- If a condition is mentioned (e.g., 'Acid reflux'), place it under 'Condition'.
- Extract: Condition, Drug name, Dosage, Frequency, Duration.
- Ignore non-drug terms like 'acid', 'fever', 'pain', etc.
- Always include 'Duration' if mentioned.

Input: '%s'
Output format:
Condition: ...
Drug: ...
Dosage: ...
Frequency: ...
Duration: ...`

// DrugFactsPrompt builds the fixed-shape drug-facts request for name
func DrugFactsPrompt(name string) string {
	return fmt.Sprintf(drugFactsTemplate, name, UnknownSentinel)
}

// ExtractionPrompt builds the strict extraction request for a text fragment
func ExtractionPrompt(input string) string {
	return fmt.Sprintf(extractionTemplate, input)
}
