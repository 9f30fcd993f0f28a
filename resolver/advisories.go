package resolver

import (
	"fmt"
	"strings"
)

// User-facing advisory strings returned in place of missing data
const (
	AdviceDosageNotFound = "Dosage information not found; consult a healthcare professional."

	AdviceNoKnownInteractions     = "No known interactions with the provided drugs"
	AdviceInteractionsFailure     = "Unable to fetch interaction data from the drug information service"
	AdviceInteractionsUnavailable = "Drug information service not available for interaction check"

	AdviceNoAlternatives          = "No specific alternatives found. Please consult a healthcare professional."
	AdviceAlternativesFailure     = "Unable to fetch alternatives from the drug information service. Please consult a healthcare professional."
	AdviceAlternativesUnavailable = "Drug information service not available. Please consult a healthcare professional for alternatives."

	AdviceNoInteractions      = "No specific interactions found. Please consult a healthcare professional."
	AdviceCombinedFailure     = "Unable to fetch data from the drug information service. Please consult a healthcare professional."
	AdviceCombinedUnavailable = "Drug information service not available. Please consult a healthcare professional."
)

// summaryLimit caps the substances listed in an interaction summary
const summaryLimit = 5

// NotRecognized is the advisory for a term the oracle does not know as a medication
func NotRecognized(name string) string {
	return fmt.Sprintf("'%s' is not a recognized medication. Please consult a healthcare professional.", name)
}

// notRecognizedShort is the interaction-check variant of NotRecognized
func notRecognizedShort(name string) string {
	return fmt.Sprintf("'%s' is not a recognized medication", name)
}

// interactionSummary lists at most summaryLimit substances, adding
// " and others" when more remain
func interactionSummary(substances []string) string {
	shown := substances
	if len(shown) > summaryLimit {
		shown = shown[:summaryLimit]
	}
	summary := "May interact with: " + strings.Join(shown, ", ")
	if len(substances) > summaryLimit {
		summary += " and others"
	}
	return summary
}
