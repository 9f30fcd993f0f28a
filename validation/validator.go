// Package validation provides request input validation for the medibot API.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/knowledge"
)

// Input limits
const (
	MinDrugNameLength     = 2
	MaxDrugNameLength     = 100
	MaxDrugNameWords      = 6
	MaxPrescriptionLength = 5000
	MaxDrugsPerCheck      = 20
	MaxAge                = 130
)

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Drug names: letters (accented included), digits, spaces and safe punctuation
	drugNameRegex = regexp.MustCompile(`^[\p{L}0-9\s\-\.\+'/(),]+$`)

	// strings.Contains is faster than regex for these
	namePatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"onclick=", "onmouseover=", "eval(", "expression(", "@import",
		// SQL injection patterns
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "execute(",
		// Command injection patterns
		"`", "$(", "${",
		// Path traversal patterns
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection patterns
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}

	// Prescription text is free prose, so only markup and script payloads are refused
	textPatterns = []string{
		"<script", "</script>", "<iframe", "<object", "<embed", "<svg", "<img",
		"javascript:", "vbscript:", "data:text/html", "onload=", "onerror=",
		"onclick=", "onmouseover=", "onfocus=", "eval(", "expression(",
	}
)

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() interfaces.InputValidator {
	return &InputValidatorImpl{}
}

// ValidateDrugName validates a single drug name
func (v *InputValidatorImpl) ValidateDrugName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("drug name cannot be empty")
	}

	length := utf8.RuneCountInString(trimmed)
	if length < MinDrugNameLength {
		return fmt.Errorf("drug name too short: minimum %d characters", MinDrugNameLength)
	}
	if length > MaxDrugNameLength {
		return fmt.Errorf("drug name too long: maximum %d characters", MaxDrugNameLength)
	}

	if len(strings.Fields(trimmed)) > MaxDrugNameWords {
		return fmt.Errorf("drug name too complex: maximum %d words allowed", MaxDrugNameWords)
	}

	if containsAny(strings.ToLower(trimmed), namePatterns) {
		return fmt.Errorf("drug name contains potentially dangerous content")
	}

	if !drugNameRegex.MatchString(trimmed) {
		return fmt.Errorf("drug name contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, slashes, commas, parentheses and plus sign are allowed")
	}

	if hasExcessiveRepetition(trimmed) {
		return fmt.Errorf("drug name contains excessive character repetition")
	}

	// Names are keyed by their normalized form; an empty key matches nothing
	if knowledge.Normalize(trimmed) == "" {
		return fmt.Errorf("drug name must contain at least one letter or digit")
	}

	return nil
}

// ValidatePrescriptionText validates the free text sent for extraction
func (v *InputValidatorImpl) ValidatePrescriptionText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("prescription text cannot be empty")
	}

	if utf8.RuneCountInString(text) > MaxPrescriptionLength {
		return fmt.Errorf("prescription text too long: maximum %d characters", MaxPrescriptionLength)
	}

	if !utf8.ValidString(text) {
		return fmt.Errorf("prescription text is not valid UTF-8")
	}

	if containsAny(strings.ToLower(text), textPatterns) {
		return fmt.Errorf("prescription text contains potentially dangerous content")
	}

	return nil
}

// ValidateDrugList validates the drugs of an interaction check.
// An empty list is accepted and yields an empty result.
func (v *InputValidatorImpl) ValidateDrugList(drugs []string) error {
	if len(drugs) > MaxDrugsPerCheck {
		return fmt.Errorf("too many drugs: maximum %d per check", MaxDrugsPerCheck)
	}

	for i, d := range drugs {
		if err := v.ValidateDrugName(d); err != nil {
			return fmt.Errorf("drug %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateAge validates an age in years. Zero means unknown.
func (v *InputValidatorImpl) ValidateAge(age int) error {
	if age < 0 {
		return fmt.Errorf("age cannot be negative")
	}
	if age > MaxAge {
		return fmt.Errorf("age too large: maximum %d", MaxAge)
	}
	return nil
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// hasExcessiveRepetition reports the same byte repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	run := 1
	for i := 1; i < len(input); i++ {
		if input[i] == input[i-1] {
			run++
			if run > 10 {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}
