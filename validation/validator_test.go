package validation

import (
	"strings"
	"testing"
)

func TestValidateDrugName(t *testing.T) {
	v := NewInputValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "Paracetamol", false},
		{"accented name", "Paracétamol", false},
		{"combination", "Amoxicillin/Clavulanate", false},
		{"with strength", "Vitamin B12 1000", false},
		{"surrounding spaces", "  aspirin  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too short", "a", true},
		{"too long", strings.Repeat("ab", 51), true},
		{"too many words", "one two three four five six seven", true},
		{"script tag", "<script>alert(1)</script>", true},
		{"sql injection", "aspirin' or 1=1", true},
		{"comment marker", "aspirin--", true},
		{"path traversal", "../etc/passwd", true},
		{"command substitution", "$(rm)", true},
		{"invalid characters", "aspirin;", true},
		{"excessive repetition", "aaaaaaaaaaaaspirin", true},
		{"punctuation only", "()", true},
		{"symbols only", "+/ .", true},
		{"single accented letter with digit", "é1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDrugName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDrugName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePrescriptionText(t *testing.T) {
	v := NewInputValidator()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"prescription", "Fever. Paracetamol 500 mg twice daily; Amoxicillin 250mg q8h for 7 days.", false},
		{"multiline", "Cough\nTake Dextromethorphan 10 ml every 6 hours", false},
		{"empty", "", true},
		{"blank", " \n\t ", true},
		{"too long", strings.Repeat("a", MaxPrescriptionLength+1), true},
		{"script", "Fever <script>alert(1)</script>", true},
		{"event handler", `<b onmouseover="x">`, true},
		{"javascript url", "see JavaScript:void(0)", true},
		{"invalid utf8", "Fever \xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePrescriptionText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrescriptionText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDrugList(t *testing.T) {
	v := NewInputValidator()

	tooMany := make([]string, MaxDrugsPerCheck+1)
	for i := range tooMany {
		tooMany[i] = "aspirin"
	}

	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"nil", nil, false},
		{"two drugs", []string{"Warfarin", "Aspirin"}, false},
		{"at limit", tooMany[:MaxDrugsPerCheck], false},
		{"over limit", tooMany, true},
		{"one invalid", []string{"Warfarin", "<script>"}, true},
		{"one empty", []string{"Warfarin", ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDrugList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDrugList() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDrugListNamesOffendingEntry(t *testing.T) {
	err := NewInputValidator().ValidateDrugList([]string{"Warfarin", "x"})
	if err == nil || !strings.HasPrefix(err.Error(), "drug 2:") {
		t.Errorf("error = %v, want prefix %q", err, "drug 2:")
	}
}

func TestValidateAge(t *testing.T) {
	v := NewInputValidator()

	for _, age := range []int{0, 1, 17, 18, 30, MaxAge} {
		if err := v.ValidateAge(age); err != nil {
			t.Errorf("ValidateAge(%d) unexpected error: %v", age, err)
		}
	}
	for _, age := range []int{-1, MaxAge + 1} {
		if err := v.ValidateAge(age); err == nil {
			t.Errorf("ValidateAge(%d) expected error", age)
		}
	}
}

func TestHasExcessiveRepetition(t *testing.T) {
	if hasExcessiveRepetition(strings.Repeat("a", 10)) {
		t.Error("10 repeated characters should be allowed")
	}
	if !hasExcessiveRepetition(strings.Repeat("a", 11)) {
		t.Error("11 repeated characters should be rejected")
	}
	if hasExcessiveRepetition("") {
		t.Error("empty input has no repetition")
	}
}
