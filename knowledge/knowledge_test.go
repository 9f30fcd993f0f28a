package knowledge

import (
	"testing"

	"github.com/giygas/medibot-api/entities"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Paracetamol", "paracetamol"},
		{"PARACETAMOL", "paracetamol"},
		{"Para-cetamol", "paracetamol"},
		{"Ibu-Profen", "ibuprofen"},
		{"  insulin glargine ", "insulinglargine"},
		{"Vitamin B12", "vitaminb12"},
		{"Paracétamol", "paracetamol"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Para-cetamol", "Co-Amoxiclav 625", "ÉSOMÉPRAZOLE", "a_b.c/d", "日本"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}

	if Normalize("Para-cetamol") != Normalize("PARACETAMOL") {
		t.Error("Expected punctuation and case to be ignored")
	}
}

func TestDefaultBaseLookup(t *testing.T) {
	base := Default()

	if base.Len() == 0 {
		t.Fatal("Expected curated entries to be loaded")
	}

	entry, ok := base.Lookup("paracetamol")
	if !ok {
		t.Fatal("Expected paracetamol to be present")
	}
	if entry.CanonicalName != "paracetamol" {
		t.Errorf("Expected canonical name paracetamol, got %s", entry.CanonicalName)
	}
	if len(entry.Alternatives) == 0 {
		t.Error("Expected alternatives for paracetamol")
	}

	// exact match only
	for _, key := range []string{"paracetamo", "paracetamol500", "Paracetamol"} {
		if _, ok := base.Lookup(key); ok {
			t.Errorf("Expected %q to be absent", key)
		}
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	base := Default()

	entry, _ := base.Lookup("ibuprofen")
	entry.Alternatives[0] = "mutated"
	entry.DosageByBand[entities.BandAdult] = "mutated"

	again, _ := base.Lookup("ibuprofen")
	if again.Alternatives[0] == "mutated" {
		t.Error("Lookup result shares alternatives with the table")
	}
	if again.DosageByBand[entities.BandAdult] == "mutated" {
		t.Error("Lookup result shares dosage bands with the table")
	}
}

func TestDosageFor(t *testing.T) {
	withChild := entities.KnowledgeEntry{
		CanonicalName: "x",
		DosageByBand: map[entities.AgeBand]string{
			entities.BandAdult: "adult dose",
			entities.BandChild: "child dose",
		},
	}
	adultOnly := entities.KnowledgeEntry{
		CanonicalName: "y",
		DosageByBand:  map[entities.AgeBand]string{entities.BandAdult: "adult dose"},
	}
	childOnly := entities.KnowledgeEntry{
		CanonicalName: "z",
		DosageByBand:  map[entities.AgeBand]string{entities.BandChild: "child dose"},
	}

	tests := []struct {
		name     string
		entry    entities.KnowledgeEntry
		age      int
		expected string
	}{
		{"child band for child", withChild, 10, "child dose"},
		{"adult band for adult", withChild, 30, "adult dose"},
		{"eighteen is adult", withChild, 18, "adult dose"},
		{"seventeen is child", withChild, 17, "child dose"},
		{"unknown age is adult", withChild, 0, "adult dose"},
		{"adult band when no child band", adultOnly, 10, "adult dose"},
		{"single band fallback", childOnly, 40, "child dose"},
		{"no bands", entities.KnowledgeEntry{}, 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DosageFor(tt.entry, tt.age)
			if got != tt.expected {
				t.Errorf("DosageFor(age=%d) = %q, want %q", tt.age, got, tt.expected)
			}
		})
	}
}

func TestBaseDosage(t *testing.T) {
	base := Default()

	got, ok := base.Dosage("paracetamol", 10)
	if !ok || got != "10-15 mg/kg q6-8h" {
		t.Errorf("Expected child paracetamol dosage, got %q (found=%v)", got, ok)
	}

	got, ok = base.Dosage("aspirin", 10)
	if !ok || got != "75-325 mg/day (cardiac), up to 4 g/day (pain)" {
		t.Errorf("Expected adult aspirin dosage for child without child band, got %q", got)
	}

	if _, ok := base.Dosage("unobtainium", 30); ok {
		t.Error("Expected unknown drug to miss")
	}
}

func TestNewSkipsEmptyKeysAndSortsNames(t *testing.T) {
	base := New([]entities.KnowledgeEntry{
		{CanonicalName: "Zopiclone", DosageByBand: map[entities.AgeBand]string{entities.BandAdult: "7.5 mg"}},
		{CanonicalName: "---"},
		{CanonicalName: "Amiodarone", DosageByBand: map[entities.AgeBand]string{entities.BandAdult: "200 mg"}},
	})

	if base.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", base.Len())
	}
	names := base.Names()
	if names[0] != "amiodarone" || names[1] != "zopiclone" {
		t.Errorf("Expected sorted canonical names, got %v", names)
	}
}
