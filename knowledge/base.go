// Package knowledge provides the curated, read-only drug knowledge base and
// the name normalization used as the join key between user input, the table
// and oracle answers.
package knowledge

import (
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/interfaces"
)

// Compile-time check to ensure Base implements KnowledgeBase
var _ interfaces.KnowledgeBase = (*Base)(nil)

// ChildAgeLimit is the first age that uses adult dosing
const ChildAgeLimit = 18

// Base is an immutable index of knowledge entries keyed by canonical name
type Base struct {
	entries map[string]entities.KnowledgeEntry
	names   []string
}

var (
	defaultBase     *Base
	defaultBaseOnce sync.Once
)

// Default returns the process-wide knowledge base built from the curated table
func Default() *Base {
	defaultBaseOnce.Do(func() {
		defaultBase = New(curatedEntries)
	})
	return defaultBase
}

// New builds a knowledge base from entries. Later entries with the same
// canonical key replace earlier ones. Entries are copied.
func New(entries []entities.KnowledgeEntry) *Base {
	b := &Base{entries: make(map[string]entities.KnowledgeEntry, len(entries))}
	for _, e := range entries {
		key := Normalize(e.CanonicalName)
		if key == "" {
			continue
		}
		b.entries[key] = cloneEntry(e)
	}

	b.names = make([]string, 0, len(b.entries))
	for key := range b.entries {
		b.names = append(b.names, key)
	}
	sort.Strings(b.names)
	return b
}

// Lookup returns the entry for a canonical key. Only exact key matches hit.
func (b *Base) Lookup(key string) (entities.KnowledgeEntry, bool) {
	e, ok := b.entries[key]
	if !ok {
		return entities.KnowledgeEntry{}, false
	}
	return cloneEntry(e), true
}

// Dosage returns the age-banded dosage for a canonical key
func (b *Base) Dosage(key string, age int) (string, bool) {
	e, ok := b.entries[key]
	if !ok {
		return "", false
	}
	return DosageFor(e, age), true
}

// Names returns all canonical keys in sorted order
func (b *Base) Names() []string {
	return slices.Clone(b.names)
}

// Len returns the number of entries
func (b *Base) Len() int {
	return len(b.entries)
}

// DosageFor applies the age-banding rule: children (0 < age < 18) get the
// child band when one exists, everybody else the adult band. Entries with a
// single band of another kind return that band. An age of zero or less means
// the age is unknown and is treated as adult.
func DosageFor(e entities.KnowledgeEntry, age int) string {
	if age > 0 && age < ChildAgeLimit {
		if d, ok := e.DosageByBand[entities.BandChild]; ok {
			return d
		}
	}
	if d, ok := e.DosageByBand[entities.BandAdult]; ok {
		return d
	}
	for _, band := range slices.Sorted(maps.Keys(e.DosageByBand)) {
		return e.DosageByBand[band]
	}
	return ""
}

func cloneEntry(e entities.KnowledgeEntry) entities.KnowledgeEntry {
	return entities.KnowledgeEntry{
		CanonicalName: e.CanonicalName,
		DosageByBand:  maps.Clone(e.DosageByBand),
		Alternatives:  slices.Clone(e.Alternatives),
		Interactions:  slices.Clone(e.Interactions),
		Uses:          slices.Clone(e.Uses),
	}
}
