// Package oracletest provides an in-memory oracle for tests
package oracletest

import (
	"context"
	"strings"
	"sync"

	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/oracle"
)

var _ interfaces.Oracle = (*Stub)(nil)

// Stub answers structured queries from Facts and free-form prompts from
// Freeform. Names missing from Facts are reported as unrecognized.
// Err, when set, is returned from every call.
type Stub struct {
	mu sync.Mutex

	Facts    map[string]entities.OracleFacts
	Freeform func(prompt string) (string, error)
	Err      error

	structuredCalls []string
	freeformCalls   []string
}

// NewStub returns a stub with the given structured answers, keyed by the
// queried name (case-insensitive)
func NewStub(facts map[string]entities.OracleFacts) *Stub {
	normalized := make(map[string]entities.OracleFacts, len(facts))
	for k, v := range facts {
		normalized[strings.ToLower(k)] = v
	}
	return &Stub{Facts: normalized}
}

// Failing returns a stub whose every call fails with oracle.ErrFailure
func Failing() *Stub {
	return &Stub{Err: oracle.ErrFailure}
}

// Unavailable returns a stub whose every call fails with oracle.ErrUnavailable
func Unavailable() *Stub {
	return &Stub{Err: oracle.ErrUnavailable}
}

func (s *Stub) QueryStructured(ctx context.Context, name string) (entities.OracleFacts, error) {
	s.mu.Lock()
	s.structuredCalls = append(s.structuredCalls, name)
	s.mu.Unlock()

	if s.Err != nil {
		return entities.OracleFacts{}, s.Err
	}
	if err := ctx.Err(); err != nil {
		return entities.OracleFacts{}, oracle.ErrFailure
	}

	facts, ok := s.Facts[strings.ToLower(name)]
	if !ok {
		return entities.OracleFacts{
			Name:         name,
			Interactions: []string{},
			Alternatives: []string{},
			Recognized:   false,
		}, nil
	}
	if facts.Name == "" {
		facts.Name = name
	}
	return facts, nil
}

func (s *Stub) QueryFreeform(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.freeformCalls = append(s.freeformCalls, prompt)
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	if s.Freeform == nil {
		return "", oracle.ErrFailure
	}
	return s.Freeform(prompt)
}

// StructuredCalls returns the names passed to QueryStructured, in call order
func (s *Stub) StructuredCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.structuredCalls...)
}

// FreeformCalls returns the prompts passed to QueryFreeform, in call order
func (s *Stub) FreeformCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.freeformCalls...)
}

// Recognized builds a recognized facts record
func Recognized(name, dosage string, interactions, alternatives []string) entities.OracleFacts {
	if interactions == nil {
		interactions = []string{}
	}
	if alternatives == nil {
		alternatives = []string{}
	}
	return entities.OracleFacts{
		Name:         name,
		Dosage:       dosage,
		Interactions: interactions,
		Alternatives: alternatives,
		Recognized:   true,
	}
}
