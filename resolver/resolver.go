// Package resolver answers dosage, alternatives and interaction questions
// from the knowledge base first and the oracle second. Every failure is
// turned into an advisory string; nothing here returns an error.
package resolver

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/knowledge"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/oracle"
)

var _ interfaces.Resolver = (*Resolver)(nil)

const defaultConcurrency = 4

var childClauseRe = regexp.MustCompile(`(?i)child(?:ren)?[:\s]+(.*?)(?:\.\s|\.$|;|\n|$)`)

// Resolver combines the knowledge base with the oracle
type Resolver struct {
	kb          interfaces.KnowledgeBase
	oracle      interfaces.Oracle
	concurrency int
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithConcurrency bounds the parallel oracle queries of one interaction check
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New creates a resolver. A nil oracle behaves like oracle.Disabled.
func New(kb interfaces.KnowledgeBase, o interfaces.Oracle, opts ...Option) *Resolver {
	if o == nil {
		o = oracle.Disabled{}
	}
	r := &Resolver{kb: kb, oracle: o, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveDosage answers from the knowledge base when the drug is known,
// otherwise from the oracle
func (r *Resolver) ResolveDosage(ctx context.Context, name string, age int) string {
	display := strings.TrimSpace(name)
	key := knowledge.Normalize(display)

	if key != "" {
		if dosage, ok := r.kb.Dosage(key, age); ok {
			logging.Debug("Dosage resolved from knowledge base", "drug", key, "age", age)
			return dosage
		}
	}

	facts, err := r.oracle.QueryStructured(ctx, display)
	if err != nil {
		logOracleError("dosage", display, err)
		return AdviceDosageNotFound
	}
	if !facts.Recognized {
		return NotRecognized(display)
	}

	if facts.Dosage != "" {
		if isChild(age) && strings.Contains(strings.ToLower(facts.Dosage), "child") {
			if m := childClauseRe.FindStringSubmatch(facts.Dosage); m != nil {
				if clause := strings.TrimSpace(m[1]); clause != "" {
					return clause
				}
			}
		}
		return facts.Dosage
	}
	if facts.RawText != "" {
		return facts.RawText
	}
	return AdviceDosageNotFound
}

// ResolveAlternatives always asks the oracle, even for drugs the knowledge
// base knows
func (r *Resolver) ResolveAlternatives(ctx context.Context, name string) []string {
	display := strings.TrimSpace(name)

	facts, err := r.oracle.QueryStructured(ctx, display)
	switch {
	case errors.Is(err, oracle.ErrUnavailable):
		return []string{AdviceAlternativesUnavailable}
	case err != nil:
		logOracleError("alternatives", display, err)
		return []string{AdviceAlternativesFailure}
	case !facts.Recognized:
		return []string{NotRecognized(display)}
	case len(facts.Alternatives) == 0:
		return []string{AdviceNoAlternatives}
	}
	return facts.Alternatives
}

// ResolveAlternativesAndInteractions answers both questions with one oracle call
func (r *Resolver) ResolveAlternativesAndInteractions(ctx context.Context, name string) entities.AlternativesAndInteractions {
	display := strings.TrimSpace(name)
	both := func(msg string) entities.AlternativesAndInteractions {
		return entities.AlternativesAndInteractions{
			Alternatives: []string{msg},
			Interactions: []string{msg},
		}
	}

	facts, err := r.oracle.QueryStructured(ctx, display)
	switch {
	case errors.Is(err, oracle.ErrUnavailable):
		return both(AdviceCombinedUnavailable)
	case err != nil:
		logOracleError("alternatives and interactions", display, err)
		return both(AdviceCombinedFailure)
	case !facts.Recognized:
		return both(NotRecognized(display))
	}

	out := entities.AlternativesAndInteractions{
		Alternatives: facts.Alternatives,
		Interactions: facts.Interactions,
	}
	if len(out.Alternatives) == 0 {
		out.Alternatives = []string{AdviceNoAlternatives}
	}
	if len(out.Interactions) == 0 {
		out.Interactions = []string{AdviceNoInteractions}
	}
	return out
}

// queried is one distinct drug of an interaction check
type queried struct {
	key     string
	display string
	facts   entities.OracleFacts
	err     error
}

// ResolveInteractions checks every drug against the others. Each key of the
// result holds exactly one of: the other queried drugs named in the oracle's
// interaction list, a summary of that list, a not-recognized notice, an
// oracle notice, or the no-known-interactions default.
func (r *Resolver) ResolveInteractions(ctx context.Context, drugs []string) entities.InteractionResult {
	unique := distinctDrugs(drugs)
	result := make(entities.InteractionResult, len(unique))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := range unique {
		q := &unique[i]
		g.Go(func() error {
			q.facts, q.err = r.oracle.QueryStructured(ctx, q.display)
			return nil
		})
	}
	_ = g.Wait()

	for _, q := range unique {
		result[q.key] = interactionsFor(q, unique)
	}
	return result
}

func interactionsFor(q queried, all []queried) []string {
	switch {
	case errors.Is(q.err, oracle.ErrUnavailable):
		return []string{AdviceInteractionsUnavailable}
	case q.err != nil:
		logOracleError("interactions", q.display, q.err)
		return []string{AdviceInteractionsFailure}
	case !q.facts.Recognized:
		return []string{notRecognizedShort(q.display)}
	}

	substances := make([]string, 0, len(q.facts.Interactions))
	for _, s := range q.facts.Interactions {
		if k := knowledge.Normalize(s); k != "" {
			substances = append(substances, k)
		}
	}

	var found []string
	for _, other := range all {
		if other.key == q.key {
			continue
		}
		for _, s := range substances {
			if strings.Contains(other.key, s) {
				found = append(found, other.display)
				break
			}
		}
	}

	switch {
	case len(found) > 0:
		return found
	case len(q.facts.Interactions) > 0:
		return []string{interactionSummary(q.facts.Interactions)}
	default:
		return []string{AdviceNoKnownInteractions}
	}
}

// distinctDrugs keys drugs by canonical name in input order. The first
// spelling of a key is kept for display; names with an empty key are dropped.
func distinctDrugs(drugs []string) []queried {
	seen := make(map[string]bool, len(drugs))
	out := make([]queried, 0, len(drugs))
	for _, d := range drugs {
		display := strings.TrimSpace(d)
		key := knowledge.Normalize(display)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, queried{key: key, display: display})
	}
	return out
}

func isChild(age int) bool {
	return age > 0 && age < knowledge.ChildAgeLimit
}

func logOracleError(query, drug string, err error) {
	if errors.Is(err, oracle.ErrUnavailable) {
		logging.Debug("Drug information service unavailable", "query", query, "drug", drug)
		return
	}
	logging.Warn("Drug information lookup failed", "query", query, "drug", drug, "error", err)
}
