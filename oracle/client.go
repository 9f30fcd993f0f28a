// Package oracle queries the generative drug-information service and parses
// its free-text answers into structured facts
package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/ratelimit"

	"github.com/giygas/medibot-api/config"
	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/metrics"
)

// Query kinds used in logs and metrics
const (
	KindStructured = "structured"
	KindFreeform   = "freeform"
)

// Modes reported by Mode
const (
	ModeDisabled = "disabled"
	ModeREST     = "rest"
	ModeSDK      = "sdk"
)

var (
	_ interfaces.Oracle = (*Client)(nil)
	_ interfaces.Oracle = Disabled{}
)

// errQuotaExhausted is wrapped in ErrFailure when the local quota guard refuses a call
var errQuotaExhausted = errors.New("local request quota exhausted")

// Client is a configured oracle. It is safe for concurrent use.
type Client struct {
	transport Transport
	limiter   *ratelimit.Bucket
	mode      string
}

// Option customizes a Client
type Option func(*Client)

// WithRateLimit guards the oracle with a token bucket refilled at perSecond.
// Calls that find the bucket empty fail immediately instead of waiting.
func WithRateLimit(perSecond float64, burst int64) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.limiter = ratelimit.NewBucketWithRate(perSecond, burst)
		}
	}
}

// WithMode sets the mode label reported by Mode
func WithMode(mode string) Option {
	return func(c *Client) { c.mode = mode }
}

// NewClient wraps transport into an oracle
func NewClient(transport Transport, opts ...Option) *Client {
	c := &Client{transport: transport, mode: ModeREST}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New builds the oracle described by cfg. Without an API key it returns
// Disabled, which reports ErrUnavailable on every query.
func New(ctx context.Context, cfg *config.Config) (interfaces.Oracle, error) {
	if !cfg.OracleEnabled() {
		logging.Warn("GEMINI_API_KEY not set, drug information service disabled")
		return Disabled{}, nil
	}

	var (
		transport Transport
		mode      string
	)
	switch cfg.OracleTransport {
	case config.TransportSDK:
		t, err := NewGenAITransport(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.OracleTimeout)
		if err != nil {
			return nil, fmt.Errorf("oracle sdk transport: %w", err)
		}
		transport, mode = t, ModeSDK
	default:
		transport, mode = NewRESTTransport(cfg.GeminiEndpoint, cfg.GeminiAPIKey, cfg.OracleTimeout), ModeREST
	}

	logging.Info("Drug information service configured",
		"mode", mode,
		"model", cfg.GeminiModel,
		"timeout", cfg.OracleTimeout,
		"rate_per_second", cfg.OracleRatePerSecond,
	)
	return NewClient(transport, WithMode(mode), WithRateLimit(cfg.OracleRatePerSecond, cfg.OracleBurst)), nil
}

// QueryStructured asks for dosage, frequency, interactions and alternatives of name
func (c *Client) QueryStructured(ctx context.Context, name string) (entities.OracleFacts, error) {
	text, elapsed, err := c.generate(ctx, KindStructured, DrugFactsPrompt(name))
	if err != nil {
		return entities.OracleFacts{}, err
	}

	facts := ParseFacts(text, name)
	outcome := metrics.OutcomeOK
	if !facts.Recognized {
		outcome = metrics.OutcomeUnrecognized
		logging.Debug("Oracle did not recognize medication", "name", name)
	}
	metrics.ObserveOracleCall(KindStructured, outcome, elapsed)
	return facts, nil
}

// QueryFreeform sends prompt verbatim and returns the raw answer
func (c *Client) QueryFreeform(ctx context.Context, prompt string) (string, error) {
	text, elapsed, err := c.generate(ctx, KindFreeform, prompt)
	if err != nil {
		return "", err
	}
	metrics.ObserveOracleCall(KindFreeform, metrics.OutcomeOK, elapsed)
	return text, nil
}

// Mode reports which transport backs the client
func (c *Client) Mode() string {
	return c.mode
}

// Close releases transport resources
func (c *Client) Close() error {
	if closer, ok := c.transport.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// generate runs one transport call. Failures are recorded here and successes
// by the caller, which knows the final outcome.
func (c *Client) generate(ctx context.Context, kind, prompt string) (string, time.Duration, error) {
	callID := uuid.NewString()
	log := logging.With("call_id", callID, "kind", kind)
	start := time.Now()

	if c.limiter != nil && c.limiter.TakeAvailable(1) < 1 {
		metrics.ObserveOracleCall(kind, metrics.OutcomeQuotaExhausted, time.Since(start))
		log.Warn("Oracle call refused by quota guard")
		return "", 0, fmt.Errorf("%w: %w", ErrFailure, errQuotaExhausted)
	}

	text, err := c.transport.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveOracleCall(kind, metrics.OutcomeFailure, elapsed)
		log.Warn("Oracle call failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return "", elapsed, fmt.Errorf("%w: %w", ErrFailure, err)
	}

	log.Debug("Oracle call succeeded", "duration_ms", elapsed.Milliseconds(), "answer_bytes", len(text))
	return text, elapsed, nil
}

// Disabled is the oracle used when no credential is configured
type Disabled struct{}

func (Disabled) QueryStructured(context.Context, string) (entities.OracleFacts, error) {
	return entities.OracleFacts{}, ErrUnavailable
}

func (Disabled) QueryFreeform(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// Mode reports ModeDisabled
func (Disabled) Mode() string {
	return ModeDisabled
}

// Moder is implemented by oracles that can report their transport mode
type Moder interface {
	Mode() string
}

// ModeOf returns the mode of o, or "custom" for oracles that do not report one
func ModeOf(o interfaces.Oracle) string {
	if m, ok := o.(Moder); ok {
		return m.Mode()
	}
	return "custom"
}
