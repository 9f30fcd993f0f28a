// Package interfaces defines core abstractions for the medibot API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/medibot-api/entities"
)

// KnowledgeBase defines read-only access to the curated drug table.
// Keys are canonical (normalized) drug names.
type KnowledgeBase interface {
	Lookup(key string) (entities.KnowledgeEntry, bool)
	Dosage(key string, age int) (string, bool)
	Names() []string
	Len() int
}

// Oracle defines the contract for the external natural-language drug oracle.
// Implementations never panic; every failure is reported as an error that
// wraps one of the oracle package sentinels.
type Oracle interface {
	// QueryStructured asks for the standard drug-facts sections for name
	QueryStructured(ctx context.Context, name string) (entities.OracleFacts, error)

	// QueryFreeform sends prompt verbatim and returns the first text candidate
	QueryFreeform(ctx context.Context, prompt string) (string, error)
}

// Extractor turns free-form prescription text into drug records
type Extractor interface {
	Extract(ctx context.Context, text string) []entities.DrugRecord
}

// Resolver answers per-drug questions from the knowledge base and the oracle.
// Every method returns a value; failures become advisory strings.
type Resolver interface {
	ResolveDosage(ctx context.Context, name string, age int) string
	ResolveAlternatives(ctx context.Context, name string) []string
	ResolveInteractions(ctx context.Context, drugs []string) entities.InteractionResult
	ResolveAlternativesAndInteractions(ctx context.Context, name string) entities.AlternativesAndInteractions
}

// StatusStore defines the contract for runtime status shared between the
// scheduler (writer) and the health checker (reader).
type StatusStore interface {
	GetKnowledgeBase() KnowledgeBase
	GetOracleMode() string
	GetLastProbe() time.Time
	IsOracleReachable() bool
	GetServerStartTime() time.Time

	RecordProbe(at time.Time, reachable bool)
	BeginProbe() bool
	EndProbe()
}

// Scheduler defines the contract for background jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	Extract(w http.ResponseWriter, r *http.Request)
	CheckInteractions(w http.ResponseWriter, r *http.Request)
	GetDosage(w http.ResponseWriter, r *http.Request)
	SuggestAlternatives(w http.ResponseWriter, r *http.Request)
	AlternativesAndInteractions(w http.ResponseWriter, r *http.Request)
	ListDrugs(w http.ResponseWriter, r *http.Request)
	FindDrug(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator defines the contract for request input validation
type InputValidator interface {
	ValidateDrugName(name string) error
	ValidatePrescriptionText(text string) error
	ValidateDrugList(drugs []string) error
	ValidateAge(age int) error
}
