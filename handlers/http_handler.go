package handlers

import (
	"net/http"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/giygas/medibot-api/entities"
	"github.com/giygas/medibot-api/extractor"
	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/knowledge"
	"github.com/giygas/medibot-api/logging"
)

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	status    interfaces.StatusStore
	extractor interfaces.Extractor
	resolver  interfaces.Resolver
	validator interfaces.InputValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	status interfaces.StatusStore,
	ext interfaces.Extractor,
	res interfaces.Resolver,
	validator interfaces.InputValidator,
	health interfaces.HealthChecker,
) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		status:    status,
		extractor: ext,
		resolver:  res,
		validator: validator,
		health:    health,
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Structured []entities.DrugRecord `json:"structured"`
	PlainText  string                `json:"plain_text"`
}

type interactionRequest struct {
	Drugs []string `json:"drugs"`
}

type drugRequest struct {
	Drug string `json:"drug"`
	Age  *int   `json:"age,omitempty"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	System map[string]any `json:"system"`
}

// Extract returns the drug records found in prescription text
func (h *HTTPHandlerImpl) Extract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validator.ValidatePrescriptionText(req.Text); err != nil {
		logging.Warn("Unusual user input", "field", "text", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := h.extractor.Extract(r.Context(), req.Text)
	RespondWithJSON(w, http.StatusOK, extractResponse{
		Structured: records,
		PlainText:  extractor.PlainText(records),
	})
}

// CheckInteractions reports interactions among the submitted drugs
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.validator.ValidateDrugList(req.Drugs); err != nil {
		logging.Warn("Unusual user input", "field", "drugs", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	interactions := h.resolver.ResolveInteractions(r.Context(), req.Drugs)
	RespondWithJSON(w, http.StatusOK, map[string]any{"interactions": interactions})
}

// GetDosage returns the dosage for a drug and age
func (h *HTTPHandlerImpl) GetDosage(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDrugRequest(w, r)
	if !ok {
		return
	}

	age := ageOrDefault(req.Age)
	if err := h.validator.ValidateAge(age); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	dosage := h.resolver.ResolveDosage(r.Context(), req.Drug, age)
	RespondWithJSON(w, http.StatusOK, map[string]string{"dosage": dosage})
}

// SuggestAlternatives returns alternatives for a drug. The age is validated
// but does not change the answer.
func (h *HTTPHandlerImpl) SuggestAlternatives(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDrugRequest(w, r)
	if !ok {
		return
	}

	if err := h.validator.ValidateAge(ageOrDefault(req.Age)); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	alternatives := h.resolver.ResolveAlternatives(r.Context(), req.Drug)
	RespondWithJSON(w, http.StatusOK, map[string][]string{"alternatives": alternatives})
}

// AlternativesAndInteractions returns both lists from a single lookup
func (h *HTTPHandlerImpl) AlternativesAndInteractions(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDrugRequest(w, r)
	if !ok {
		return
	}

	RespondWithJSON(w, http.StatusOK, h.resolver.ResolveAlternativesAndInteractions(r.Context(), req.Drug))
}

// ListDrugs returns the canonical names of the knowledge base
func (h *HTTPHandlerImpl) ListDrugs(w http.ResponseWriter, r *http.Request) {
	kb := h.status.GetKnowledgeBase()
	if kb == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Knowledge base not loaded")
		return
	}

	names := kb.Names()
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"count": len(names),
		"drugs": names,
	})
}

// FindDrug returns the knowledge base entry for a drug name
func (h *HTTPHandlerImpl) FindDrug(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateDrugName(name); err != nil {
		logging.Warn("Unusual user input", "name", name, "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	kb := h.status.GetKnowledgeBase()
	if kb == nil {
		RespondWithError(w, http.StatusServiceUnavailable, "Knowledge base not loaded")
		return
	}

	entry, ok := kb.Lookup(knowledge.Normalize(name))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Drug not found in knowledge base")
		return
	}
	RespondWithJSON(w, http.StatusOK, entry)
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, details, httpStatus := h.health.HealthCheck()

	RespondWithJSON(w, httpStatus, HealthResponse{
		Status: status,
		Data:   details,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	})
}

// decodeDrugRequest decodes and validates a single-drug request body.
// It writes the error response itself and reports whether to continue.
func (h *HTTPHandlerImpl) decodeDrugRequest(w http.ResponseWriter, r *http.Request) (drugRequest, bool) {
	var req drugRequest
	if err := decodeJSON(r, &req); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return req, false
	}

	if err := h.validator.ValidateDrugName(req.Drug); err != nil {
		logging.Warn("Unusual user input", "field", "drug", "error", err)
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return req, false
	}

	req.Drug = strings.TrimSpace(req.Drug)
	return req, true
}
