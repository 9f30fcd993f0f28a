// Package health reports the service status served on /health
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/oracle"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	status interfaces.StatusStore
	now    func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(status interfaces.StatusStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{status: status, now: time.Now}
}

// HealthCheck derives the status from the knowledge base and the last oracle
// probe. A disabled oracle stays healthy; an oracle that failed its last
// probe degrades the service.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	kb := h.status.GetKnowledgeBase()
	entries := 0
	if kb != nil {
		entries = kb.Len()
	}

	mode := h.status.GetOracleMode()
	lastProbe := h.status.GetLastProbe()
	reachable := h.status.IsOracleReachable()

	switch {
	case entries == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case mode != oracle.ModeDisabled && !lastProbe.IsZero() && !reachable:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"knowledge_base_entries": entries,
		"oracle_mode":            mode,
		"oracle_reachable":       reachable,
		"last_probe":             "never",
	}
	if !lastProbe.IsZero() {
		data["last_probe"] = lastProbe.Format(time.RFC3339)
	}
	if start := h.status.GetServerStartTime(); !start.IsZero() {
		data["uptime_hours"] = math.Round(h.now().Sub(start).Hours()*10) / 10
	}

	return status, data, httpStatus
}
