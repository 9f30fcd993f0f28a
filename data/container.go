// Package data holds the runtime status shared between the background jobs
// and the HTTP handlers. Every field is read and written atomically.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/logging"
)

// Compile-time check to ensure StatusContainer implements StatusStore
var _ interfaces.StatusStore = (*StatusContainer)(nil)

// probeResult is one oracle availability probe
type probeResult struct {
	at        time.Time
	reachable bool
}

// StatusContainer holds the knowledge base reference, the oracle mode and
// the last probe result
type StatusContainer struct {
	kb              atomic.Value // interfaces.KnowledgeBase
	oracleMode      atomic.Value // string
	lastProbe       atomic.Pointer[probeResult]
	probing         atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewStatusContainer creates a container for kb and an oracle reporting mode
func NewStatusContainer(kb interfaces.KnowledgeBase, oracleMode string) *StatusContainer {
	sc := &StatusContainer{}
	sc.kb.Store(kbHolder{kb})
	sc.oracleMode.Store(oracleMode)
	sc.serverStartTime.Store(time.Time{})
	return sc
}

// kbHolder keeps atomic.Value stores consistently typed
type kbHolder struct {
	kb interfaces.KnowledgeBase
}

// GetKnowledgeBase returns the knowledge base in use
func (sc *StatusContainer) GetKnowledgeBase() interfaces.KnowledgeBase {
	if v, ok := sc.kb.Load().(kbHolder); ok && v.kb != nil {
		return v.kb
	}

	logging.Warn("Knowledge base is not set")
	return nil
}

// GetOracleMode returns the configured oracle transport, or "disabled"
func (sc *StatusContainer) GetOracleMode() string {
	if mode, ok := sc.oracleMode.Load().(string); ok {
		return mode
	}
	return ""
}

// GetLastProbe returns when the oracle was last probed, zero if never
func (sc *StatusContainer) GetLastProbe() time.Time {
	if p := sc.lastProbe.Load(); p != nil {
		return p.at
	}
	return time.Time{}
}

// IsOracleReachable reports the outcome of the last probe. It is false
// before the first probe.
func (sc *StatusContainer) IsOracleReachable() bool {
	if p := sc.lastProbe.Load(); p != nil {
		return p.reachable
	}
	return false
}

// RecordProbe stores a probe outcome
func (sc *StatusContainer) RecordProbe(at time.Time, reachable bool) {
	sc.lastProbe.Store(&probeResult{at: at, reachable: reachable})
}

// BeginProbe marks a probe as running. It returns false when one already is.
func (sc *StatusContainer) BeginProbe() bool {
	return sc.probing.CompareAndSwap(false, true)
}

// EndProbe clears the running flag set by BeginProbe
func (sc *StatusContainer) EndProbe() {
	sc.probing.Store(false)
}

// IsProbing returns true while a probe is in progress
func (sc *StatusContainer) IsProbing() bool {
	return sc.probing.Load()
}

// SetServerStartTime sets the server start time
func (sc *StatusContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *StatusContainer) GetServerStartTime() time.Time {
	if startTime, ok := sc.serverStartTime.Load().(time.Time); ok {
		return startTime
	}
	return time.Time{}
}
