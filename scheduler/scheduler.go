// Package scheduler runs the background jobs: the oracle availability probe
// and the removal of expired log files
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/medibot-api/interfaces"
	"github.com/giygas/medibot-api/logging"
	"github.com/giygas/medibot-api/oracle"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	probePrompt  = "Reply with the single word OK."
	probeTimeout = 15 * time.Second
	cleanupAt    = "03:00"
)

// Scheduler owns the gocron scheduler and the jobs registered on it
type Scheduler struct {
	status        interfaces.StatusStore
	oracle        interfaces.Oracle
	probeInterval time.Duration
	cleanup       func() (int, error)
	scheduler     *gocron.Scheduler
}

// NewScheduler creates a scheduler. A zero probeInterval, or a status store
// reporting a disabled oracle, skips the probe job.
func NewScheduler(status interfaces.StatusStore, o interfaces.Oracle, probeInterval time.Duration) *Scheduler {
	return &Scheduler{
		status:        status,
		oracle:        o,
		probeInterval: probeInterval,
		cleanup:       logging.CleanupOldLogs,
		scheduler:     gocron.NewScheduler(time.Local),
	}
}

// Start registers the jobs and starts the scheduler in the background.
// The probe job runs once immediately.
func (s *Scheduler) Start() error {
	s.scheduler.SingletonModeAll()

	if s.probeEnabled() {
		minutes := int(s.probeInterval / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		if _, err := s.scheduler.Every(minutes).Minutes().Do(s.probeOracle); err != nil {
			logging.Error("Failed to schedule oracle probe", "error", err)
			return fmt.Errorf("failed to schedule oracle probe: %w", err)
		}
	} else {
		logging.Info("Oracle probe disabled", "mode", s.status.GetOracleMode())
	}

	if _, err := s.scheduler.Every(1).Day().At(cleanupAt).Do(s.cleanupLogs); err != nil {
		logging.Error("Failed to schedule log cleanup", "error", err)
		return fmt.Errorf("failed to schedule log cleanup: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) probeEnabled() bool {
	return s.probeInterval > 0 && s.oracle != nil && s.status.GetOracleMode() != oracle.ModeDisabled
}

// probeOracle sends a minimal prompt and records whether an answer came back
func (s *Scheduler) probeOracle() {
	if !s.status.BeginProbe() {
		logging.Info("Oracle probe already in progress, skipping...")
		return
	}
	defer s.status.EndProbe()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.oracle.QueryFreeform(ctx, probePrompt)
	reachable := err == nil
	s.status.RecordProbe(time.Now(), reachable)

	if !reachable {
		logging.Warn("Oracle probe failed", "error", err, "duration", time.Since(start).String())
		return
	}
	logging.Debug("Oracle probe succeeded", "duration", time.Since(start).String())
}

func (s *Scheduler) cleanupLogs() {
	deleted, err := s.cleanup()
	if err != nil {
		logging.Warn("Failed to cleanup old logs", "error", err)
		return
	}
	if deleted > 0 {
		logging.Info("Cleaned up old log files", "count", deleted)
	}
}
