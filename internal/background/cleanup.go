package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/taogeht/reading-practice-app-sub002/internal/auth"
)

// SweepManager periodically drops abandoned login sessions from the in-memory
// attempt tracker. Without it, students who walk away mid-login would leave
// entries behind for the life of the process.
type SweepManager struct {
	tracker  *auth.AttemptTracker
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweepManager creates a new sweep manager
func NewSweepManager(
	tracker *auth.AttemptTracker,
	logger *slog.Logger,
	interval time.Duration,
) *SweepManager {
	return &SweepManager{
		tracker:  tracker,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep task
func (sm *SweepManager) Start(ctx context.Context) {
	ticker := time.NewTicker(sm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.runSweep()
		case <-sm.stopCh:
			sm.logger.Info("sweep manager stopped")
			return
		case <-ctx.Done():
			sm.logger.Info("sweep manager context cancelled")
			return
		}
	}
}

// runSweep discards idle login sessions
func (sm *SweepManager) runSweep() {
	swept := sm.tracker.Sweep()
	if swept > 0 {
		sm.logger.Info("idle login sessions swept", slog.Int("sessions_removed", swept))
	}
}

// Stop signals the sweep manager to stop
func (sm *SweepManager) Stop() {
	close(sm.stopCh)
}
