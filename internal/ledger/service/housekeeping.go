package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/statelock/codeledger/internal/ledger/store"
)

// HousekeepingService periodically trims old login_attempts rows so the
// append-only audit log doesn't grow without bound. It runs at the app level;
// the ledger operations themselves never spawn background work.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. A non-positive
// interval defaults to 1 hour, a non-positive retention to 90 days.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval, "retention", s.Retention)
}

// Stop shuts the worker down and blocks until any in-progress trim finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.trim()

	for {
		select {
		case <-ticker.C:
			s.trim()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) trim() {
	ctx := context.Background()
	cutoff := time.Now().Add(-s.Retention)

	deleted, err := s.Store.Attempts().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to trim login attempts", "error", err)
		return
	}
	if deleted > 0 {
		s.Logger.Info("trimmed login attempts", "deleted", deleted, "cutoff", cutoff)
	}
}
