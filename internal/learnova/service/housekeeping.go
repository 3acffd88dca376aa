package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/learnova/learnova/internal/learnova/metrics"
	"github.com/learnova/learnova/internal/learnova/store"
)

// HousekeepingService periodically closes expired tokens and invitations so
// stored state matches what the lazy checks would conclude.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration
	Clock    Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs every task once. Tasks are independent; a failure is logged
// and the next task still runs.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	now := s.Clock.now()
	s.Logger.Debug("starting housekeeping sweep")

	tokens, err := s.Store.UserTokens().ExpireStale(ctx, now)
	if err != nil {
		s.Logger.Error("failed to close expired user tokens", "error", err)
	} else {
		s.Metrics.RecordHousekeeping("user_tokens", tokens)
	}

	invites, err := s.Store.Invitations().ExpireStale(ctx, now)
	if err != nil {
		s.Logger.Error("failed to expire course invitations", "error", err)
	} else {
		s.Metrics.RecordHousekeeping("course_invitations", invites)
	}

	s.Logger.Info("housekeeping sweep completed",
		"expired_tokens", tokens,
		"expired_invitations", invites,
	)
}
