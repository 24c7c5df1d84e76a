package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/store"
)

// HousekeepingService periodically clears invitation tokens that are past
// their lifetime. Acceptance checks expiry itself, so a missed run only
// leaves dead fingerprints behind for a while.
type HousekeepingService struct {
	Store         store.Store
	Logger        *slog.Logger
	Interval      time.Duration
	InvitationTTL time.Duration
	Now           Clock

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, invitationTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if invitationTTL <= 0 {
		invitationTTL = DefaultInvitationTTL
	}

	return &HousekeepingService{
		Store:         store,
		Logger:        logger,
		Interval:      interval,
		InvitationTTL: invitationTTL,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop() to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup clears every invitation issued more than InvitationTTL ago and
// returns how many were cleared.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := s.Now.now().Add(-s.InvitationTTL)

	n, err := s.Store.Profiles().ClearInvitationsSentBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to clear expired invitations", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed",
		"expired_invitations", n,
		"cutoff", cutoff,
	)
	return n
}
