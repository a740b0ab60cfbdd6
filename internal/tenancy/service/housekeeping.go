package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
)

// DefaultRefreshRetention is how long expired refresh records are kept
// after their expiry before they are deleted.
const DefaultRefreshRetention = 30 * 24 * time.Hour

// HousekeepingService periodically expires stale refresh tokens and invites
// so that expiry shows up in the store, not only at read time.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Clock     func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:     s,
		Logger:    logger,
		Interval:  interval,
		Retention: DefaultRefreshRetention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the sweep now and then on every tick until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

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

// Sweep runs each cleanup step once. Steps are independent: a failure is
// logged and the next step still runs.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	now := s.now()
	s.Logger.Debug("starting housekeeping sweep")

	steps := []struct {
		name string
		run  func(context.Context) (int64, error)
	}{
		{"revoke_expired_refresh_tokens", func(ctx context.Context) (int64, error) {
			return s.Store.RefreshTokens().RevokeExpired(ctx, now)
		}},
		{"delete_old_refresh_tokens", func(ctx context.Context) (int64, error) {
			return s.Store.RefreshTokens().DeleteExpiredBefore(ctx, now.Add(-s.retention()))
		}},
		{"expire_pending_invites", func(ctx context.Context) (int64, error) {
			return s.Store.Invites().ExpirePending(ctx, now)
		}},
	}

	ok := 0
	for _, step := range steps {
		n, err := step.run(ctx)
		if err != nil {
			s.Logger.Error("housekeeping step failed", "step", step.name, "error", err)
			continue
		}
		metrics.HousekeepingAffectedTotal.WithLabelValues(step.name).Add(float64(n))
		s.Logger.Debug("housekeeping step done", "step", step.name, "rows", n)
		ok++
	}

	s.Logger.Info("housekeeping sweep completed", "successful_steps", ok)
}

func (s *HousekeepingService) retention() time.Duration {
	if s.Retention <= 0 {
		return DefaultRefreshRetention
	}
	return s.Retention
}

func (s *HousekeepingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
