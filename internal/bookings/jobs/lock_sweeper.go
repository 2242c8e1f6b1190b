// Package jobs runs background maintenance for the bookings service.
package jobs

import (
	"context"
	"fmt"
	"time"

	"toolrent/internal/bookings/repository"
	"toolrent/pkg/logger"

	"github.com/robfig/cron/v3"
)

// LockSweeper deletes booking locks whose expiry has passed. Admission
// reclaims a stale lock on its own; the sweep keeps the collection small
// between admissions and does not depend on the server's TTL monitor.
type LockSweeper struct {
	locks    repository.BookingLockRepository
	log      *logger.Logger
	schedule string
	timeout  time.Duration
	now      func() time.Time
	cron     *cron.Cron
}

func NewLockSweeper(locks repository.BookingLockRepository, log *logger.Logger, schedule string, timeout time.Duration) *LockSweeper {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LockSweeper{
		locks:    locks,
		log:      log,
		schedule: schedule,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Start schedules the sweep. It returns an error for an unparseable schedule.
func (s *LockSweeper) Start() error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return fmt.Errorf("invalid lock sweep schedule %q: %w", s.schedule, err)
	}
	s.cron = c
	c.Start()

	s.log.Info("Booking lock sweeper started", "schedule", s.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *LockSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Booking lock sweeper stopped")
}

func (s *LockSweeper) Sweep(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	removed, err := s.locks.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		s.log.Error("Booking lock sweep failed", "error", err)
		return 0
	}
	if removed > 0 {
		s.log.Info("Swept expired booking locks", "removed", removed)
	}
	return removed
}
