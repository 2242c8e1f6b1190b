package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"toolrent/pkg/logger"
	"toolrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocks struct {
	mu      sync.Mutex
	expires map[string]time.Time
	calls   int
	err     error
}

func (f *fakeLocks) Create(_ context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[lock.ID] = lock.ExpiresAt
	return lock, nil
}

func (f *fakeLocks) Release(_ context.Context, id, _ string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.expires[id]
	delete(f.expires, id)
	return ok, nil
}

func (f *fakeLocks) DeleteIfExpired(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (f *fakeLocks) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for id, exp := range f.expires {
		if !now.Before(exp) {
			delete(f.expires, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeLocks) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweep_RemovesOnlyExpired(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	locks := &fakeLocks{expires: map[string]time.Time{
		"booking_lock_a": now.Add(-time.Second),
		"booking_lock_b": now,
		"booking_lock_c": now.Add(time.Second),
	}}

	s := NewLockSweeper(locks, logger.Discard(), "@every 1m", time.Second)
	s.now = func() time.Time { return now }

	assert.Equal(t, int64(2), s.Sweep(context.Background()))
	assert.Contains(t, locks.expires, "booking_lock_c")
	assert.Len(t, locks.expires, 1)
}

func TestSweep_StoreErrorIsLogged(t *testing.T) {
	locks := &fakeLocks{expires: map[string]time.Time{}, err: errors.New("no primary")}
	s := NewLockSweeper(locks, logger.Discard(), "@every 1m", time.Second)

	assert.Equal(t, int64(0), s.Sweep(context.Background()))
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewLockSweeper(&fakeLocks{}, logger.Discard(), "every minute", time.Second)
	assert.Error(t, s.Start())
	s.Stop()
}

func TestStart_RunsOnSchedule(t *testing.T) {
	locks := &fakeLocks{expires: map[string]time.Time{}}
	s := NewLockSweeper(locks, logger.Discard(), "@every 1s", time.Second)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return locks.callCount() > 0 }, 3*time.Second, 50*time.Millisecond)
}
