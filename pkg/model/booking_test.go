package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriods(t *testing.T) {
	bookings := []Booking{
		{StartDate: "2024-01-10", EndDate: "2024-01-12"},
		{StartDate: "2024-02-01", EndDate: "2024-02-01"},
	}

	periods := Periods(bookings)

	assert.Len(t, periods, 2)
	assert.Equal(t, "2024-01-10", periods[0].StartDate)
	assert.Equal(t, "2024-02-01", periods[1].EndDate)
	assert.NotNil(t, Periods(nil))
}

func TestBookingLock(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lock := BookingLock{ID: BookingLockID("abc"), ExpiresAt: now.Add(time.Second)}

	assert.Equal(t, "booking_lock_abc", lock.ID)
	assert.False(t, lock.Expired(now))
	assert.True(t, lock.Expired(now.Add(time.Second)))
}
