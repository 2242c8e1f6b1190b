package model

import (
	"time"

	"toolrent/internal/availability"
)

type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ToolID    string    `json:"tool_id" bson:"tool_id" validate:"required,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=128"`
	StartDate string    `json:"start_date" bson:"start_date" validate:"required,calendar_date"`
	EndDate   string    `json:"end_date" bson:"end_date" validate:"required,calendar_date"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Period is the read-only view the availability engine works with.
func (b *Booking) Period() availability.Period {
	return availability.Period{StartDate: b.StartDate, EndDate: b.EndDate}
}

func Periods(bookings []Booking) []availability.Period {
	periods := make([]availability.Period, 0, len(bookings))
	for i := range bookings {
		periods = append(periods, bookings[i].Period())
	}
	return periods
}

type CancelRequest struct {
	ToolID    string `json:"tool_id" validate:"required,mongodb"`
	UserID    string `json:"user_id" validate:"required,min=1,max=128"`
	StartDate string `json:"start_date" validate:"required,calendar_date"`
	EndDate   string `json:"end_date" validate:"required,calendar_date"`
}

type AvailabilityResult struct {
	ToolID    string               `json:"tool_id"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Available bool                 `json:"available"`
	Conflict  *availability.Period `json:"conflict,omitempty"`
}

type BlockedDates struct {
	ToolID string   `json:"tool_id"`
	From   string   `json:"from,omitempty"`
	To     string   `json:"to,omitempty"`
	Dates  []string `json:"dates"`
}
