//go:build integration

package testutil

import (
	"toolrent/pkg/model"
)

const (
	OwnerID  = "owner-integration"
	RenterID = "renter-integration"
)

type ToolBuilder struct {
	tool model.Tool
}

func NewToolBuilder() *ToolBuilder {
	return &ToolBuilder{
		tool: model.Tool{
			OwnerID:    OwnerID,
			Name:       "Cordless drill",
			Category:   "power_tools",
			City:       "Lisbon",
			DailyRate:  1200,
			Currency:   "EUR",
			OwnerPhone: "+16502530000",
		},
	}
}

func (b *ToolBuilder) WithName(name string) *ToolBuilder {
	b.tool.Name = name
	return b
}

func (b *ToolBuilder) WithCity(city string) *ToolBuilder {
	b.tool.City = city
	return b
}

func (b *ToolBuilder) WithCategory(category string) *ToolBuilder {
	b.tool.Category = category
	return b
}

func (b *ToolBuilder) Build() model.Tool {
	return b.tool
}

func NewBooking(toolID, start, end string) model.Booking {
	return model.Booking{
		ToolID:    toolID,
		UserID:    RenterID,
		StartDate: start,
		EndDate:   end,
	}
}
