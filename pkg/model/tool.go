package model

import "time"

type Tool struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required,min=1,max=128"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Category    string    `json:"category" bson:"category" validate:"required,tool_category"`
	City        string    `json:"city" bson:"city" validate:"required,min=2,max=100"`
	DailyRate   int64     `json:"daily_rate" bson:"daily_rate" validate:"required,gt=0"`
	Currency    string    `json:"currency" bson:"currency" validate:"required,iso4217"`
	OwnerPhone  string    `json:"owner_phone" bson:"owner_phone" validate:"required,e164"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ToolUpdate struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category    string  `json:"category,omitempty" validate:"omitempty,tool_category"`
	City        string  `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	DailyRate   *int64  `json:"daily_rate,omitempty" validate:"omitempty,gt=0"`
	Currency    string  `json:"currency,omitempty" validate:"omitempty,iso4217"`
	OwnerPhone  string  `json:"owner_phone,omitempty" validate:"omitempty,e164"`
}

var ToolCategories = []string{
	"power_tools",
	"hand_tools",
	"garden",
	"ladders",
	"cleaning",
	"automotive",
	"camping",
	"other",
}
