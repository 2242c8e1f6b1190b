package model

import "time"

// BookingLock is an advisory lock document that serialises admission checks
// for a single tool. Its _id is "booking_lock_<tool_id>". Owner is a token
// unique to the holding request; only the holder may release the lock.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ToolID    string    `bson:"tool_id" json:"tool_id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func BookingLockID(toolID string) string {
	return "booking_lock_" + toolID
}

func (l *BookingLock) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// ToolSequence counts committed admissions for one tool. Every admission
// transaction increments it, so two admissions for the same tool always
// write the same document.
type ToolSequence struct {
	ToolID    string    `bson:"_id" json:"tool_id"`
	Seq       int64     `bson:"seq" json:"seq"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
