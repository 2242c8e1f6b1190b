package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrDateConflict = errors.New("requested dates overlap an existing booking")

	ErrInvalidRange = errors.New("start date must not be after end date")

	ErrRangeTooLong = errors.New("booking range exceeds the maximum length")

	ErrToolNotFound = errors.New("tool not found")

	ErrLockBusy = errors.New("another booking for this tool is being processed")

	ErrUserMismatch = errors.New("user_id does not match the authenticated renter")
)
