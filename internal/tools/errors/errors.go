package errors

import "errors"

var (
	ErrNotFound = errors.New("tool not found")

	ErrInvalidID = errors.New("invalid tool ID format")
)
