// Package sanitizer normalises user supplied text before validation and
// storage.
//
// Every function is idempotent and never fails: input that cannot be
// normalised is returned trimmed (or empty for phone numbers) and left for
// the validators to reject.
package sanitizer
