// Package apperrors defines the recoverable error conditions shared by
// the service layer. Handlers map them to HTTP status codes; nothing
// here is ever fatal.
package apperrors

import "errors"

var (
	// ErrNotFound — referenced order/review/restaurant does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotAllowed — actor lacks the role or relationship the
	// operation requires.
	ErrNotAllowed = errors.New("not allowed")
	// ErrValidation — malformed input (rating out of range,
	// non-positive quantity, unknown status).
	ErrValidation = errors.New("invalid input")
	// ErrConflict — optimistic concurrency check failed, or a
	// uniqueness rule (one review per customer per restaurant) was hit.
	ErrConflict = errors.New("conflict")
	// ErrNotEligible — customer has no qualifying order at the
	// restaurant and so may not review it yet.
	ErrNotEligible = errors.New("not eligible")
)
