package offer

import (
	"errors"
	"fmt"
)

// Rejection kinds. Every error returned by a transition or by the coordinator wraps exactly
// one of these, with a message naming the guard that failed.
var (
	ErrInvalidTerms      = errors.New("invalid terms")
	ErrNotFound          = errors.New("offer not found")
	ErrAlreadyTaken      = errors.New("offer already taken")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrHashMismatch      = errors.New("hash mismatch")
	ErrExpiryViolation   = errors.New("expiry violation")
	ErrStaleEvent        = errors.New("stale event")
	ErrConflict          = errors.New("concurrent modification")
)

// ErrDuplicateIdempotencyKey is returned by stores when an offer with the same idempotency key exists.
var ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

func reject(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Reason returns the taxonomy name of err, or "" when err is not a rejection.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTerms):
		return "InvalidTerms"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrAlreadyTaken):
		return "AlreadyTaken"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrHashMismatch):
		return "HashMismatch"
	case errors.Is(err, ErrExpiryViolation):
		return "ExpiryViolation"
	case errors.Is(err, ErrStaleEvent):
		return "StaleEvent"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	default:
		return ""
	}
}
