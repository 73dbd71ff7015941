package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors propagated from the store.
var (
	// ErrNotFound marks an operation targeting a nonexistent identity.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEntry marks an insert that hit an existing identity key
	// where merging is not allowed (wishlist re-add).
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// ValidationError rejects a request before any store access.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidTransitionError rejects a status change the transition table does
// not allow.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s status transition %s -> %s", e.Entity, e.From, e.To)
}

// IsClientError reports whether the error is the caller's fault and safe to
// surface; anything else is logged and converted to an opaque server error.
func IsClientError(err error) bool {
	var ve *ValidationError
	var te *InvalidTransitionError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateEntry) ||
		errors.As(err, &ve) ||
		errors.As(err, &te)
}
