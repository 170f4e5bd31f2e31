package services

import (
	"errors"
	"fmt"
)

// Error taxonomy of the auth core. Handlers map these onto HTTP statuses;
// everything else is wrapped and surfaced as a generic failure.
var (
	// ErrDenied: no active whitelist entry for the email. Recovered by
	// forcing sign-out and surfacing a fixed message.
	ErrDenied = errors.New("access denied: email is not pre-approved")

	// ErrProfileFetch: unexpected failure reading or joining the profile
	// with its role. The profile stays nil; retry is user-initiated.
	ErrProfileFetch = errors.New("failed to load profile")

	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProtectedRole: the role is the protection sentinel and cannot be
	// deleted.
	ErrProtectedRole = errors.New("role is protected and cannot be deleted")
)

// ValidationError reports a rejected registry input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
