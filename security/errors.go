package security

import (
	"errors"
	"fmt"
)

// Sentinel errors for session and permission failures.
var (
	// ErrNotAuthenticated indicates no active session.
	ErrNotAuthenticated = errors.New("security: not authenticated")

	// ErrAccessDenied indicates the active identity lacks the required
	// capability.
	ErrAccessDenied = errors.New("security: access denied")

	// ErrTokenInvalid indicates a login token failed verification.
	ErrTokenInvalid = errors.New("security: invalid token")
)

// AccessError reports a denied operation. It matches ErrAccessDenied via
// errors.Is.
type AccessError struct {
	// User is the identity that was denied.
	User string

	// Operation is the operation that was denied.
	Operation string

	// Reason explains why access was denied.
	Reason string
}

// Error returns the error message.
func (e *AccessError) Error() string {
	return fmt.Sprintf("security: access denied: user=%q operation=%q reason=%q",
		e.User, e.Operation, e.Reason)
}

// Is reports whether this error matches the target.
func (e *AccessError) Is(target error) bool {
	return target == ErrAccessDenied
}
