// Package domain provides shared domain-level sentinel and typed errors.
package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a concurrent modification conflict (optimistic locking).
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates the request input could not be turned into a
// well-formed intent.
var ErrValidation = errors.New("validation failed")

// ErrNoViablePath indicates plan generation produced zero candidates for
// every archetype. Fatal to the session.
var ErrNoViablePath = errors.New("no viable path for intent")

// ErrInvalidApprovalToken indicates the approval token did not resolve to
// the session, was expired, or was already used. The session is left
// untouched so the caller may retry with a corrected token.
var ErrInvalidApprovalToken = errors.New("invalid or expired approval token")

// ErrInvalidPathIndex indicates the chosen plan index is outside the
// generated set. The session is left untouched.
var ErrInvalidPathIndex = errors.New("invalid path index")

// ErrApprovalExpired indicates the session sat in AwaitApproval past its
// configured expiry and has been released.
var ErrApprovalExpired = errors.New("approval window expired")

// ErrSessionNotReady indicates report() was called before the session
// reached the Reported stage.
var ErrSessionNotReady = errors.New("session has no report yet")

// CapabilityUnavailableError is returned from the Validate stage when a
// capability required by the intent's category is not available.
type CapabilityUnavailableError struct {
	Name string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("required capability %q is not available", e.Name)
}

// StepFailureError records the failure of a single execution step. It is
// attached to the per-step result set and never aborts sibling steps.
type StepFailureError struct {
	StepID string
	Detail string
}

func (e *StepFailureError) Error() string {
	return fmt.Sprintf("step %s failed: %s", e.StepID, e.Detail)
}
