package workflow

import (
	"errors"
	"fmt"

	"gorent/internal/models"
)

// Error taxonomy for the resolution engine. Everything here is detected
// locally and returned to the caller as-is; nothing is retried internally.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrCaseClosed        = errors.New("case is closed")
	ErrEmptyNotes        = errors.New("decision notes must not be empty")
	ErrAlreadySubmitted  = errors.New("complaint has already been submitted")
	ErrPolicyNotAccepted = errors.New("resolution policy must be accepted before submitting")
	ErrStatusConflict    = errors.New("case status changed concurrently, retry the request")
	ErrUnknownDecision   = errors.New("unknown decision value")
)

// IneligibleError carries the human-readable reason a booking does not
// qualify for a new case. The reason is surfaced to the caller verbatim.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return e.Reason
}

// InvalidTransitionError carries both states so the caller can explain the
// rejection instead of showing a generic error.
type InvalidTransitionError struct {
	From models.CaseStatus
	To   models.CaseStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}
