package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// ConflictError reports an operation that is illegal in the current state of
// an aggregate: shipping an unpaid sub-order, cancelling a cancelled item.
type ConflictError struct {
	Subject string
	Reason  string
	Cause   error
}

func NewConflictError(subject, reason string) *ConflictError {
	return &ConflictError{Subject: subject, Reason: reason}
}

func NewConflictErrorWithCause(subject, reason string, cause error) *ConflictError {
	return &ConflictError{Subject: subject, Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s: %s", ErrConflict, e.Subject, e.Reason), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// UnauthorizedError reports a caller that is neither the buyer nor the seller
// the operation requires.
type UnauthorizedError struct {
	ActorID  string
	Resource string
}

func NewUnauthorizedError(actorID, resource string) *UnauthorizedError {
	return &UnauthorizedError{ActorID: actorID, Resource: resource}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s: %s may not act on %s", ErrUnauthorized, sanitize(e.ActorID), e.Resource)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}
