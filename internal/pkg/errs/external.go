package errs

import (
	"errors"
	"fmt"
)

var (
	ErrExternalService = errors.New("external service failure")
	ErrInternal        = errors.New("internal error")
)

// ExternalServiceError wraps a failure of the payment gateway or another
// collaborator. Callers may retry: gateway calls carry idempotency keys.
type ExternalServiceError struct {
	Service   string
	Operation string
	Cause     error
}

func NewExternalServiceError(service, operation string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Operation: operation, Cause: cause}
}

func (e *ExternalServiceError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrExternalService, e.Service, e.Operation), e.Cause)
}

func (e *ExternalServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalService}
	}
	return []error{ErrExternalService, e.Cause}
}

// InternalError wraps a persistence or transaction failure unrelated to the
// caller's input.
type InternalError struct {
	Operation string
	Cause     error
}

func NewInternalError(operation string, cause error) *InternalError {
	return &InternalError{Operation: operation, Cause: cause}
}

func (e *InternalError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrInternal, e.Operation), e.Cause)
}

func (e *InternalError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInternal}
	}
	return []error{ErrInternal, e.Cause}
}
