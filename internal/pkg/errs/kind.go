package errs

import "errors"

// Kind is the caller-facing classification of an error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindConflict
	KindExternalService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindUnauthorized:
		return "UnauthorizedError"
	case KindConflict:
		return "ConflictError"
	case KindExternalService:
		return "ExternalServiceError"
	default:
		return "InternalError"
	}
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrExternalService):
		return KindExternalService
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	default:
		return KindInternal
	}
}

// IsRetryable reports whether the caller may safely retry the operation.
func IsRetryable(err error) bool {
	k := KindOf(err)
	return err != nil && (k == KindExternalService || k == KindInternal)
}
