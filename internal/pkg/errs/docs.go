// Package errs provides the error taxonomy of the marketplace order pipeline.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g., ErrConflict) used with errors.Is
//   - a struct type carrying the details of the failure
//   - constructor functions with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The types map onto the kinds the transport layer reports to callers:
//   - validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - not found: ObjectNotFoundError
//   - unauthorized: UnauthorizedError
//   - conflict: ConflictError (illegal state transition)
//   - external service: ExternalServiceError (payment gateway, shipping provider)
//   - internal: InternalError (persistence or transaction failure)
//
// KindOf classifies an arbitrary error chain into one of those kinds.
package errs
