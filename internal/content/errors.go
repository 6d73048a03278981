package content

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Handlers map these to response statuses.
var (
	// ErrNotFound indicates that no row matches the requested identifier.
	ErrNotFound = errors.New("content: not found")
	// ErrConflict indicates a uniqueness violation on create.
	ErrConflict = errors.New("content: already exists")
	// ErrInvalidArgument indicates malformed identifiers or parameters.
	ErrInvalidArgument = errors.New("content: invalid argument")
	// ErrStoreFailure covers connectivity, timeout, and other store faults.
	ErrStoreFailure = errors.New("content: store failure")
)

// ServiceError carries an operation.reason code alongside the failure kind.
type ServiceError struct {
	code string
	kind error
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Is matches the error kind so callers can branch with errors.Is.
func (e *ServiceError) Is(target error) bool {
	return e.kind == target
}

// Code exposes the operation.reason identifier for logs and metrics.
func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, kind, cause error) error {
	return &ServiceError{
		code: fmt.Sprintf("%s.%s", operation, reason),
		kind: kind,
		err:  cause,
	}
}
