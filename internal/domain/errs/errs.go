// Package errs contains the error kinds shared by every layer. Callers match
// them with errors.Is; the HTTP layer maps each kind to a status code.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed, missing or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated marks a missing or invalid credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden marks an authenticated caller that does not own the target.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint violation (e.g. e-mail taken).
	ErrConflict = errors.New("conflict")

	// ErrExternalService marks a failing collaborator such as blob storage.
	ErrExternalService = errors.New("external service failure")

	// ErrInternal marks an unexpected persistence or runtime failure.
	ErrInternal = errors.New("internal error")
)

// Invalid returns an ErrInvalidInput carrying a human readable message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Forbidden returns an ErrForbidden describing the refused action.
func Forbidden(action string) error {
	return fmt.Errorf("%w: not allowed to %s", ErrForbidden, action)
}

// Conflict returns an ErrConflict with a message.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// External wraps a collaborator error so it matches ErrExternalService while
// keeping the cause in the chain.
func External(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrExternalService, err)
}

// Internal wraps an unexpected error so it matches ErrInternal.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

// Kind returns the sentinel matched by err, or ErrInternal when err carries
// none of them.
func Kind(err error) error {
	for _, k := range []error{
		ErrInvalidInput, ErrUnauthenticated, ErrForbidden, ErrNotFound,
		ErrConflict, ErrExternalService, ErrInternal,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}
