package handler

import (
	"errors"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// OperationError carries the generic client-facing message for an operation
// that failed for an unexpected reason. The cause is only ever logged.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

// knownErrors are passed through untouched so the error handler can map them.
var knownErrors = []error{
	domain.ErrUserNotFound,
	domain.ErrCatNotFound,
	domain.ErrEmailTaken,
	domain.ErrForbidden,
	domain.ErrUnauthorized,
	domain.ErrInvalidCredentials,
	domain.ErrInvalidArea,
	domain.ErrInvalidInput,
}

// failure wraps err in an OperationError unless it is a domain error.
func failure(err error, msg string) error {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return &OperationError{Message: msg, Err: err}
}
