package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no persisted invoice (and no candidate) exists
	// under the given id.
	ErrNotFound = errors.New("invoice not found")

	// ErrLocked means the invoice is paid. Paid records take no edits;
	// the only way back is an explicit revert to unpaid.
	ErrLocked = errors.New("invoice is paid and locked")

	// ErrSaveFailed wraps any remote write failure. The caller sees a
	// generic could-not-save condition and may re-trigger manually;
	// nothing is retried automatically.
	ErrSaveFailed = errors.New("could not save invoice")
)

// ValidationError rejects a mutation before any write happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a pre-write rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
