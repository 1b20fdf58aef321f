package core

import (
	"errors"
	"fmt"
)

// ConflictError rejects a stamp or review that contradicts current state
// (start while a block is active, approve of a non-pending request, ...).
// It is never retried server-side.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PolicyDeniedError rejects a homeoffice start stamp; Reason is shown to
// the user as-is.
type PolicyDeniedError struct {
	Reason string
}

func (e *PolicyDeniedError) Error() string {
	return e.Reason
}

// TransientError wraps storage failures. No partial state was committed,
// so the caller may retry the identical request.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPolicyDenied(err error) bool {
	var pe *PolicyDeniedError
	return errors.As(err, &pe)
}

// isDomainError reports whether err already carries one of the typed
// results above; anything else coming out of a transaction is storage
// trouble and gets wrapped as TransientError.
func isDomainError(err error) bool {
	return IsConflict(err) || IsValidation(err) || IsPolicyDenied(err)
}

func wrapStorage(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	var te *TransientError
	if errors.As(err, &te) {
		return err
	}
	return &TransientError{Op: op, Err: err}
}
