package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnbalanced indicates a journal entry whose debits and credits differ beyond tolerance.
var ErrUnbalanced = errors.New("journal entry is unbalanced")

// ErrAlreadyGenerated is returned when invoices for a billing period already exist.
var ErrAlreadyGenerated = errors.New("invoices already generated for period")

// ErrNumberingCollision indicates that a generated reference number (entry, receipt)
// clashed with an existing one. Callers may retry the whole operation.
var ErrNumberingCollision = errors.New("reference number collision")

var (
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
	ErrInternal  = errors.New("internal error")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	if e.Err == nil {
		return ErrInternal
	}
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsRetryable reports whether the operation that produced err may be retried as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNumberingCollision)
}

// PartialGenerationError reports a billing run that stopped part way. Invoices
// listed in Created were committed before the failure and remain in place.
type PartialGenerationError struct {
	Created []string
	Err     error
}

func (e *PartialGenerationError) Error() string {
	return fmt.Sprintf("invoice generation stopped after %d invoice(s): %v", len(e.Created), e.Err)
}

func (e *PartialGenerationError) Unwrap() error {
	return e.Err
}
