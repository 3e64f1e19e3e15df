package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnknown       = errors.New("[service]: unknown error")
	ErrLinkNotFound  = errors.New("[service]: link not found")
	ErrDuplicateCode = errors.New("[service]: short code already taken")
	ErrCodeExhausted = errors.New("[service]: could not generate unique short code")
	ErrAuthRequired  = errors.New("[service]: authentication required")
)

// ValidationError ошибка валидации входных данных с привязкой к полю.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[service]: validation failed on %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
