package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and controllers.
// Controllers map these with errors.Is, so wrap them with %w.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("authentication required")
	ErrForbidden       = errors.New("invalid credential")
	ErrNotFound        = errors.New("not found")
	ErrStorage         = errors.New("storage failure")
	ErrTooManyAttempts = errors.New("too many attempts")
)

// Error code constants
const (
	// General errors
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternalServer  = "INTERNAL_SERVER_ERROR"
	CodeValidation      = "VALIDATION_FAILED"

	// Tapas-specific errors
	CodeTapaNotFound    = "TAPA_NOT_FOUND"
	CodeTapaInvalidData = "TAPA_INVALID_DATA"
	CodeInvalidOrder    = "TAPA_INVALID_ORDER"
	CodeInvalidImage    = "TAPA_INVALID_IMAGE"
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StorageError wraps a database or object store failure
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Response is the envelope of every JSON response of the API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// NewErrorResponse creates a failed response with the given code and message
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}
