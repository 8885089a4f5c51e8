package models

import (
	"fmt"
	"net/http"
)

// AppError is a typed application error carrying the HTTP status it maps to.
// Store operations return these; the router's central error handler turns
// them into responses, so individual handlers never derive status codes.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: resource + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// NewPartialFailureError marks an interrupted two-step post/comment reference
// update. Both steps are individually idempotent against the same ids, so the
// client may retry the operation safely.
func NewPartialFailureError(message string, err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Message: message + "; the operation is safe to retry",
		Err:     err,
	}
}
