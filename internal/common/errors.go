package common

import (
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// ValidationError marks input the caller must correct and resubmit.
func ValidationError(message string, err error) *AppError {
	return NewAppError("VALIDATION", message, http.StatusBadRequest, err)
}

// NotFoundError marks a reference to something that does not exist.
func NotFoundError(message string, err error) *AppError {
	return NewAppError("NOT_FOUND", message, http.StatusNotFound, err)
}

// UnavailableError marks a failed round-trip to the external catalog store.
// Timeouts and connectivity failures surface identically.
func UnavailableError(message string, err error) *AppError {
	return NewAppError("SEARCH_UNAVAILABLE", message, http.StatusServiceUnavailable, err)
}
