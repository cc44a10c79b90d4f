package domain

import (
	"errors"
	"net/http"
)

// Error codes for failures surfaced to pages and API clients.
const (
	CodeNotFound      = 1
	CodeAlreadyExists = 2
	CodeValidation    = 3
	CodeInternal      = 4
	CodeUnauthorized  = 5
	CodeTransport     = 6
	CodeServer        = 7
)

// AppError represents a failure with a code, a display message, and an optional wrapped error.
//
// For CodeServer the Message is the backend's own business message and is
// shown to the admin verbatim.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined errors.
//
// Match categories with the Is* helpers rather than errors.Is: the helpers
// compare codes, so they also match freshly constructed errors from
// NewAppError and wrapped errors.
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrUnauthorized  = &AppError{Code: CodeUnauthorized, Message: "session expired, please log in again"}
	ErrTransport     = &AppError{Code: CodeTransport, Message: "unable to reach the server"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewServerError wraps a business failure reported by the backend.
func NewServerError(status int, message string) *AppError {
	return &AppError{Code: CodeServer, Message: message, Err: &StatusError{Status: status}}
}

// StatusError records the HTTP status a backend failure was reported with.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "status " + http.StatusText(e.Status)
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsAlreadyExists reports whether err is or wraps an AppError with CodeAlreadyExists.
func IsAlreadyExists(err error) bool {
	return hasCode(err, CodeAlreadyExists)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

// IsUnauthorized reports whether err is or wraps an AppError with CodeUnauthorized.
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

// IsTransport reports whether err is or wraps an AppError with CodeTransport.
func IsTransport(err error) bool {
	return hasCode(err, CodeTransport)
}

// IsServer reports whether err is or wraps an AppError with CodeServer.
func IsServer(err error) bool {
	return hasCode(err, CodeServer)
}

// Message returns the display message carried by err, or fallback when err
// is not an AppError.
func Message(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code.
// Server errors keep the status the backend reported when it is a 4xx.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeAlreadyExists:
			return http.StatusConflict
		case CodeValidation:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeTransport:
			return http.StatusBadGateway
		case CodeServer:
			var se *StatusError
			if errors.As(appErr.Err, &se) && se.Status >= 400 && se.Status < 500 {
				return se.Status
			}
			return http.StatusBadGateway
		case CodeInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
