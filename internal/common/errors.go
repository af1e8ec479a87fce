package common

import (
	"errors"
	"net/http"
)

// AppError carries an API error code and HTTP status alongside the
// underlying cause, so handlers can render it without mapping every
// sentinel themselves.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    any
	Err        error
}

// NewAppError constructs an AppError wrapping err.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Code + ": " + e.Err.Error()
	default:
		return e.Code + ": " + e.Message
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// WriteHTTP renders the error in the canonical envelope. A zero status
// falls back to 500.
func (e *AppError) WriteHTTP(w http.ResponseWriter) {
	status := e.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	JSONError(w, status, e.Code, e.Message, e.Details)
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
