// Package apperr defines the application error taxonomy shared by all
// domain services and the translation of those errors into HTTP responses.
//
// Repositories and services return typed errors; handlers never build error
// responses by hand. The central Echo error handler maps each kind to its
// status code and the uniform {success:false, error, code} envelope, so a
// store failure can never leak driver internals to a caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation is a rejected input (missing or malformed field).
	KindValidation Kind = iota
	// KindNotFound means no record matched under any lookup strategy.
	KindNotFound
	// KindConflict is a duplicate business key.
	KindConflict
	// KindStore is a persistence-layer failure (connection, driver, timeout).
	KindStore
)

// Code returns the machine-checkable error code for the kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "STORE_ERROR"
	}
}

// Status returns the HTTP status the kind maps to. Conflicts are surfaced
// as 400 to match what API consumers already branch on.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, logged server-side only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a duplicate-business-key error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a persistence failure. The cause is kept for logging; the
// caller-facing message stays generic.
func Store(cause error) *Error {
	return &Error{Kind: KindStore, Message: "erreur interne du serveur", Err: cause}
}

// IsNotFound reports whether err is a not-found application error.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsValidation reports whether err is a validation application error.
func IsValidation(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindValidation
}

// IsConflict reports whether err is a conflict application error.
func IsConflict(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindConflict
}

// Envelope is the uniform response wrapper. Every response carries Success;
// callers branch on it rather than on the HTTP status alone.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKMessage builds a success envelope carrying only a message (deletes).
func OKMessage(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

// HTTPErrorHandler returns the central Echo error handler. Application
// errors map to their taxonomy status and envelope; echo.HTTPError keeps its
// status; anything else is a 500 with a generic message. Store causes and
// unexpected errors are logged, never sent to the caller.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		env := Envelope{Success: false, Error: "erreur interne du serveur", Code: KindStore.Code()}

		var ae *Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Kind.Status()
			env.Error = ae.Message
			env.Code = ae.Kind.Code()
			if ae.Kind == KindStore {
				env.Error = "erreur interne du serveur"
				logger.Error().Err(ae.Err).Str("path", c.Path()).Msg("store failure")
			}
		case errors.As(err, &he):
			status = he.Code
			env.Error = fmt.Sprintf("%v", he.Message)
			env.Code = "HTTP_ERROR"
		default:
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, env)
	}
}
