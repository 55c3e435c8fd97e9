package core

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// APIError is returned by a Transport when the backend answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
	Data    map[string]interface{}
}

func (err *APIError) Error() string {
	return err.Message
}

func (err *APIError) IsUnauthorized() bool {
	return err.Status == http.StatusUnauthorized || err.Status == http.StatusForbidden
}

func (err *APIError) IsNotFound() bool {
	return err.Status == http.StatusNotFound
}

// NetworkError is returned by a Transport when no response could be obtained.
type NetworkError struct {
	Op      string
	Err     error
	Timeout bool
}

func NewNetworkError(op string, err error) *NetworkError {
	nerr := &NetworkError{Op: op, Err: err}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		nerr.Timeout = true
	}
	return nerr
}

func (err *NetworkError) Error() string {
	if err.Timeout {
		return fmt.Sprintf("%s: request timed out: %v", err.Op, err.Err)
	}
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }

// Temporary reports whether the failure is worth retrying. Only timeouts are.
func (err *NetworkError) Temporary() bool { return err.Timeout }

// IsNotFound reports whether err is, or wraps, a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}
