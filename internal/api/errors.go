package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a transport failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError means the session credentials are invalid or expired and
// could not be recovered by a refresh.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ServerError is a non-2xx application response. Detail carries the
// server's error text when one was provided.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string { return e.Detail }

// ValidationError is a ServerError for caller-supplied malformed input
// that the server rejected.
type ValidationError struct {
	ServerError
}

// Unwrap exposes the embedded ServerError so errors.As matches on the
// base type too.
func (e *ValidationError) Unwrap() error { return &e.ServerError }

// IsNotFound reports whether err is a 404 lookup miss. Repositories
// swallow these into absent results.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// serverError classifies a non-2xx, non-401 status plus detail text.
func serverError(status int, detail string) error {
	if detail == "" {
		detail = fmt.Sprintf("request failed: %d", status)
	}
	se := ServerError{Status: status, Detail: detail}
	if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
		return &ValidationError{ServerError: se}
	}
	return &se
}
