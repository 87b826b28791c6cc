package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
	// ErrUnauthorized will throw if the backend refuses the viewer (not logged in or not the owner)
	ErrUnauthorized = errors.New("login required")
	// ErrEmptyContent will throw if a comment or report body is blank
	ErrEmptyContent = errors.New("content must not be blank")
	// ErrRequestFailed will throw on network errors, non-success responses and malformed bodies
	ErrRequestFailed = errors.New("request to marketplace backend failed")
	// ErrCacheMiss will throw if the requested key is not cached
	ErrCacheMiss = errors.New("cache miss")
	// ErrSessionNotFound will throw if a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")
)

// APIError is a failed backend call. It unwraps to ErrUnauthorized, ErrNotFound
// or ErrRequestFailed depending on the status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return http.StatusText(e.StatusCode)
	}
	return ErrRequestFailed.Error()
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrRequestFailed
	}
}

// MessageOf returns the server provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
