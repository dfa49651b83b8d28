package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// ValidationError is a user-correctable input problem. It never leaves the client.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NetworkError covers connection failures and non-2xx webhook responses.
// StatusCode is 0 when no response was received.
type NetworkError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when no response arrived within the configured window.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IoError means an attachment could not be read.
type IoError struct {
	Name string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("cannot read file %q: %v", e.Name, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a server misconfiguration. Its message is logged, never sent to callers.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// RemoteServiceError is a non-2xx answer from an upstream dependency.
type RemoteServiceError struct {
	StatusCode int
	Body       string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service responded with HTTP %d", e.StatusCode)
}

// StatusCode maps an error to the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var withCode *ErrorWithStatusCode
	var validation *ValidationError
	var remote *RemoteServiceError
	switch {
	case errors.As(err, &withCode):
		return withCode.StatusCode
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &remote):
		return remote.StatusCode
	}
	return http.StatusInternalServerError
}
