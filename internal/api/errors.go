package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError describes a failed round trip. StatusCode is zero when the
// request never produced a response (network failure, canceled context).
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("executing request %s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("status %d on %s %s: %v", e.StatusCode, e.Method, e.Path, e.Err)
	}
	if msg := serverMessage(e.Body); msg != "" {
		return fmt.Sprintf("api error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, msg)
	}
	return fmt.Sprintf("unexpected status %d on %s %s: %s",
		e.StatusCode, e.Method, e.Path, string(e.Body))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsTransport reports whether err is a request that never got a response.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 0
}
