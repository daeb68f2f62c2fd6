package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrUserRequired is returned by session operations called without a user
// ID. No request is issued.
var ErrUserRequired = errors.New("user id required")

// APIError represents a failure response from the API: a non-2xx status, or
// a 2xx envelope with status=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsNotFound reports whether the requested record does not exist.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsAuth reports whether the request was rejected for missing or
// insufficient credentials.
func IsAuth(err error) bool {
	return IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden)
}

// IsValidation reports whether the backend rejected the request payload.
func IsValidation(err error) bool {
	return IsStatus(err, http.StatusBadRequest) || IsStatus(err, http.StatusUnprocessableEntity)
}

// IsNetwork reports whether the request never produced an API response
// (connect failure, DNS, timeout). Failures with a status code are not
// network errors.
func IsNetwork(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
