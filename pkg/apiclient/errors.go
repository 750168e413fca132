package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a problem+json error response from the API.
type APIError struct {
	StatusCode int      `json:"status"`
	Title      string   `json:"title"`
	Detail     string   `json:"detail,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// newAPIError decodes a problem body, falling back to the raw text.
func newAPIError(status int, body []byte) *APIError {
	var apiErr APIError
	if json.Unmarshal(body, &apiErr) != nil || apiErr.Title == "" {
		apiErr = APIError{
			Title:  http.StatusText(status),
			Detail: strings.TrimSpace(string(body)),
		}
	}
	apiErr.StatusCode = status
	return &apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Title
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	if len(e.Errors) > 0 {
		msg += " (" + strings.Join(e.Errors, "; ") + ")"
	}
	return msg
}

// IsAuthError returns true if this is an authentication error.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound returns true if this is a not found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict returns true if this is a conflict error.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsValidationError returns true if this is a validation error.
func (e *APIError) IsValidationError() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}
