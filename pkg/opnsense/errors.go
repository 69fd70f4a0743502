package opnsense

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError represents an error response from the firewall API.
type APIError struct {
	StatusCode int    `json:"-"            yaml:"-"`
	Title      string `json:"errorTitle"   yaml:"errorTitle"`
	Message    string `json:"errorMessage" yaml:"errorMessage"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Title != "" && e.Message != "" {
		return fmt.Sprintf("%s: %s (status: %d)", e.Title, e.Message, e.StatusCode)
	}

	if e.Message != "" {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s (status: %d)", http.StatusText(e.StatusCode), e.StatusCode)
}

// ValidationError represents a "result: failed" response carrying per-field
// validation messages, as returned by the appliance's model-backed set/add
// endpoints.
type ValidationError struct {
	Result      string            `json:"result"      yaml:"result"`
	Validations map[string]string `json:"validations" yaml:"validations"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Validations) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(e.Validations))
	for field := range e.Validations {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Validations[field]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError returns the validation message for a field, or "" if the field
// passed validation.
func (e *ValidationError) FieldError(field string) string {
	return e.Validations[field]
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrEndpointRequired    = errors.New("firewall endpoint is required")
	ErrCredentialsRequired = errors.New("API key and secret are required")
	ErrUUIDRequired        = errors.New("uuid is required")
	ErrAliasNameRequired   = errors.New("alias name is required")
	ErrAddressRequired     = errors.New("address is required")
	ErrServiceNameRequired = errors.New("service name is required")
	ErrProviderRequired    = errors.New("backup provider is required")
	ErrEmptyUpload         = errors.New("upload payload is empty")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error indicates missing or invalid credentials.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error indicates the API key lacks privileges for
// the endpoint.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsValidationFailed checks if the error carries field validation messages.
func IsValidationFailed(err error) bool {
	valErr := &ValidationError{}

	return errors.As(err, &valErr)
}

// ParseAPIError decodes an error response body. It understands both the
// {"errorTitle", "errorMessage"} document and the bare {"message", "status"}
// form used by some controllers; anything undecodable falls back to the HTTP
// status text.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) == 0 {
		return apiErr
	}

	err := json.Unmarshal(body, apiErr)
	if err == nil && (apiErr.Title != "" || apiErr.Message != "") {
		return apiErr
	}

	var alt struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	}

	err = json.Unmarshal(body, &alt)
	if err == nil && alt.Message != "" {
		apiErr.Message = alt.Message
	}

	return apiErr
}
