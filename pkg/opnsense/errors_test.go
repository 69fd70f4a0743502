package opnsense_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *opnsense.APIError
		want string
	}{
		{
			name: "title and message",
			err: &opnsense.APIError{
				StatusCode: http.StatusUnauthorized,
				Title:      "Authentication Failed",
				Message:    "invalid credentials",
			},
			want: "Authentication Failed: invalid credentials (status: 401)",
		},
		{
			name: "message only",
			err: &opnsense.APIError{
				StatusCode: http.StatusBadRequest,
				Message:    "controller not found",
			},
			want: "controller not found (status: 400)",
		},
		{
			name: "status only",
			err:  &opnsense.APIError{StatusCode: http.StatusNotFound},
			want: "Not Found (status: 404)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestValidationErrorError(t *testing.T) {
	t.Parallel()

	err := &opnsense.ValidationError{
		Result: "failed",
		Validations: map[string]string{
			"alias.name":    "An alias name is required.",
			"alias.content": "Content must not be empty.",
		},
	}

	// Fields are sorted for deterministic output.
	assert.Equal(t,
		"validation failed: alias.content: Content must not be empty.; alias.name: An alias name is required.",
		err.Error())
	assert.Equal(t, "An alias name is required.", err.FieldError("alias.name"))
	assert.Empty(t, err.FieldError("alias.proto"))

	empty := &opnsense.ValidationError{Result: "failed"}
	assert.Equal(t, "validation failed", empty.Error())
}

func TestParseAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statusCode  int
		body        string
		wantTitle   string
		wantMessage string
	}{
		{
			name:        "error document",
			statusCode:  http.StatusBadRequest,
			body:        `{"errorTitle":"Invalid request","errorMessage":"uuid is malformed"}`,
			wantTitle:   "Invalid request",
			wantMessage: "uuid is malformed",
		},
		{
			name:        "bare message form",
			statusCode:  http.StatusBadRequest,
			body:        `{"message":"controller not found","status":400}`,
			wantMessage: "controller not found",
		},
		{
			name:       "empty body",
			statusCode: http.StatusInternalServerError,
		},
		{
			name:       "html error page",
			statusCode: http.StatusBadGateway,
			body:       `<html>502 Bad Gateway</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apiErr := opnsense.ParseAPIError(tt.statusCode, []byte(tt.body))
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantTitle, apiErr.Title)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	notFound := fmt.Errorf("fetching alias: %w", &opnsense.APIError{StatusCode: http.StatusNotFound})
	assert.True(t, opnsense.IsNotFound(notFound))
	assert.False(t, opnsense.IsUnauthorized(notFound))

	unauthorized := &opnsense.APIError{StatusCode: http.StatusUnauthorized}
	assert.True(t, opnsense.IsUnauthorized(unauthorized))

	forbidden := &opnsense.APIError{StatusCode: http.StatusForbidden}
	assert.True(t, opnsense.IsForbidden(forbidden))
	assert.False(t, opnsense.IsNotFound(forbidden))

	validation := fmt.Errorf("adding alias: %w", &opnsense.ValidationError{
		Result:      "failed",
		Validations: map[string]string{"alias.name": "required"},
	})
	assert.True(t, opnsense.IsValidationFailed(validation))
	assert.False(t, opnsense.IsValidationFailed(notFound))

	assert.False(t, opnsense.IsNotFound(nil))
	assert.False(t, opnsense.IsValidationFailed(nil))
}
