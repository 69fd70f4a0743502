package auth_test

import (
	"context"
	"testing"

	"github.com/opnsense-go/opnsense/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaticCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		secret  string
		wantErr error
	}{
		{
			name:   "valid pair",
			key:    "test-key",
			secret: "test-secret",
		},
		{
			name:    "empty key",
			key:     "",
			secret:  "test-secret",
			wantErr: auth.ErrEmptyKey,
		},
		{
			name:    "empty secret",
			key:     "test-key",
			secret:  "",
			wantErr: auth.ErrEmptySecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creds, err := auth.NewStaticCredentials(tt.key, tt.secret)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			key, secret, err := creds.Credentials(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.secret, secret)
		})
	}
}
