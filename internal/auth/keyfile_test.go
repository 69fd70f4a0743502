package auth_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opnsense-go/opnsense/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "apikey.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))

	return path
}

func TestLoadKeyFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := writeKeyFile(t, "key=\"my-api-key\"\nsecret=\"my-api-secret\"\n")

		creds, err := auth.LoadKeyFile(path)
		require.NoError(t, err)

		key, secret, err := creds.Credentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "my-api-key", key)
		assert.Equal(t, "my-api-secret", secret)
	})

	t.Run("unquoted values and comments", func(t *testing.T) {
		t.Parallel()

		path := writeKeyFile(t, "# downloaded 2024-11-02\nkey=plain-key\nsecret=plain-secret\n")

		creds, err := auth.LoadKeyFile(path)
		require.NoError(t, err)

		key, secret, err := creds.Credentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "plain-key", key)
		assert.Equal(t, "plain-secret", secret)
	})

	t.Run("missing key entry", func(t *testing.T) {
		t.Parallel()

		path := writeKeyFile(t, "secret=\"only-secret\"\n")

		_, err := auth.LoadKeyFile(path)
		require.ErrorIs(t, err, auth.ErrKeyFileMissingKey)
	})

	t.Run("missing secret entry", func(t *testing.T) {
		t.Parallel()

		path := writeKeyFile(t, "key=\"only-key\"\n")

		_, err := auth.LoadKeyFile(path)
		require.ErrorIs(t, err, auth.ErrKeyFileMissingSecret)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := auth.LoadKeyFile(filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
	})
}
