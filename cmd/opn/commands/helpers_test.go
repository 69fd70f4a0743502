package commands

import (
	"testing"

	"github.com/opnsense-go/opnsense/internal/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolFlag(t *testing.T) {
	assert.Equal(t, "yes", boolFlag("1"))
	assert.Equal(t, "no", boolFlag("0"))
	assert.Equal(t, "no", boolFlag(""))
}

func TestCreateClientRequiresEndpoint(t *testing.T) {
	viper.Reset()

	_, err := CreateClient()
	assert.ErrorIs(t, err, constants.ErrNoEndpointConfigured)
}

func TestCreateClientRequiresCredentials(t *testing.T) {
	viper.Reset()
	viper.Set("endpoint", "https://fw.example.com")

	_, err := CreateClient()
	assert.ErrorIs(t, err, constants.ErrNoCredentials)
}

func TestCreateClient(t *testing.T) {
	viper.Reset()
	viper.Set("endpoint", "https://fw.example.com")
	viper.Set("api-key", "key")
	viper.Set("api-secret", "secret")

	client, err := CreateClient()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestRenderOutputRejectsUnknownFormat(t *testing.T) {
	viper.Reset()
	viper.Set("output", "xml")

	err := renderOutput(nil, func() error { return nil })
	assert.ErrorIs(t, err, constants.ErrInvalidOutputFormat)
}

func TestRenderOutputTableDefault(t *testing.T) {
	viper.Reset()

	var called bool

	err := renderOutput(nil, func() error {
		called = true

		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
