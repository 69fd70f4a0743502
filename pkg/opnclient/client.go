// Package opnclient provides constructors for OPNsense API clients.
//
// This is the main entry point of the library: build a configuration, call
// New, and work with the returned opnsense.Client interface.
package opnclient

import (
	"os"

	"github.com/opnsense-go/opnsense/internal/client"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// New creates a new OPNsense API client from the given configuration.
//
// The endpoint is normalized before use: a bare host gets the https scheme
// and the URL is rebuilt as scheme://host/api, discarding any supplied path.
// Credentials come from APIKey/APISecret or, when those are unset, from the
// key file downloaded from the firewall UI.
func New(config *opnsense.Config) (opnsense.Client, error) {
	return client.New(config)
}

// NewWithCredentials creates a client for the given endpoint and API key
// pair. Use New for retry, TLS, caching, or logging configuration.
func NewWithCredentials(endpoint, apiKey, apiSecret string) (opnsense.Client, error) {
	return New(&opnsense.Config{
		Endpoint:  endpoint,
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
}

// NewWithKeyFile creates a client for the given endpoint using an API
// credentials file (lines of key="..." and secret="...").
func NewWithKeyFile(endpoint, keyFile string) (opnsense.Client, error) {
	return New(&opnsense.Config{
		Endpoint: endpoint,
		KeyFile:  keyFile,
	})
}

// NewFromEnv creates a client from the OPN_ENDPOINT, OPN_API_KEY,
// OPN_API_SECRET, and OPN_KEY_FILE environment variables, the same variables
// the opn CLI reads.
func NewFromEnv() (opnsense.Client, error) {
	return New(&opnsense.Config{
		Endpoint:  os.Getenv("OPN_ENDPOINT"),
		APIKey:    os.Getenv("OPN_API_KEY"),
		APISecret: os.Getenv("OPN_API_SECRET"),
		KeyFile:   os.Getenv("OPN_KEY_FILE"),
	})
}
