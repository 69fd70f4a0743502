// Package auth provides API credential management for the firewall client.
//
// The appliance authenticates API requests with HTTP Basic auth where the
// username is the API key and the password is the API secret. Credentials are
// resolved through the CredentialsProvider interface so the HTTP layer does
// not care whether they came from configuration, the environment, or a key
// file downloaded from the firewall UI.
package auth

import (
	"context"
	"errors"
)

// Static errors for err113 compliance.
var (
	ErrEmptyKey    = errors.New("API key must not be empty")
	ErrEmptySecret = errors.New("API secret must not be empty")
)

// CredentialsProvider supplies the API key/secret pair used for Basic auth.
type CredentialsProvider interface {
	// Credentials returns the API key and secret to authenticate the next
	// request with.
	Credentials(ctx context.Context) (key, secret string, err error)
}

// StaticCredentials is a CredentialsProvider holding a fixed key/secret pair.
type StaticCredentials struct {
	key    string
	secret string
}

// NewStaticCredentials creates a provider from a fixed key/secret pair.
func NewStaticCredentials(key, secret string) (*StaticCredentials, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &StaticCredentials{key: key, secret: secret}, nil
}

// Credentials implements CredentialsProvider.
func (c *StaticCredentials) Credentials(ctx context.Context) (string, string, error) {
	return c.key, c.secret, nil
}
