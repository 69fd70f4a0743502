package constants

import "errors"

// Configuration errors.
var (
	ErrNoEndpointConfigured  = errors.New("no firewall endpoint configured, use 'opn config set endpoint <url>' or set OPN_ENDPOINT")
	ErrNoCredentials         = errors.New("no API credentials configured, use 'opn config set-secret' or set OPN_API_KEY and OPN_API_SECRET")
	ErrUnknownConfigKey      = errors.New("unknown configuration key")
	ErrSecretNotSetViaConfig = errors.New("api_secret cannot be set via 'config set', use 'config set-secret'")
)

// Validation errors.
var (
	ErrUUIDRequired        = errors.New("uuid argument is required")
	ErrAliasNameRequired   = errors.New("alias name is required")
	ErrServiceNameRequired = errors.New("service name is required")
	ErrInvalidOutputFormat = errors.New("invalid output format, expected table, json, or yaml")
)
