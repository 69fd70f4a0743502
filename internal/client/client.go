// Package client provides the concrete implementation of the opnsense.Client
// interface: one shared HTTP core plus the namespace and controller clients
// built on top of it.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/opnsense-go/opnsense/internal/auth"
	internalhttp "github.com/opnsense-go/opnsense/internal/http"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// Client implements the opnsense.Client interface. Namespaces are built
// lazily on first access and cached for the lifetime of the client, so each
// accessor always hands back the identical instance.
type Client struct {
	httpClient *internalhttp.Client

	keaOnce  sync.Once
	kea      *keaNamespace
	dhcpOnce sync.Once
	dhcp     *dhcpv4Namespace
	coreOnce sync.Once
	core     *coreNamespace
	fwOnce   sync.Once
	firewall *firewallNamespace
	diagOnce sync.Once
	diag     *diagnosticsNamespace
}

// New creates a new client from the given configuration. The endpoint is
// normalized (https scheme by default, rebuilt as scheme://host/api) and
// credentials are resolved from the explicit key pair or the key file.
func New(config *opnsense.Config) (*Client, error) {
	if config == nil {
		return nil, opnsense.ErrConfigRequired
	}

	endpoint, err := NormalizeEndpoint(config.Endpoint)
	if err != nil {
		return nil, err
	}

	credentials, err := resolveCredentials(config)
	if err != nil {
		return nil, err
	}

	opts := []internalhttp.Option{
		internalhttp.WithUserAgent(userAgentOrDefault(config.UserAgent)),
	}

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		opts = append(opts, internalhttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.InsecureSkipVerify {
		opts = append(opts, internalhttp.WithInsecureSkipVerify(true))
	}

	if config.Interceptors != nil {
		opts = append(opts, internalhttp.WithInterceptors(config.Interceptors))
	}

	if config.Cache != nil {
		cache, err := opnsense.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}

		ttl := opnsense.DefaultCacheOptions().TTL
		if config.Cache.Options != nil && config.Cache.Options.TTL > 0 {
			ttl = config.Cache.Options.TTL
		}

		opts = append(opts, internalhttp.WithCache(cache, ttl))
	}

	return &Client{
		httpClient: internalhttp.NewClient(endpoint, credentials, opts...),
	}, nil
}

// NormalizeEndpoint turns a user-supplied firewall address into the API base
// URL. A bare host gets the https scheme, and the URL is rebuilt as
// scheme://host/api: the API always lives at /api on the appliance, so any
// supplied path (including trailing slashes or a UI path) is discarded.
func NormalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", opnsense.ErrEndpointRequired
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}

	if parsed.Host == "" {
		return "", opnsense.ErrEndpointRequired
	}

	return parsed.Scheme + "://" + parsed.Host + "/api", nil
}

func resolveCredentials(config *opnsense.Config) (auth.CredentialsProvider, error) {
	if config.APIKey != "" || config.APISecret != "" {
		credentials, err := auth.NewStaticCredentials(config.APIKey, config.APISecret)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", opnsense.ErrCredentialsRequired, err)
		}

		return credentials, nil
	}

	if config.KeyFile != "" {
		credentials, err := auth.LoadKeyFile(config.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("loading key file: %w", err)
		}

		return credentials, nil
	}

	return nil, opnsense.ErrCredentialsRequired
}

func userAgentOrDefault(userAgent string) string {
	if userAgent != "" {
		return userAgent
	}

	return "opnsense-go"
}

// Kea returns the kea module namespace.
func (c *Client) Kea() opnsense.KeaNamespace {
	c.keaOnce.Do(func() {
		c.kea = &keaNamespace{client: c}
	})

	return c.kea
}

// Dhcpv4 returns the legacy ISC dhcpv4 module namespace.
func (c *Client) Dhcpv4() opnsense.Dhcpv4Namespace {
	c.dhcpOnce.Do(func() {
		c.dhcp = &dhcpv4Namespace{client: c}
	})

	return c.dhcp
}

// Core returns the core module namespace.
func (c *Client) Core() opnsense.CoreNamespace {
	c.coreOnce.Do(func() {
		c.core = &coreNamespace{client: c}
	})

	return c.core
}

// Firewall returns the firewall module namespace.
func (c *Client) Firewall() opnsense.FirewallNamespace {
	c.fwOnce.Do(func() {
		c.firewall = &firewallNamespace{client: c}
	})

	return c.firewall
}

// Diagnostics returns the diagnostics module namespace.
func (c *Client) Diagnostics() opnsense.DiagnosticsNamespace {
	c.diagOnce.Do(func() {
		c.diag = &diagnosticsNamespace{client: c}
	})

	return c.diag
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return err
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}

// getDocument issues a GET and returns the response as a generic document.
func (c *Client) getDocument(ctx context.Context, path string) (opnsense.Document, error) {
	var doc opnsense.Document

	err := c.getJSON(ctx, path, nil, &doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// postResult issues a POST and decodes the mutation result. A "failed" result
// carrying validation messages is surfaced as a *opnsense.ValidationError.
func (c *Client) postResult(ctx context.Context, path string, body interface{}) (*opnsense.Result, error) {
	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	var result opnsense.Result

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", path, err)
	}

	if result.Result == "failed" && len(result.Validations) > 0 {
		return &result, &opnsense.ValidationError{
			Result:      result.Result,
			Validations: result.Validations,
		}
	}

	return &result, nil
}

// postStatus issues a POST and decodes the bare status acknowledgement.
func (c *Client) postStatus(ctx context.Context, path string) (*opnsense.StatusResponse, error) {
	resp, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var status opnsense.StatusResponse

	err = json.Unmarshal(resp.Body, &status)
	if err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return &status, nil
}

// decodeDocument decodes a response body into a generic document.
func decodeDocument(body []byte, out *opnsense.Document) error {
	err := json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// search issues a GET against a bootgrid search endpoint and decodes the grid
// envelope with typed rows.
func search[T any](ctx context.Context, c *Client, path string, params *opnsense.SearchParams) (*opnsense.SearchResult[T], error) {
	if params == nil {
		params = opnsense.NewSearchParams()
	}

	var result opnsense.SearchResult[T]

	err := c.getJSON(ctx, path, params.ToValues(), &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}
