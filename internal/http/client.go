// Package http implements the shared HTTP core used by every controller
// client: request encoding, Basic auth, retries, debug logging, and optional
// GET response caching.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/opnsense-go/opnsense/internal/auth"
	"github.com/opnsense-go/opnsense/internal/constants"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

const defaultUserAgent = "opnsense-go"

// Logger is the minimal structured logger consumed by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes a single API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string

	// RawBody, when set, is sent verbatim with ContentType instead of JSON
	// encoding Body.
	RawBody     []byte
	ContentType string
}

// Response is a decoded-enough API response: the body is kept as raw bytes
// for the controller clients to unmarshal.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client is the shared HTTP client. All controller clients of one API object
// hold the same instance, so connection reuse and caching are shared too.
type Client struct {
	baseURL      string
	credentials  auth.CredentialsProvider
	retryClient  *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	cache        opnsense.Cache
	cacheTTL     time.Duration
	interceptors *opnsense.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the configured logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the retry behavior for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate verification. Appliances
// on the LAN commonly run self-signed certificates.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}

		c.retryClient.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- explicit opt-in for self-signed appliance certificates
		}
	}
}

// WithInterceptors installs an interceptor chain executed around every
// request: request interceptors may add headers before the request is sent,
// response interceptors observe the outcome (including API errors).
func WithInterceptors(chain *opnsense.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithCache enables GET response caching with the given backend and TTL.
func WithCache(cache opnsense.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache

		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a new HTTP client for the given API base URL. A nil
// credentials provider sends unauthenticated requests, which is only useful
// in tests.
func NewClient(baseURL string, credentials auth.CredentialsProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		credentials: credentials,
		retryClient: retryClient,
		userAgent:   defaultUserAgent,
		cacheTTL:    constants.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get issues a GET request with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post issues a POST request with a JSON body. A nil body posts an empty
// JSON object, which the appliance expects for bodyless actions.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	if body == nil {
		body = map[string]interface{}{}
	}

	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// GetRaw issues a GET request for a non-JSON payload (CSV or XML exports).
// The response bypasses the cache.
func (c *Client) GetRaw(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:  http.MethodGet,
		Path:    path,
		Headers: map[string]string{"Accept": "*/*"},
	})
}

// PostRaw issues a POST request with a verbatim body and content type.
func (c *Client) PostRaw(ctx context.Context, path, contentType string, body []byte) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
	})
}

// Do executes a request. Responses with status >= 400 return both the
// response and a decoded *opnsense.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	chainReq, err := c.interceptRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	cacheKey, cacheable := c.cacheKey(req)
	if cacheable {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err == nil {
			resp := &Response{
				StatusCode: http.StatusOK,
				Headers:    http.Header{},
				Body:       entry.Data,
			}

			if err := c.interceptResponse(ctx, chainReq, resp, nil); err != nil {
				return resp, err
			}

			return resp, nil
		}
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         httpReq.URL.String(),
			"status_code": resp.StatusCode,
		})
	}

	var apiErr error
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr = opnsense.ParseAPIError(resp.StatusCode, body)
	}

	if err := c.interceptResponse(ctx, chainReq, resp, apiErr); err != nil && apiErr == nil {
		return resp, err
	}

	if apiErr != nil {
		return resp, apiErr
	}

	if cacheable && resp.StatusCode == http.StatusOK {
		_ = c.cache.Set(ctx, cacheKey, &opnsense.CacheEntry{
			Data:      body,
			ExpiresAt: time.Now().Add(c.cacheTTL),
			ETag:      resp.Headers.Get("Etag"),
		})
	}

	return resp, nil
}

// interceptRequest runs the request interceptors. Headers set by interceptors
// are merged into the request before it is built.
func (c *Client) interceptRequest(ctx context.Context, req *Request) (*opnsense.Request, error) {
	if c.interceptors == nil {
		return nil, nil
	}

	chainReq := &opnsense.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: http.Header{},
	}

	if err := c.interceptors.ExecuteRequestInterceptors(ctx, chainReq); err != nil {
		return nil, err
	}

	for key := range chainReq.Headers {
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}

		req.Headers[key] = chainReq.Headers.Get(key)
	}

	return chainReq, nil
}

// interceptResponse runs the response interceptors with the outcome of a
// request, including the decoded API error when the appliance rejected it.
func (c *Client) interceptResponse(ctx context.Context, chainReq *opnsense.Request, resp *Response, apiErr error) error {
	if c.interceptors == nil {
		return nil
	}

	return c.interceptors.ExecuteResponseInterceptors(ctx, chainReq, &opnsense.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      apiErr,
	})
}

// cacheKey returns the cache key for a request and whether it is cacheable.
// Only plain JSON GETs are cached.
func (c *Client) cacheKey(req *Request) (string, bool) {
	if c.cache == nil || req.Method != http.MethodGet || len(req.Headers) > 0 {
		return "", false
	}

	key := req.Method + " " + req.Path
	if len(req.Query) > 0 {
		key += "?" + req.Query.Encode()
	}

	return key, true
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var (
		bodyBytes   []byte
		contentType string
		err         error
	)

	switch {
	case req.RawBody != nil:
		bodyBytes = req.RawBody
		contentType = req.ContentType
	case req.Body != nil:
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		contentType = "application/json"
	}

	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.credentials != nil {
		key, secret, err := c.credentials.Credentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving credentials: %w", err)
		}

		httpReq.SetBasicAuth(key, secret)
	}

	return httpReq, nil
}
