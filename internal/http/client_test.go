package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	internalhttp "github.com/opnsense-go/opnsense/internal/http"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterceptorRejected = errors.New("request rejected")

type staticCredentials struct {
	key    string
	secret string
}

func (c *staticCredentials) Credentials(ctx context.Context) (string, string, error) {
	return c.key, c.secret, nil
}

type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
}

func (l *testLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func (l *testLogger) Debug(msg string, fields map[string]interface{}) { l.log(msg) }
func (l *testLogger) Info(msg string, fields map[string]interface{})  { l.log(msg) }
func (l *testLogger) Warn(msg string, fields map[string]interface{})  { l.log(msg) }
func (l *testLogger) Error(msg string, fields map[string]interface{}) { l.log(msg) }

func TestClientGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/core/firmware/status", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		key, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "test-key", key)
		assert.Equal(t, "test-secret", secret)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"none"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, &staticCredentials{key: "test-key", secret: "test-secret"})

	resp, err := client.Get(context.Background(), "/core/firmware/status", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"none"}`, string(resp.Body))
}

func TestClientGetQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lan", r.URL.Query().Get("searchPhrase"))
		assert.Equal(t, "1", r.URL.Query().Get("current"))
		_, _ = w.Write([]byte(`{"rows":[]}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	query := url.Values{}
	query.Set("searchPhrase", "lan")
	query.Set("current", "1")

	resp, err := client.Get(context.Background(), "/kea/dhcpv4/searchSubnet", query)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientPost(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"subnet4":{"subnet":"10.0.0.0/24"}}`, string(body))

		_, _ = w.Write([]byte(`{"result":"saved","uuid":"abc"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	body := map[string]interface{}{
		"subnet4": map[string]string{"subnet": "10.0.0.0/24"},
	}

	resp, err := client.Post(context.Background(), "/kea/dhcpv4/addSubnet", body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientPostNilBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{}`, string(body))

		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.Post(context.Background(), "/kea/service/reconfigure", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientPostRaw(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/csv", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "ip_address,hw_address\n", string(body))

		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil)

	resp, err := client.PostRaw(context.Background(), "/kea/dhcpv4/uploadReservations", "text/csv", []byte("ip_address,hw_address\n"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

	resp, err := client.Get(context.Background(), "/core/system/status", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorTitle":"Authentication Failed","errorMessage":"invalid credentials"}`))
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithRetryConfig(0, time.Millisecond, time.Millisecond))

	resp, err := client.Get(context.Background(), "/core/firmware/status", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, opnsense.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Authentication Failed")
}

func TestClientDebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	logger := &testLogger{}
	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithLogger(logger),
		internalhttp.WithDebug(true))

	_, err := client.Get(context.Background(), "/core/system/status", nil)
	require.NoError(t, err)

	messages := logger.Messages()
	assert.Contains(t, messages, "HTTP Request")
	assert.Contains(t, messages, "HTTP Response")
}

func TestClientCachesGets(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	cache := opnsense.NewMemoryCache(10)
	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithCache(cache, time.Minute))

	ctx := context.Background()

	first, err := client.Get(ctx, "/core/firmware/status", nil)
	require.NoError(t, err)

	second, err := client.Get(ctx, "/core/firmware/status", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.Body, second.Body)
}

func TestClientCacheSkipsPosts(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"result":"saved"}`))
	}))
	defer server.Close()

	cache := opnsense.NewMemoryCache(10)
	client := internalhttp.NewClient(server.URL, nil,
		internalhttp.WithCache(cache, time.Minute))

	ctx := context.Background()

	_, err := client.Post(ctx, "/kea/service/reconfigure", nil)
	require.NoError(t, err)

	_, err = client.Post(ctx, "/kea/service/reconfigure", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestClientRequestInterceptorsAddHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "trace-123", r.Header.Get("X-Request-Id"))

		_, _ = w.Write([]byte(`{"status":"none"}`))
	}))
	defer server.Close()

	chain := opnsense.NewInterceptorChain()
	chain.AddRequestInterceptor(opnsense.HeaderInterceptor(map[string]string{
		"X-Request-Id": "trace-123",
	}))

	client := internalhttp.NewClient(server.URL, nil, internalhttp.WithInterceptors(chain))

	resp, err := client.Get(context.Background(), "/core/firmware/status", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientResponseInterceptorsCollectMetrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/core/system/status" {
			_, _ = w.Write([]byte(`{"System":{"status":"OK"}}`))

			return
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorTitle":"not found","errorMessage":"no such endpoint"}`))
	}))
	defer server.Close()

	collector := opnsense.NewMetricsCollector()
	chain := opnsense.NewInterceptorChain()
	chain.AddRequestInterceptor(opnsense.MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(opnsense.MetricsResponseInterceptor(collector))

	client := internalhttp.NewClient(server.URL, nil, internalhttp.WithInterceptors(chain))
	ctx := context.Background()

	_, err := client.Get(ctx, "/core/system/status", nil)
	require.NoError(t, err)

	_, err = client.Get(ctx, "/core/system/status", nil)
	require.NoError(t, err)

	_, err = client.Get(ctx, "/missing", nil)
	require.Error(t, err)
	assert.True(t, opnsense.IsNotFound(err))

	ok := collector.GetMetrics("GET /core/system/status")
	require.NotNil(t, ok)
	assert.Equal(t, int64(2), ok.TotalRequests)
	assert.Equal(t, int64(0), ok.TotalErrors)

	missing := collector.GetMetrics("GET /missing")
	require.NotNil(t, missing)
	assert.Equal(t, int64(1), missing.TotalRequests)
	assert.Equal(t, int64(1), missing.TotalErrors)
}

func TestClientRequestInterceptorErrorStopsRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	chain := opnsense.NewInterceptorChain()
	chain.AddRequestInterceptor(func(ctx context.Context, req *opnsense.Request) error {
		return errInterceptorRejected
	})

	client := internalhttp.NewClient(server.URL, nil, internalhttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/core/firmware/status", nil)
	require.ErrorIs(t, err, errInterceptorRejected)
	assert.Equal(t, int32(0), hits.Load())
}
