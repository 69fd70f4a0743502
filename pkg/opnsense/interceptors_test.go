package opnsense_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterceptorBoom = errors.New("boom")

func TestInterceptorChainOrder(t *testing.T) {
	t.Parallel()

	chain := opnsense.NewInterceptorChain()

	var order []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *opnsense.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *opnsense.Request) error {
		order = append(order, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &opnsense.Request{
		Method: http.MethodGet,
		Path:   "/core/system/status",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestInterceptorChainStopsOnError(t *testing.T) {
	t.Parallel()

	chain := opnsense.NewInterceptorChain()

	var reached bool

	chain.AddRequestInterceptor(func(ctx context.Context, req *opnsense.Request) error {
		return errInterceptorBoom
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *opnsense.Request) error {
		reached = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &opnsense.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInterceptorBoom)
	assert.False(t, reached)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := opnsense.HeaderInterceptor(map[string]string{
		"X-Automation": "opn",
	})

	req := &opnsense.Request{Method: http.MethodGet, Path: "/core/firmware/status"}

	err := interceptor(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "opn", req.Headers.Get("X-Automation"))
}

func TestMetricsInterceptors(t *testing.T) {
	t.Parallel()

	collector := opnsense.NewMetricsCollector()
	requestInterceptor := opnsense.MetricsRequestInterceptor(collector)
	responseInterceptor := opnsense.MetricsResponseInterceptor(collector)

	ctx := context.Background()
	req := &opnsense.Request{Method: http.MethodGet, Path: "/core/system/status"}

	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, &opnsense.Response{StatusCode: http.StatusOK}))
	require.NoError(t, requestInterceptor(ctx, req))
	require.NoError(t, responseInterceptor(ctx, req, &opnsense.Response{StatusCode: http.StatusInternalServerError}))

	metrics := collector.GetMetrics("GET /core/system/status")
	require.NotNil(t, metrics)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.NotZero(t, metrics.LastRequestTime)

	assert.Nil(t, collector.GetMetrics("GET /unknown"))
}

func TestMetricsCollectorOnChange(t *testing.T) {
	t.Parallel()

	collector := opnsense.NewMetricsCollector()

	var notified string

	collector.SetOnChange(func(endpoint string, metrics *opnsense.Metrics) {
		notified = endpoint
	})

	interceptor := opnsense.MetricsResponseInterceptor(collector)

	err := interceptor(context.Background(),
		&opnsense.Request{Method: http.MethodPost, Path: "/kea/service/reconfigure"},
		&opnsense.Response{StatusCode: http.StatusOK})
	require.NoError(t, err)
	assert.Equal(t, "POST /kea/service/reconfigure", notified)
}
