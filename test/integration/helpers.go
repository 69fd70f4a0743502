//go:build integration

package integration

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/opnsense-go/opnsense/pkg/opnclient"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint  string
	APIKey    string
	APISecret string
	KeyFile   string
	Insecure  bool
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:  os.Getenv("OPN_TEST_ENDPOINT"),
		APIKey:    os.Getenv("OPN_TEST_API_KEY"),
		APISecret: os.Getenv("OPN_TEST_API_SECRET"),
		KeyFile:   os.Getenv("OPN_TEST_KEY_FILE"),
		Insecure:  os.Getenv("OPN_TEST_INSECURE") == "true",
		Verbose:   os.Getenv("OPN_TEST_VERBOSE") == "true",
	}
}

// SkipIfMissingConfig skips the test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Endpoint == "" {
		t.Skip("OPN_TEST_ENDPOINT not set, skipping integration test")
	}

	if config.APIKey == "" && config.KeyFile == "" {
		t.Skip("OPN_TEST_API_KEY/OPN_TEST_KEY_FILE not set, skipping integration test")
	}
}

// NewClient builds a client for the appliance under test
func (config *TestConfig) NewClient(t *testing.T) opnsense.Client {
	t.Helper()

	clientConfig := &opnsense.Config{
		Endpoint:           config.Endpoint,
		APIKey:             config.APIKey,
		APISecret:          config.APISecret,
		KeyFile:            config.KeyFile,
		InsecureSkipVerify: config.Insecure,
	}

	if config.Verbose {
		clientConfig.Debug = true
		clientConfig.Logger = testLogger{t: t}
	}

	client, err := opnclient.New(clientConfig)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return client
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().Unix())
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Debug(msg string, fields map[string]interface{}) { l.log("DEBUG", msg, fields) }
func (l testLogger) Info(msg string, fields map[string]interface{})  { l.log("INFO", msg, fields) }
func (l testLogger) Warn(msg string, fields map[string]interface{})  { l.log("WARN", msg, fields) }
func (l testLogger) Error(msg string, fields map[string]interface{}) { l.log("ERROR", msg, fields) }

func (l testLogger) log(level, msg string, fields map[string]interface{}) {
	l.t.Logf("[%s] %s %v", level, msg, fields)
}
