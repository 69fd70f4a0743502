// Package commands implements the opn CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opnsense-go/opnsense/internal/constants"
	"github.com/opnsense-go/opnsense/pkg/opnclient"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output format constants.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

// CreateClient builds an API client from the resolved configuration
// (flags, environment, config file).
func CreateClient() (opnsense.Client, error) {
	endpoint := viper.GetString("endpoint")
	if endpoint == "" {
		return nil, constants.ErrNoEndpointConfigured
	}

	config := &opnsense.Config{
		Endpoint:           endpoint,
		APIKey:             viper.GetString("api-key"),
		APISecret:          viper.GetString("api-secret"),
		KeyFile:            viper.GetString("key-file"),
		InsecureSkipVerify: viper.GetBool("insecure"),
	}

	if config.APIKey == "" && config.APISecret == "" && config.KeyFile == "" {
		return nil, constants.ErrNoCredentials
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = stderrLogger{}
	}

	client, err := opnclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// renderOutput writes v as JSON or YAML per the --output flag, or calls
// renderTable for the default table format.
func renderOutput(v interface{}, renderTable func() error) error {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return encodeJSON(v)
	case OutputFormatYAML:
		return encodeYAML(v)
	case OutputFormatTable, "":
		return renderTable()
	default:
		return constants.ErrInvalidOutputFormat
	}
}

func encodeJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

func encodeYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(constants.JSONIndentSize)

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	return nil
}

// stderrLogger is the verbose-mode logger. It keeps debug output away from
// stdout so table/json output stays pipeable.
type stderrLogger struct{}

func (stderrLogger) Debug(msg string, fields map[string]interface{}) { logLine("DEBUG", msg, fields) }
func (stderrLogger) Info(msg string, fields map[string]interface{})  { logLine("INFO", msg, fields) }
func (stderrLogger) Warn(msg string, fields map[string]interface{})  { logLine("WARN", msg, fields) }
func (stderrLogger) Error(msg string, fields map[string]interface{}) { logLine("ERROR", msg, fields) }

func logLine(level, msg string, fields map[string]interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s", level, msg)

	for key, value := range fields {
		_, _ = fmt.Fprintf(os.Stderr, " %s=%v", key, value)
	}

	_, _ = fmt.Fprintln(os.Stderr)
}

// boolFlag converts the appliance's "0"/"1" string booleans for display.
func boolFlag(value string) string {
	if value == "1" {
		return "yes"
	}

	return "no"
}
