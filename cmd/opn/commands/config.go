package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/opnsense-go/opnsense/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// configKeys are the keys accepted by 'config set'. The API secret is
// deliberately excluded so it never ends up in shell history.
var configKeys = map[string]string{
	"endpoint": "firewall endpoint URL",
	"api-key":  "API key",
	"key-file": "path to an API credentials file",
	"output":   "default output format (table, json, yaml)",
	"insecure": "skip TLS certificate verification (true/false)",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the opn CLI configuration stored in ~/.opn/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigSetSecretCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			type configEntry struct {
				Key   string `json:"key"   yaml:"key"`
				Value string `json:"value" yaml:"value"`
			}

			entries := make([]configEntry, 0, len(configKeys))
			for _, key := range []string{"endpoint", "api-key", "key-file", "output", "insecure"} {
				entries = append(entries, configEntry{Key: key, Value: viper.GetString(key)})
			}

			if viper.GetString("api-secret") != "" {
				entries = append(entries, configEntry{Key: "api-secret", Value: "(set)"})
			}

			return renderOutput(entries, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")

				for _, entry := range entries {
					_ = table.Append(entry.Key, entry.Value)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if key == "api-secret" {
				return constants.ErrSecretNotSetViaConfig
			}

			if _, ok := configKeys[key]; !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			viper.Set(key, value)

			err := persistConfig()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigSetSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-secret",
		Short: "Set the API secret",
		Long:  "Prompt for the API secret without echoing it and store it in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprint(os.Stderr, "API secret: ")

			secret, err := term.ReadPassword(int(os.Stdin.Fd()))

			_, _ = fmt.Fprintln(os.Stderr)

			if err != nil {
				return fmt.Errorf("reading secret: %w", err)
			}

			viper.Set("api-secret", string(secret))

			err = persistConfig()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(os.Stdout, "Secret stored")

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if _, ok := configKeys[key]; !ok && key != "api-secret" {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			viper.Set(key, "")

			err := persistConfig()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

// persistConfig writes the current viper state to the config file, creating
// ~/.opn/config.yml when no config file is in use yet.
func persistConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}

		configDir := filepath.Join(home, ".opn")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		path = filepath.Join(configDir, "config.yml")
	}

	err := viper.WriteConfigAs(path)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Secrets live in the file, keep it private.
	err = os.Chmod(path, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("restricting config file permissions: %w", err)
	}

	return nil
}
