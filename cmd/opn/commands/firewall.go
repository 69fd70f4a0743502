package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/spf13/cobra"
)

// NewFirewallCommand creates the firewall command group.
func NewFirewallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "firewall",
		Aliases: []string{"fw"},
		Short:   "Manage firewall aliases and filter rules",
	}

	cmd.AddCommand(newAliasCommand())
	cmd.AddCommand(newRulesCommand())

	return cmd
}

func newAliasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "aliases",
		Aliases: []string{"alias"},
		Short:   "Manage firewall aliases",
	}

	cmd.AddCommand(newAliasListCommand())
	cmd.AddCommand(newAliasAddCommand())
	cmd.AddCommand(newAliasDeleteCommand())
	cmd.AddCommand(newAliasToggleCommand())
	cmd.AddCommand(newAliasReconfigureCommand())
	cmd.AddCommand(newAliasContentCommand())

	return cmd
}

func newAliasListCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Firewall().Alias().SearchItems(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list aliases: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No aliases found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("UUID", "Name", "Type", "Enabled", "Content", "Description")

				for _, row := range result.Rows {
					_ = table.Append(row.UUID, row.Name, row.Type, boolFlag(row.Enabled), row.Content, row.Description)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}

	addSearchFlags(cmd, &opts)

	return cmd
}

// AliasAddOptions holds the options for creating an alias.
type AliasAddOptions struct {
	Name        string
	Type        string
	Content     string
	Description string
	Disabled    bool
}

func newAliasAddCommand() *cobra.Command {
	var opts AliasAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an alias",
		Long:  "Create a firewall alias. Run 'opn firewall aliases reconfigure' to activate it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			enabled := "1"
			if opts.Disabled {
				enabled = "0"
			}

			result, err := client.Firewall().Alias().AddItem(context.Background(), &opnsense.AliasRequest{
				Alias: opnsense.Alias{
					Enabled:     enabled,
					Name:        opts.Name,
					Type:        opts.Type,
					Content:     opts.Content,
					Description: opts.Description,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to add alias '%s': %w", opts.Name, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created alias %s (%s)\n", opts.Name, result.UUID)

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "alias name (required)")
	cmd.Flags().StringVar(&opts.Type, "type", "host", "alias type (host, network, port, url, ...)")
	cmd.Flags().StringVar(&opts.Content, "content", "", "alias content, newline-separated for multiple values (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "alias description")
	cmd.Flags().BoolVar(&opts.Disabled, "disabled", false, "create the alias disabled")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newAliasDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete UUID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete an alias",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Firewall().Alias().DelItem(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete alias '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted alias %s\n", args[0])

			return nil
		},
	}
}

func newAliasToggleCommand() *cobra.Command {
	var (
		enable  bool
		disable bool
	)

	cmd := &cobra.Command{
		Use:   "toggle UUID",
		Short: "Enable or disable an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			var enabled *bool

			switch {
			case enable:
				value := true
				enabled = &value
			case disable:
				value := false
				enabled = &value
			}

			_, err = client.Firewall().Alias().ToggleItem(context.Background(), args[0], enabled)
			if err != nil {
				return fmt.Errorf("failed to toggle alias '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Toggled alias %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVar(&enable, "enable", false, "enable the alias")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the alias")
	cmd.MarkFlagsMutuallyExclusive("enable", "disable")

	return cmd
}

func newAliasReconfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconfigure",
		Short: "Apply pending alias changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Firewall().Alias().Reconfigure(context.Background())
			if err != nil {
				return fmt.Errorf("failed to reconfigure aliases: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	}
}

// newAliasContentCommand manages the runtime contents of an alias through the
// alias_util controller. These changes bypass reconfigure but do not survive
// a config regeneration.
func newAliasContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage runtime alias contents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list ALIAS",
		Short: "List the addresses currently loaded for an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Firewall().AliasUtil().List(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list alias contents: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				for _, row := range result.Rows {
					_, _ = fmt.Fprintln(os.Stdout, row.Address)
				}

				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add ALIAS ADDRESS",
		Short: "Add an address to an alias at runtime",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Firewall().AliasUtil().Add(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to add '%s' to alias '%s': %w", args[1], args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "delete ALIAS ADDRESS",
		Aliases: []string{"del", "rm"},
		Short:   "Remove an address from an alias at runtime",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Firewall().AliasUtil().Delete(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to remove '%s' from alias '%s': %w", args[1], args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "flush ALIAS",
		Short: "Empty an alias at runtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Firewall().AliasUtil().Flush(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to flush alias '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	})

	return cmd
}

func newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Aliases: []string{"rule"},
		Short:   "Manage automation filter rules",
	}

	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesAddCommand())
	cmd.AddCommand(newRulesDeleteCommand())
	cmd.AddCommand(newRulesApplyCommand())
	cmd.AddCommand(newRulesSavepointCommand())
	cmd.AddCommand(newRulesRevertCommand())

	return cmd
}

func newRulesListCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List automation filter rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Firewall().Filter().SearchRules(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No rules found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("UUID", "Seq", "Action", "Interface", "Proto", "Source", "Destination", "Description")

				for _, row := range result.Rows {
					_ = table.Append(row.UUID, row.Sequence, row.Action, row.Interface,
						row.Protocol, row.SourceNet, row.DestinationNet, row.Description)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}

	addSearchFlags(cmd, &opts)

	return cmd
}

// RuleAddOptions holds the options for creating a filter rule.
type RuleAddOptions struct {
	Sequence        string
	Action          string
	Interface       string
	Direction       string
	Protocol        string
	Source          string
	SourcePort      string
	Destination     string
	DestinationPort string
	Description     string
}

func newRulesAddCommand() *cobra.Command {
	var opts RuleAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an automation filter rule",
		Long:  "Create a filter rule. Run 'opn firewall rules apply' to activate it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Firewall().Filter().AddRule(context.Background(), &opnsense.FilterRuleRequest{
				Rule: opnsense.FilterRule{
					Enabled:         "1",
					Sequence:        opts.Sequence,
					Action:          opts.Action,
					Interface:       opts.Interface,
					Direction:       opts.Direction,
					Protocol:        opts.Protocol,
					SourceNet:       opts.Source,
					SourcePort:      opts.SourcePort,
					DestinationNet:  opts.Destination,
					DestinationPort: opts.DestinationPort,
					Description:     opts.Description,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to add rule: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created rule %s\n", result.UUID)
			_, _ = fmt.Fprintln(os.Stdout, "Run 'opn firewall rules apply' to activate the change")

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Sequence, "sequence", "1", "rule evaluation order")
	cmd.Flags().StringVar(&opts.Action, "action", "pass", "pass, block, or reject")
	cmd.Flags().StringVar(&opts.Interface, "interface", "", "interface the rule applies to (required)")
	cmd.Flags().StringVar(&opts.Direction, "direction", "in", "in or out")
	cmd.Flags().StringVar(&opts.Protocol, "protocol", "any", "protocol (any, TCP, UDP, ICMP, ...)")
	cmd.Flags().StringVar(&opts.Source, "source", "any", "source network or alias")
	cmd.Flags().StringVar(&opts.SourcePort, "source-port", "", "source port or range")
	cmd.Flags().StringVar(&opts.Destination, "destination", "any", "destination network or alias")
	cmd.Flags().StringVar(&opts.DestinationPort, "destination-port", "", "destination port or range")
	cmd.Flags().StringVar(&opts.Description, "description", "", "rule description")
	_ = cmd.MarkFlagRequired("interface")

	return cmd
}

func newRulesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete UUID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete an automation filter rule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Firewall().Filter().DelRule(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete rule '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted rule %s\n", args[0])

			return nil
		},
	}
}

func newRulesApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Activate the current rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Firewall().Filter().Apply(context.Background())
			if err != nil {
				return fmt.Errorf("failed to apply rules: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	}
}

func newRulesSavepointCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "savepoint",
		Short: "Create a rollback point for the rule set",
		Long:  "Create a savepoint before risky rule changes. Revert with 'opn firewall rules revert <revision>' if the new rule set locks you out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			savepoint, err := client.Firewall().Filter().Savepoint(context.Background())
			if err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Savepoint revision: %s\n", savepoint.Revision)

			return nil
		},
	}
}

func newRulesRevertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revert REVISION",
		Short: "Roll the rule set back to a savepoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Firewall().Filter().Revert(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to revert to '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	}
}
