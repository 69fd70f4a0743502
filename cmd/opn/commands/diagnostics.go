package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDiagnosticsCommand creates the diagnostics command group.
func NewDiagnosticsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diagnostics",
		Aliases: []string{"diag"},
		Short:   "Run appliance diagnostics",
	}

	cmd.AddCommand(newDiagArpCommand())
	cmd.AddCommand(newDiagRoutesCommand())
	cmd.AddCommand(newDiagInterfacesCommand())
	cmd.AddCommand(newDiagFirewallLogCommand())

	return cmd
}

func newDiagArpCommand() *cobra.Command {
	var flush bool

	cmd := &cobra.Command{
		Use:   "arp",
		Short: "Show the ARP table",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			diag := client.Diagnostics().Interface()

			if flush {
				_, err = diag.FlushArp(ctx)
				if err != nil {
					return fmt.Errorf("failed to flush ARP table: %w", err)
				}

				_, _ = fmt.Fprintln(os.Stdout, "ARP table flushed")

				return nil
			}

			entries, err := diag.GetArp(ctx)
			if err != nil {
				return fmt.Errorf("failed to get ARP table: %w", err)
			}

			return renderOutput(entries, func() error {
				if len(entries) == 0 {
					_, _ = os.Stdout.WriteString("ARP table is empty\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("IP", "MAC", "Interface", "Hostname", "Manufacturer")

				for _, entry := range entries {
					_ = table.Append(entry.IP, entry.MAC, entry.IntfDescription, entry.Hostname, entry.Manufacturer)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&flush, "flush", false, "flush the ARP table instead of listing it")

	return cmd
}

func newDiagRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the routing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			entries, err := client.Diagnostics().Interface().GetRoutes(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get routes: %w", err)
			}

			return renderOutput(entries, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Proto", "Destination", "Gateway", "Flags", "Interface")

				for _, entry := range entries {
					_ = table.Append(entry.Proto, entry.Destination, entry.Gateway, entry.Flags, entry.Netif)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newDiagInterfacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interfaces",
		Short: "List interfaces and their descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			names, err := client.Diagnostics().Interface().GetInterfaceNames(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get interface names: %w", err)
			}

			return renderOutput(names, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Interface", "Description")

				for name, description := range names {
					_ = table.Append(name, description)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newDiagFirewallLogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fwlog",
		Short: "Show recent firewall log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			entries, err := client.Diagnostics().Firewall().Log(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get firewall log: %w", err)
			}

			return renderOutput(entries, func() error {
				if len(entries) == 0 {
					_, _ = os.Stdout.WriteString("No log entries\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Action", "Interface", "Source", "Destination", "Protocol")

				for _, entry := range entries {
					_ = table.Append(
						stringField(entry, "action"),
						stringField(entry, "interface"),
						stringField(entry, "src"),
						stringField(entry, "dst"),
						stringField(entry, "protoname"),
					)
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func stringField(doc map[string]interface{}, key string) string {
	value, _ := doc[key].(string)

	return value
}
