package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/opnsense-go/opnsense/internal/constants"
	"github.com/spf13/cobra"
)

// NewFirmwareCommand creates the firmware command group.
func NewFirmwareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firmware",
		Short: "Manage appliance firmware",
	}

	cmd.AddCommand(newFirmwareStatusCommand())
	cmd.AddCommand(newFirmwareCheckCommand())
	cmd.AddCommand(newFirmwareUpgradeCommand())

	return cmd
}

func newFirmwareStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last update check",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Core().Firmware().Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get firmware status: %w", err)
			}

			return renderOutput(status, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")
				_ = table.Append("Version", status.ProductVersion)
				_ = table.Append("Status", status.Status)
				_ = table.Append("Last Check", status.LastCheck)
				_ = table.Append("Needs Reboot", boolFlag(status.NeedsReboot))

				if status.UpdateAvailable() {
					_ = table.Append("Upgrade Packages", strings.Join(status.UpgradePackages, ", "))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				if status.UpdateAvailable() {
					_, _ = fmt.Fprintf(os.Stdout, "\n%s\n", status.StatusMsg)
				}

				return nil
			})
		},
	}
}

func newFirmwareCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Trigger an update check",
		Long:  "Trigger an update check in the background. Poll 'opn firmware status' for the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Core().Firmware().Check(context.Background())
			if err != nil {
				return fmt.Errorf("failed to trigger update check: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	}
}

func newFirmwareUpgradeCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Start a firmware upgrade",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				_, _ = fmt.Fprintln(os.Stderr, "Refusing to upgrade without --yes")

				return nil
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Core().Firmware().Upgrade(context.Background())
			if err != nil {
				return fmt.Errorf("failed to start upgrade: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the upgrade")

	return cmd
}

// NewSystemCommand creates the system command group.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Inspect and control the appliance",
	}

	cmd.AddCommand(newSystemStatusCommand())
	cmd.AddCommand(newSystemPowerCommand("reboot", "Reboot the appliance"))
	cmd.AddCommand(newSystemPowerCommand("halt", "Shut the appliance down"))

	return cmd
}

func newSystemStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the system status digest",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := client.Core().System().Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get system status: %w", err)
			}

			return renderOutput(status, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Subsystem", "Status")

				for subsystem, value := range status {
					entry, ok := value.(map[string]interface{})
					if !ok {
						continue
					}

					_ = table.Append(subsystem, stringField(entry, "status"))
				}

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newSystemPowerCommand(action, short string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				_, _ = fmt.Fprintf(os.Stderr, "Refusing to %s without --yes\n", action)

				return nil
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			system := client.Core().System()

			var runErr error

			switch action {
			case "reboot":
				_, runErr = system.Reboot(ctx)
			case "halt":
				_, runErr = system.Halt(ctx)
			}

			if runErr != nil {
				return fmt.Errorf("failed to %s: %w", action, runErr)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Requested %s\n", action)

			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the "+action)

	return cmd
}

// NewServicesCommand creates the services command group.
func NewServicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service", "svc"},
		Short:   "Manage appliance services",
	}

	cmd.AddCommand(newServicesListCommand())
	cmd.AddCommand(newServicesActionCommand("start", "Start a service"))
	cmd.AddCommand(newServicesActionCommand("stop", "Stop a service"))
	cmd.AddCommand(newServicesActionCommand("restart", "Restart a service"))

	return cmd
}

func newServicesListCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered services",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Core().Service().Search(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list services: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No services found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Description", "Running")

				for _, row := range result.Rows {
					running := "no"
					if row.IsRunning() {
						running = "yes"
					}

					_ = table.Append(row.ID, row.Description, running)
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

func newServicesActionCommand(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " SERVICE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" {
				return constants.ErrServiceNameRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			services := client.Core().Service()

			var runErr error

			switch action {
			case "start":
				_, runErr = services.Start(ctx, name)
			case "stop":
				_, runErr = services.Stop(ctx, name)
			case "restart":
				_, runErr = services.Restart(ctx, name)
			}

			if runErr != nil {
				return fmt.Errorf("failed to %s service '%s': %w", action, name, runErr)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Requested %s of %s\n", action, name)

			return nil
		},
	}
}
