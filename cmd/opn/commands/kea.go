package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/opnsense-go/opnsense/internal/constants"
	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/spf13/cobra"
)

// NewKeaCommand creates the kea command group.
func NewKeaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kea",
		Short: "Manage the Kea DHCP server",
		Long:  "Manage Kea DHCPv4 subnets, reservations, leases, and the kea service",
	}

	cmd.AddCommand(newKeaSubnetsCommand())
	cmd.AddCommand(newKeaReservationsCommand())
	cmd.AddCommand(newKeaPeersCommand())
	cmd.AddCommand(newKeaLeasesCommand())
	cmd.AddCommand(newServiceControlCommand("service", "Control the kea service", keaServiceOf))

	return cmd
}

func keaServiceOf(client opnsense.Client) opnsense.ServiceControlClient {
	return client.Kea().Service()
}

// SearchOptions holds the shared paging flags of list commands.
type SearchOptions struct {
	Search   string
	Page     int
	PageSize int
}

func addSearchFlags(cmd *cobra.Command, opts *SearchOptions) {
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter rows by substring match")
	cmd.Flags().IntVar(&opts.Page, "page", constants.FirstPage, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", constants.StandardPageSize, "results per page")
}

func (o *SearchOptions) toParams() *opnsense.SearchParams {
	params := opnsense.NewSearchParams()
	params.SearchPhrase = o.Search

	if o.Page > 0 {
		params.Current = o.Page
	}

	if o.PageSize != 0 {
		params.RowCount = o.PageSize
	}

	return params
}

func newKeaSubnetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subnets",
		Aliases: []string{"subnet"},
		Short:   "Manage Kea DHCPv4 subnets",
	}

	cmd.AddCommand(newKeaSubnetsListCommand())
	cmd.AddCommand(newKeaSubnetsAddCommand())
	cmd.AddCommand(newKeaSubnetsDeleteCommand())

	return cmd
}

func newKeaSubnetsListCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured subnets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Kea().Dhcpv4().SearchSubnets(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list subnets: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No subnets found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("UUID", "Subnet", "Description")

				for _, row := range result.Rows {
					_ = table.Append(row.UUID, row.Subnet, row.Description)
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

// KeaSubnetAddOptions holds the options for creating a subnet.
type KeaSubnetAddOptions struct {
	Subnet      string
	Pools       string
	Routers     string
	DNSServers  string
	Description string
}

func newKeaSubnetsAddCommand() *cobra.Command {
	var opts KeaSubnetAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a subnet",
		Long:  "Create a Kea DHCPv4 subnet. Run 'opn kea service reconfigure' to activate it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			subnet := map[string]string{
				"subnet":      opts.Subnet,
				"description": opts.Description,
			}

			if opts.Pools != "" {
				subnet["pools"] = opts.Pools
			}

			if opts.Routers != "" {
				subnet["option_data_routers"] = opts.Routers
			}

			if opts.DNSServers != "" {
				subnet["option_data_domain_name_servers"] = opts.DNSServers
			}

			result, err := client.Kea().Dhcpv4().AddSubnet(context.Background(), opnsense.Document{
				"subnet4": subnet,
			})
			if err != nil {
				return fmt.Errorf("failed to add subnet '%s': %w", opts.Subnet, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created subnet %s (%s)\n", opts.Subnet, result.UUID)
			_, _ = fmt.Fprintln(os.Stdout, "Run 'opn kea service reconfigure' to activate the change")

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Subnet, "subnet", "", "subnet in CIDR notation (required)")
	cmd.Flags().StringVar(&opts.Pools, "pools", "", "address pools, e.g. 192.168.199.100-192.168.199.199")
	cmd.Flags().StringVar(&opts.Routers, "routers", "", "default gateway handed to clients")
	cmd.Flags().StringVar(&opts.DNSServers, "dns-servers", "", "comma-separated DNS servers")
	cmd.Flags().StringVar(&opts.Description, "description", "", "subnet description")
	_ = cmd.MarkFlagRequired("subnet")

	return cmd
}

func newKeaSubnetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete UUID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a subnet",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Kea().Dhcpv4().DelSubnet(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete subnet '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted subnet %s\n", args[0])

			return nil
		},
	}
}

func newKeaReservationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"reservation", "res"},
		Short:   "Manage Kea DHCPv4 reservations",
	}

	cmd.AddCommand(newKeaReservationsListCommand())
	cmd.AddCommand(newKeaReservationsAddCommand())
	cmd.AddCommand(newKeaReservationsDeleteCommand())
	cmd.AddCommand(newKeaReservationsDownloadCommand())
	cmd.AddCommand(newKeaReservationsUploadCommand())

	return cmd
}

func newKeaReservationsListCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Kea().Dhcpv4().SearchReservations(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list reservations: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No reservations found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("UUID", "IP Address", "MAC", "Hostname", "Description")

				for _, row := range result.Rows {
					_ = table.Append(row.UUID, row.IPAddress, row.HWAddress, row.Hostname, row.Description)
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

// KeaReservationAddOptions holds the options for creating a reservation.
type KeaReservationAddOptions struct {
	Subnet      string
	IPAddress   string
	HWAddress   string
	Hostname    string
	Description string
}

func newKeaReservationsAddCommand() *cobra.Command {
	var opts KeaReservationAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a reservation",
		Long:  "Create a Kea DHCPv4 reservation. Run 'opn kea service reconfigure' to activate it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			reservation := map[string]string{
				"ip_address":  opts.IPAddress,
				"hw_address":  opts.HWAddress,
				"hostname":    opts.Hostname,
				"description": opts.Description,
			}

			if opts.Subnet != "" {
				reservation["subnet"] = opts.Subnet
			}

			result, err := client.Kea().Dhcpv4().AddReservation(context.Background(), opnsense.Document{
				"reservation": reservation,
			})
			if err != nil {
				return fmt.Errorf("failed to add reservation for '%s': %w", opts.IPAddress, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created reservation %s (%s)\n", opts.IPAddress, result.UUID)

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Subnet, "subnet-uuid", "", "UUID of the subnet the reservation belongs to")
	cmd.Flags().StringVar(&opts.IPAddress, "ip", "", "reserved IP address (required)")
	cmd.Flags().StringVar(&opts.HWAddress, "mac", "", "client MAC address (required)")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "client hostname")
	cmd.Flags().StringVar(&opts.Description, "description", "", "reservation description")
	_ = cmd.MarkFlagRequired("ip")
	_ = cmd.MarkFlagRequired("mac")

	return cmd
}

func newKeaReservationsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete UUID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete a reservation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Kea().Dhcpv4().DelReservation(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete reservation '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted reservation %s\n", args[0])

			return nil
		},
	}
}

func newKeaReservationsDownloadCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Export reservations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			data, err := client.Kea().Dhcpv4().DownloadReservations(context.Background())
			if err != nil {
				return fmt.Errorf("failed to download reservations: %w", err)
			}

			if outFile == "" {
				_, _ = os.Stdout.Write(data)

				return nil
			}

			err = os.WriteFile(outFile, data, constants.ConfigFilePerm)
			if err != nil {
				return fmt.Errorf("writing '%s': %w", outFile, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Wrote %d bytes to %s\n", len(data), outFile)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "write CSV to a file instead of stdout")

	return cmd
}

func newKeaReservationsUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Import reservations from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Kea().Dhcpv4().UploadReservationsFile(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to upload reservations from '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Upload result: %s\n", result.Result)

			return nil
		},
	}
}

func newKeaPeersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "peers",
		Aliases: []string{"peer"},
		Short:   "Manage Kea HA peers",
	}

	cmd.AddCommand(newKeaPeersListCommand())
	cmd.AddCommand(newKeaPeersAddCommand())
	cmd.AddCommand(newKeaPeersDeleteCommand())

	return cmd
}

func newKeaPeersListCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured HA peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Kea().Dhcpv4().SearchPeers(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list peers: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No peers found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("UUID", "Name", "Role", "URL")

				for _, row := range result.Rows {
					_ = table.Append(row.UUID, row.Name, row.Role, row.URL)
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

// KeaPeerAddOptions holds the options for creating an HA peer.
type KeaPeerAddOptions struct {
	Name string
	Role string
	URL  string
}

func newKeaPeersAddCommand() *cobra.Command {
	var opts KeaPeerAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an HA peer",
		Long:  "Create a Kea HA peer. Run 'opn kea service reconfigure' to activate it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Kea().Dhcpv4().AddPeer(context.Background(), opnsense.Document{
				"peer": map[string]string{
					"name": opts.Name,
					"role": opts.Role,
					"url":  opts.URL,
				},
			})
			if err != nil {
				return fmt.Errorf("failed to add peer '%s': %w", opts.Name, err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created peer %s (%s)\n", opts.Name, result.UUID)

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "peer name (required)")
	cmd.Flags().StringVar(&opts.Role, "role", "primary", "peer role: primary or standby")
	cmd.Flags().StringVar(&opts.URL, "url", "", "peer control URL (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newKeaPeersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete UUID",
		Aliases: []string{"del", "rm"},
		Short:   "Delete an HA peer",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Kea().Dhcpv4().DelPeer(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete peer '%s': %w", args[0], err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted peer %s\n", args[0])

			return nil
		},
	}
}

func newKeaLeasesCommand() *cobra.Command {
	var opts SearchOptions

	cmd := &cobra.Command{
		Use:   "leases",
		Short: "List active DHCPv4 leases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Kea().Leases4().Search(context.Background(), opts.toParams())
			if err != nil {
				return fmt.Errorf("failed to list leases: %w", err)
			}

			return renderOutput(result.Rows, func() error {
				if len(result.Rows) == 0 {
					_, _ = os.Stdout.WriteString("No leases found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Address", "MAC", "Hostname", "Interface", "Expires")

				for _, row := range result.Rows {
					_ = table.Append(row.Address, row.HWAddress, row.Hostname, row.Interface, row.Expire)
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

// newServiceControlCommand builds a status/start/stop/restart/reconfigure
// command group for one module's service controller.
func newServiceControlCommand(use, short string, serviceOf func(opnsense.Client) opnsense.ServiceControlClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the service status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			status, err := serviceOf(client).Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get service status: %w", err)
			}

			return renderOutput(status, func() error {
				_, _ = fmt.Fprintf(os.Stdout, "Status: %s\n", status.Status)

				return nil
			})
		},
	})

	for _, action := range []struct {
		use string
		run func(opnsense.ServiceControlClient, context.Context) (*opnsense.Result, error)
	}{
		{"start", func(s opnsense.ServiceControlClient, ctx context.Context) (*opnsense.Result, error) { return s.Start(ctx) }},
		{"stop", func(s opnsense.ServiceControlClient, ctx context.Context) (*opnsense.Result, error) { return s.Stop(ctx) }},
		{"restart", func(s opnsense.ServiceControlClient, ctx context.Context) (*opnsense.Result, error) { return s.Restart(ctx) }},
		{"reconfigure", func(s opnsense.ServiceControlClient, ctx context.Context) (*opnsense.Result, error) {
			return s.Reconfigure(ctx)
		}},
	} {
		run := action.run

		cmd.AddCommand(&cobra.Command{
			Use:   action.use,
			Short: action.use + " the service",
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := CreateClient()
				if err != nil {
					return err
				}

				result, err := run(serviceOf(client), context.Background())
				if err != nil {
					return fmt.Errorf("failed to %s service: %w", cmd.Use, err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Result: %s\n", result.Result)

				return nil
			},
		})
	}

	return cmd
}
