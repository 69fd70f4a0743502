package opnsense

import "context"

// ServiceControlClient controls a module's service daemon. The same endpoint
// shape (status plus start/stop/restart/reconfigure actions) is exposed by
// every module's service controller.
type ServiceControlClient interface {
	// Status returns the daemon's run state.
	Status(ctx context.Context) (*ServiceStatus, error)
	// Start starts the daemon.
	Start(ctx context.Context) (*Result, error)
	// Stop stops the daemon.
	Stop(ctx context.Context) (*Result, error)
	// Restart restarts the daemon.
	Restart(ctx context.Context) (*Result, error)
	// Reconfigure regenerates the daemon configuration from the currently
	// stored settings and restarts it as needed. Mutating endpoints require
	// a reconfigure before changes take effect.
	Reconfigure(ctx context.Context) (*Result, error)
}

// DhcpLeasesClient interacts with the dhcpv4/leases endpoints of the legacy
// ISC DHCP server.
type DhcpLeasesClient interface {
	// Search lists current DHCPv4 leases.
	Search(ctx context.Context, params *SearchParams) (*SearchResult[DhcpLease], error)
	// Del removes the lease for the given IP address.
	Del(ctx context.Context, address string) (*Result, error)
}

// DhcpLease is a row of the dhcpv4/leases/searchLease grid.
type DhcpLease struct {
	Address   string `json:"address"  yaml:"address"`
	MAC       string `json:"mac"      yaml:"mac"`
	Hostname  string `json:"hostname" yaml:"hostname"`
	State     string `json:"state"    yaml:"state"`
	Ends      string `json:"ends"     yaml:"ends"`
	Interface string `json:"if"       yaml:"if"`
}
