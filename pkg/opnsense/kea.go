package opnsense

import "context"

// KeaCtrlAgentClient interacts with the kea/ctrl_agent endpoints.
type KeaCtrlAgentClient interface {
	// Get returns the Kea control agent configuration document.
	Get(ctx context.Context) (Document, error)
	// Set configures the Kea control agent. Reconfigure the kea service
	// afterwards to activate the change.
	Set(ctx context.Context, settings Document) (*Result, error)
}

// KeaDhcpv4Client interacts with the kea/dhcpv4 endpoints: server settings,
// subnets, reservations, and HA peers. Mutations only take effect after a
// service reconfigure.
type KeaDhcpv4Client interface {
	// Get returns the Kea DHCPv4 server configuration document.
	Get(ctx context.Context) (Document, error)
	// Set updates the Kea DHCPv4 server configuration.
	Set(ctx context.Context, settings Document) (*Result, error)

	// AddSubnet creates a subnet. The document follows the KeaDhcpv4 data
	// model, e.g. {"subnet4": {"subnet": "192.168.199.0/24", ...}}.
	AddSubnet(ctx context.Context, subnet Document) (*Result, error)
	// DelSubnet deletes a subnet by UUID.
	DelSubnet(ctx context.Context, uuid string) (*Result, error)
	// GetSubnet returns a subnet's configuration document by UUID.
	GetSubnet(ctx context.Context, uuid string) (Document, error)
	// SetSubnet updates a subnet by UUID.
	SetSubnet(ctx context.Context, uuid string, subnet Document) (*Result, error)
	// SearchSubnets lists configured subnets.
	SearchSubnets(ctx context.Context, params *SearchParams) (*SearchResult[KeaSubnet], error)

	// AddReservation creates a DHCP reservation, e.g.
	// {"reservation": {"ip_address": "192.168.199.200", "hw_address": ...}}.
	AddReservation(ctx context.Context, reservation Document) (*Result, error)
	// DelReservation deletes a reservation by UUID.
	DelReservation(ctx context.Context, uuid string) (*Result, error)
	// GetReservation returns a reservation's configuration document by UUID.
	GetReservation(ctx context.Context, uuid string) (Document, error)
	// SetReservation updates a reservation by UUID.
	SetReservation(ctx context.Context, uuid string, reservation Document) (*Result, error)
	// SearchReservations lists configured reservations.
	SearchReservations(ctx context.Context, params *SearchParams) (*SearchResult[KeaReservation], error)
	// DownloadReservations returns all reservations as CSV.
	DownloadReservations(ctx context.Context) ([]byte, error)
	// UploadReservations imports reservations from CSV data with columns
	// ip_address,hw_address,hostname,description.
	UploadReservations(ctx context.Context, csv []byte) (*Result, error)
	// UploadReservationsFile imports reservations from a CSV file on disk.
	UploadReservationsFile(ctx context.Context, path string) (*Result, error)

	// AddPeer creates an HA peer, e.g.
	// {"peer": {"name": "peer1", "role": "primary", "url": ...}}.
	AddPeer(ctx context.Context, peer Document) (*Result, error)
	// DelPeer deletes an HA peer by UUID.
	DelPeer(ctx context.Context, uuid string) (*Result, error)
	// GetPeer returns an HA peer's configuration document by UUID.
	GetPeer(ctx context.Context, uuid string) (Document, error)
	// SetPeer updates an HA peer by UUID.
	SetPeer(ctx context.Context, uuid string, peer Document) (*Result, error)
	// SearchPeers lists configured HA peers.
	SearchPeers(ctx context.Context, params *SearchParams) (*SearchResult[KeaPeer], error)
}

// KeaLeases4Client interacts with the kea/leases4 endpoints.
type KeaLeases4Client interface {
	// Search lists active DHCPv4 leases.
	Search(ctx context.Context, params *SearchParams) (*SearchResult[KeaLease], error)
}

// KeaSubnet is a row of the kea/dhcpv4/searchSubnet grid.
type KeaSubnet struct {
	UUID        string `json:"uuid"        yaml:"uuid"`
	Subnet      string `json:"subnet"      yaml:"subnet"`
	Description string `json:"description" yaml:"description"`
}

// KeaReservation is a row of the kea/dhcpv4/searchReservation grid.
type KeaReservation struct {
	UUID        string `json:"uuid"        yaml:"uuid"`
	Subnet      string `json:"subnet"      yaml:"subnet"`
	IPAddress   string `json:"ip_address"  yaml:"ip_address"`
	HWAddress   string `json:"hw_address"  yaml:"hw_address"`
	Hostname    string `json:"hostname"    yaml:"hostname"`
	Description string `json:"description" yaml:"description"`
}

// KeaPeer is a row of the kea/dhcpv4/searchPeer grid.
type KeaPeer struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	URL  string `json:"url"  yaml:"url"`
}

// KeaLease is a row of the kea/leases4/search grid.
type KeaLease struct {
	Address   string `json:"address"    yaml:"address"`
	HWAddress string `json:"hwaddr"     yaml:"hwaddr"`
	Hostname  string `json:"hostname"   yaml:"hostname"`
	State     string `json:"state"      yaml:"state"`
	Expire    string `json:"expire"     yaml:"expire"`
	Interface string `json:"if_descr"   yaml:"if_descr"`
}
