package opnsense

import "context"

// DiagInterfaceClient interacts with the diagnostics/interface endpoints.
type DiagInterfaceClient interface {
	// GetArp returns the ARP table.
	GetArp(ctx context.Context) ([]ArpEntry, error)
	// FlushArp clears the ARP table.
	FlushArp(ctx context.Context) (*Result, error)
	// GetNdp returns the IPv6 neighbor discovery table.
	GetNdp(ctx context.Context) ([]NdpEntry, error)
	// GetRoutes returns the routing table.
	GetRoutes(ctx context.Context) ([]RouteEntry, error)
	// DelRoute removes a route by destination.
	DelRoute(ctx context.Context, destination string) (*Result, error)
	// GetInterfaceNames maps interface identifiers to their descriptions.
	GetInterfaceNames(ctx context.Context) (map[string]string, error)
	// GetInterfaceStatistics returns per-interface traffic statistics.
	GetInterfaceStatistics(ctx context.Context) (Document, error)
}

// DiagFirewallClient interacts with the diagnostics/firewall endpoints.
type DiagFirewallClient interface {
	// Log returns recent firewall log entries.
	Log(ctx context.Context) ([]Document, error)
	// Stats returns firewall statistics.
	Stats(ctx context.Context) (Document, error)
	// ListStates returns the state table.
	ListStates(ctx context.Context) (Document, error)
	// FlushStates clears the state table.
	FlushStates(ctx context.Context) (*StatusResponse, error)
}

// ArpEntry is an entry of the diagnostics/interface/getArp response.
type ArpEntry struct {
	IP              string `json:"ip"               yaml:"ip"`
	MAC             string `json:"mac"              yaml:"mac"`
	Intf            string `json:"intf"             yaml:"intf"`
	IntfDescription string `json:"intf_description" yaml:"intf_description"`
	Manufacturer    string `json:"manufacturer"     yaml:"manufacturer"`
	Hostname        string `json:"hostname"         yaml:"hostname"`
	Type            string `json:"type"             yaml:"type"`
}

// NdpEntry is an entry of the diagnostics/interface/getNdp response.
type NdpEntry struct {
	IP              string `json:"ip"               yaml:"ip"`
	MAC             string `json:"mac"              yaml:"mac"`
	Intf            string `json:"intf"             yaml:"intf"`
	IntfDescription string `json:"intf_description" yaml:"intf_description"`
	Manufacturer    string `json:"manufacturer"     yaml:"manufacturer"`
}

// RouteEntry is an entry of the diagnostics/interface/getRoutes response.
type RouteEntry struct {
	Proto       string `json:"proto"       yaml:"proto"`
	Destination string `json:"destination" yaml:"destination"`
	Gateway     string `json:"gateway"     yaml:"gateway"`
	Flags       string `json:"flags"       yaml:"flags"`
	Netif       string `json:"netif"       yaml:"netif"`
	Expire      string `json:"expire"      yaml:"expire"`
}
