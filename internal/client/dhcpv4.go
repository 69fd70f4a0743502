package client

import (
	"context"
	"sync"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// dhcpv4Namespace groups the legacy ISC dhcpv4 module controllers.
type dhcpv4Namespace struct {
	client *Client

	leasesOnce  sync.Once
	leases      *dhcpLeasesClient
	serviceOnce sync.Once
	service     *serviceControlClient
}

func (n *dhcpv4Namespace) Leases() opnsense.DhcpLeasesClient {
	n.leasesOnce.Do(func() {
		n.leases = &dhcpLeasesClient{client: n.client}
	})

	return n.leases
}

func (n *dhcpv4Namespace) Service() opnsense.ServiceControlClient {
	n.serviceOnce.Do(func() {
		n.service = &serviceControlClient{client: n.client, base: "/dhcpv4/service"}
	})

	return n.service
}

type dhcpLeasesClient struct {
	client *Client
}

func (c *dhcpLeasesClient) Search(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.DhcpLease], error) {
	return search[opnsense.DhcpLease](ctx, c.client, "/dhcpv4/leases/searchLease", params)
}

func (c *dhcpLeasesClient) Del(ctx context.Context, address string) (*opnsense.Result, error) {
	if address == "" {
		return nil, opnsense.ErrAddressRequired
	}

	return c.client.postResult(ctx, "/dhcpv4/leases/delLease/"+address, nil)
}
