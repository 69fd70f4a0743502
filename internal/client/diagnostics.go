package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// diagnosticsNamespace groups the diagnostics module controllers.
type diagnosticsNamespace struct {
	client *Client

	interfaceOnce sync.Once
	intf          *diagInterfaceClient
	firewallOnce  sync.Once
	firewall      *diagFirewallClient
}

func (n *diagnosticsNamespace) Interface() opnsense.DiagInterfaceClient {
	n.interfaceOnce.Do(func() {
		n.intf = &diagInterfaceClient{client: n.client}
	})

	return n.intf
}

func (n *diagnosticsNamespace) Firewall() opnsense.DiagFirewallClient {
	n.firewallOnce.Do(func() {
		n.firewall = &diagFirewallClient{client: n.client}
	})

	return n.firewall
}

type diagInterfaceClient struct {
	client *Client
}

func (c *diagInterfaceClient) GetArp(ctx context.Context) ([]opnsense.ArpEntry, error) {
	var entries []opnsense.ArpEntry

	err := c.client.getJSON(ctx, "/diagnostics/interface/getArp", nil, &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (c *diagInterfaceClient) FlushArp(ctx context.Context) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/diagnostics/interface/flushArp", nil)
}

func (c *diagInterfaceClient) GetNdp(ctx context.Context) ([]opnsense.NdpEntry, error) {
	var entries []opnsense.NdpEntry

	err := c.client.getJSON(ctx, "/diagnostics/interface/getNdp", nil, &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (c *diagInterfaceClient) GetRoutes(ctx context.Context) ([]opnsense.RouteEntry, error) {
	var entries []opnsense.RouteEntry

	err := c.client.getJSON(ctx, "/diagnostics/interface/getRoutes", nil, &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (c *diagInterfaceClient) DelRoute(ctx context.Context, destination string) (*opnsense.Result, error) {
	if destination == "" {
		return nil, opnsense.ErrAddressRequired
	}

	return c.client.postResult(ctx, "/diagnostics/interface/delRoute", map[string]string{
		"destination": destination,
	})
}

func (c *diagInterfaceClient) GetInterfaceNames(ctx context.Context) (map[string]string, error) {
	resp, err := c.client.httpClient.Get(ctx, "/diagnostics/interface/getInterfaceNames", nil)
	if err != nil {
		return nil, err
	}

	var names map[string]string

	err = json.Unmarshal(resp.Body, &names)
	if err != nil {
		return nil, fmt.Errorf("decoding interface names: %w", err)
	}

	return names, nil
}

func (c *diagInterfaceClient) GetInterfaceStatistics(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/diagnostics/interface/getInterfaceStatistics")
}

type diagFirewallClient struct {
	client *Client
}

func (c *diagFirewallClient) Log(ctx context.Context) ([]opnsense.Document, error) {
	var entries []opnsense.Document

	err := c.client.getJSON(ctx, "/diagnostics/firewall/log", nil, &entries)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (c *diagFirewallClient) Stats(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/diagnostics/firewall/stats")
}

func (c *diagFirewallClient) ListStates(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/diagnostics/firewall/list_states")
}

func (c *diagFirewallClient) FlushStates(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/diagnostics/firewall/flush_states")
}
