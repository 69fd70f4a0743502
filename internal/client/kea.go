package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// keaNamespace groups the kea module controllers. Controller clients are
// created lazily on first access.
type keaNamespace struct {
	client *Client

	ctrlAgentOnce sync.Once
	ctrlAgent     *keaCtrlAgentClient
	dhcpv4Once    sync.Once
	dhcpv4        *keaDhcpv4Client
	leases4Once   sync.Once
	leases4       *keaLeases4Client
	serviceOnce   sync.Once
	service       *serviceControlClient
}

func (n *keaNamespace) CtrlAgent() opnsense.KeaCtrlAgentClient {
	n.ctrlAgentOnce.Do(func() {
		n.ctrlAgent = &keaCtrlAgentClient{client: n.client}
	})

	return n.ctrlAgent
}

func (n *keaNamespace) Dhcpv4() opnsense.KeaDhcpv4Client {
	n.dhcpv4Once.Do(func() {
		n.dhcpv4 = &keaDhcpv4Client{client: n.client}
	})

	return n.dhcpv4
}

func (n *keaNamespace) Leases4() opnsense.KeaLeases4Client {
	n.leases4Once.Do(func() {
		n.leases4 = &keaLeases4Client{client: n.client}
	})

	return n.leases4
}

func (n *keaNamespace) Service() opnsense.ServiceControlClient {
	n.serviceOnce.Do(func() {
		n.service = &serviceControlClient{client: n.client, base: "/kea/service"}
	})

	return n.service
}

type keaCtrlAgentClient struct {
	client *Client
}

func (c *keaCtrlAgentClient) Get(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/kea/ctrl_agent/get")
}

func (c *keaCtrlAgentClient) Set(ctx context.Context, settings opnsense.Document) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/kea/ctrl_agent/set", settings)
}

type keaDhcpv4Client struct {
	client *Client
}

func (c *keaDhcpv4Client) Get(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/kea/dhcpv4/get")
}

func (c *keaDhcpv4Client) Set(ctx context.Context, settings opnsense.Document) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/kea/dhcpv4/set", settings)
}

func (c *keaDhcpv4Client) AddSubnet(ctx context.Context, subnet opnsense.Document) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/kea/dhcpv4/addSubnet", subnet)
}

func (c *keaDhcpv4Client) DelSubnet(ctx context.Context, uuid string) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/kea/dhcpv4/delSubnet/"+uuid, nil)
}

func (c *keaDhcpv4Client) GetSubnet(ctx context.Context, uuid string) (opnsense.Document, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.getDocument(ctx, "/kea/dhcpv4/getSubnet/"+uuid)
}

func (c *keaDhcpv4Client) SetSubnet(ctx context.Context, uuid string, subnet opnsense.Document) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/kea/dhcpv4/setSubnet/"+uuid, subnet)
}

func (c *keaDhcpv4Client) SearchSubnets(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.KeaSubnet], error) {
	return search[opnsense.KeaSubnet](ctx, c.client, "/kea/dhcpv4/searchSubnet", params)
}

func (c *keaDhcpv4Client) AddReservation(ctx context.Context, reservation opnsense.Document) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/kea/dhcpv4/addReservation", reservation)
}

func (c *keaDhcpv4Client) DelReservation(ctx context.Context, uuid string) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/kea/dhcpv4/delReservation/"+uuid, nil)
}

func (c *keaDhcpv4Client) GetReservation(ctx context.Context, uuid string) (opnsense.Document, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.getDocument(ctx, "/kea/dhcpv4/getReservation/"+uuid)
}

func (c *keaDhcpv4Client) SetReservation(ctx context.Context, uuid string, reservation opnsense.Document) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/kea/dhcpv4/setReservation/"+uuid, reservation)
}

func (c *keaDhcpv4Client) SearchReservations(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.KeaReservation], error) {
	return search[opnsense.KeaReservation](ctx, c.client, "/kea/dhcpv4/searchReservation", params)
}

// DownloadReservations returns the reservations of all subnets as CSV.
func (c *keaDhcpv4Client) DownloadReservations(ctx context.Context) ([]byte, error) {
	resp, err := c.client.httpClient.GetRaw(ctx, "/kea/dhcpv4/downloadReservations")
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// UploadReservations imports reservations from CSV data. The appliance
// matches rows to subnets by ip_address.
func (c *keaDhcpv4Client) UploadReservations(ctx context.Context, csv []byte) (*opnsense.Result, error) {
	if len(csv) == 0 {
		return nil, opnsense.ErrEmptyUpload
	}

	resp, err := c.client.httpClient.PostRaw(ctx, "/kea/dhcpv4/uploadReservations", "text/csv", csv)
	if err != nil {
		return nil, err
	}

	var result opnsense.Result

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}

	return &result, nil
}

func (c *keaDhcpv4Client) UploadReservationsFile(ctx context.Context, path string) (*opnsense.Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied on purpose
	if err != nil {
		return nil, fmt.Errorf("reading reservations file: %w", err)
	}

	return c.UploadReservations(ctx, data)
}

func (c *keaDhcpv4Client) AddPeer(ctx context.Context, peer opnsense.Document) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/kea/dhcpv4/addPeer", peer)
}

func (c *keaDhcpv4Client) DelPeer(ctx context.Context, uuid string) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/kea/dhcpv4/delPeer/"+uuid, nil)
}

func (c *keaDhcpv4Client) GetPeer(ctx context.Context, uuid string) (opnsense.Document, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.getDocument(ctx, "/kea/dhcpv4/getPeer/"+uuid)
}

func (c *keaDhcpv4Client) SetPeer(ctx context.Context, uuid string, peer opnsense.Document) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/kea/dhcpv4/setPeer/"+uuid, peer)
}

func (c *keaDhcpv4Client) SearchPeers(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.KeaPeer], error) {
	return search[opnsense.KeaPeer](ctx, c.client, "/kea/dhcpv4/searchPeer", params)
}

type keaLeases4Client struct {
	client *Client
}

func (c *keaLeases4Client) Search(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.KeaLease], error) {
	return search[opnsense.KeaLease](ctx, c.client, "/kea/leases4/search", params)
}

// serviceControlClient implements the service controller shared by the kea
// and dhcpv4 modules. Only the base path differs.
type serviceControlClient struct {
	client *Client
	base   string
}

func (c *serviceControlClient) Status(ctx context.Context) (*opnsense.ServiceStatus, error) {
	var status opnsense.ServiceStatus

	err := c.client.getJSON(ctx, c.base+"/status", nil, &status)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *serviceControlClient) Start(ctx context.Context) (*opnsense.Result, error) {
	return c.client.postResult(ctx, c.base+"/start", nil)
}

func (c *serviceControlClient) Stop(ctx context.Context) (*opnsense.Result, error) {
	return c.client.postResult(ctx, c.base+"/stop", nil)
}

func (c *serviceControlClient) Restart(ctx context.Context) (*opnsense.Result, error) {
	return c.client.postResult(ctx, c.base+"/restart", nil)
}

func (c *serviceControlClient) Reconfigure(ctx context.Context) (*opnsense.Result, error) {
	return c.client.postResult(ctx, c.base+"/reconfigure", nil)
}
