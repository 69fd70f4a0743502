package client

import (
	"context"
	"sync"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// coreNamespace groups the core module controllers.
type coreNamespace struct {
	client *Client

	firmwareOnce sync.Once
	firmware     *firmwareClient
	serviceOnce  sync.Once
	service      *coreServiceClient
	systemOnce   sync.Once
	system       *systemClient
	backupOnce   sync.Once
	backup       *backupClient
}

func (n *coreNamespace) Firmware() opnsense.FirmwareClient {
	n.firmwareOnce.Do(func() {
		n.firmware = &firmwareClient{client: n.client}
	})

	return n.firmware
}

func (n *coreNamespace) Service() opnsense.CoreServiceClient {
	n.serviceOnce.Do(func() {
		n.service = &coreServiceClient{client: n.client}
	})

	return n.service
}

func (n *coreNamespace) System() opnsense.SystemClient {
	n.systemOnce.Do(func() {
		n.system = &systemClient{client: n.client}
	})

	return n.system
}

func (n *coreNamespace) Backup() opnsense.BackupClient {
	n.backupOnce.Do(func() {
		n.backup = &backupClient{client: n.client}
	})

	return n.backup
}

type firmwareClient struct {
	client *Client
}

func (c *firmwareClient) Status(ctx context.Context) (*opnsense.FirmwareStatus, error) {
	var status opnsense.FirmwareStatus

	err := c.client.getJSON(ctx, "/core/firmware/status", nil, &status)
	if err != nil {
		return nil, err
	}

	return &status, nil
}

func (c *firmwareClient) Info(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/core/firmware/info")
}

func (c *firmwareClient) Check(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/core/firmware/check")
}

func (c *firmwareClient) Upgrade(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/core/firmware/upgrade")
}

func (c *firmwareClient) Changelog(ctx context.Context, version string) (opnsense.Document, error) {
	var doc opnsense.Document

	resp, err := c.client.httpClient.Post(ctx, "/core/firmware/changelog/"+version, nil)
	if err != nil {
		return nil, err
	}

	err = decodeDocument(resp.Body, &doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

type coreServiceClient struct {
	client *Client
}

func (c *coreServiceClient) Search(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.ServiceInfo], error) {
	return search[opnsense.ServiceInfo](ctx, c.client, "/core/service/search", params)
}

func (c *coreServiceClient) Start(ctx context.Context, name string) (*opnsense.Result, error) {
	if name == "" {
		return nil, opnsense.ErrServiceNameRequired
	}

	return c.client.postResult(ctx, "/core/service/start/"+name, nil)
}

func (c *coreServiceClient) Stop(ctx context.Context, name string) (*opnsense.Result, error) {
	if name == "" {
		return nil, opnsense.ErrServiceNameRequired
	}

	return c.client.postResult(ctx, "/core/service/stop/"+name, nil)
}

func (c *coreServiceClient) Restart(ctx context.Context, name string) (*opnsense.Result, error) {
	if name == "" {
		return nil, opnsense.ErrServiceNameRequired
	}

	return c.client.postResult(ctx, "/core/service/restart/"+name, nil)
}

type systemClient struct {
	client *Client
}

func (c *systemClient) Status(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/core/system/status")
}

func (c *systemClient) Reboot(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/core/system/reboot")
}

func (c *systemClient) Halt(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/core/system/halt")
}

type backupClient struct {
	client *Client
}

func (c *backupClient) Providers(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/core/backup/providers")
}

// Download returns the configuration backup of a provider as XML. Use "this"
// for the local configuration.
func (c *backupClient) Download(ctx context.Context, provider string) ([]byte, error) {
	if provider == "" {
		return nil, opnsense.ErrProviderRequired
	}

	resp, err := c.client.httpClient.GetRaw(ctx, "/core/backup/download/"+provider)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
