package client

import (
	"context"
	"sync"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
)

// firewallNamespace groups the firewall module controllers.
type firewallNamespace struct {
	client *Client

	aliasOnce     sync.Once
	alias         *aliasClient
	aliasUtilOnce sync.Once
	aliasUtil     *aliasUtilClient
	filterOnce    sync.Once
	filter        *filterClient
}

func (n *firewallNamespace) Alias() opnsense.AliasClient {
	n.aliasOnce.Do(func() {
		n.alias = &aliasClient{client: n.client}
	})

	return n.alias
}

func (n *firewallNamespace) AliasUtil() opnsense.AliasUtilClient {
	n.aliasUtilOnce.Do(func() {
		n.aliasUtil = &aliasUtilClient{client: n.client}
	})

	return n.aliasUtil
}

func (n *firewallNamespace) Filter() opnsense.FilterClient {
	n.filterOnce.Do(func() {
		n.filter = &filterClient{client: n.client}
	})

	return n.filter
}

type aliasClient struct {
	client *Client
}

func (c *aliasClient) Get(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/firewall/alias/get")
}

func (c *aliasClient) Set(ctx context.Context, settings opnsense.Document) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/firewall/alias/set", settings)
}

func (c *aliasClient) AddItem(ctx context.Context, alias *opnsense.AliasRequest) (*opnsense.Result, error) {
	if alias == nil || alias.Alias.Name == "" {
		return nil, opnsense.ErrAliasNameRequired
	}

	return c.client.postResult(ctx, "/firewall/alias/addItem", alias)
}

func (c *aliasClient) DelItem(ctx context.Context, uuid string) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/firewall/alias/delItem/"+uuid, nil)
}

func (c *aliasClient) GetItem(ctx context.Context, uuid string) (opnsense.Document, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.getDocument(ctx, "/firewall/alias/getItem/"+uuid)
}

func (c *aliasClient) SetItem(ctx context.Context, uuid string, alias *opnsense.AliasRequest) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/firewall/alias/setItem/"+uuid, alias)
}

// ToggleItem enables or disables an alias. A nil enabled flips the current
// state, matching the endpoint's optional toggle parameter.
func (c *aliasClient) ToggleItem(ctx context.Context, uuid string, enabled *bool) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	path := "/firewall/alias/toggleItem/" + uuid
	if enabled != nil {
		if *enabled {
			path += "/1"
		} else {
			path += "/0"
		}
	}

	return c.client.postResult(ctx, path, nil)
}

func (c *aliasClient) SearchItems(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.AliasItem], error) {
	return search[opnsense.AliasItem](ctx, c.client, "/firewall/alias/searchItem", params)
}

func (c *aliasClient) Export(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/firewall/alias/export")
}

func (c *aliasClient) ListCategories(ctx context.Context) (opnsense.Document, error) {
	return c.client.getDocument(ctx, "/firewall/alias/listCategories")
}

func (c *aliasClient) Reconfigure(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/firewall/alias/reconfigure")
}

type aliasUtilClient struct {
	client *Client
}

func (c *aliasUtilClient) List(ctx context.Context, alias string) (*opnsense.SearchResult[opnsense.AliasEntry], error) {
	if alias == "" {
		return nil, opnsense.ErrAliasNameRequired
	}

	return search[opnsense.AliasEntry](ctx, c.client, "/firewall/alias_util/list/"+alias, nil)
}

func (c *aliasUtilClient) Add(ctx context.Context, alias, address string) (*opnsense.StatusResponse, error) {
	if alias == "" {
		return nil, opnsense.ErrAliasNameRequired
	}

	if address == "" {
		return nil, opnsense.ErrAddressRequired
	}

	return c.postAddress(ctx, "/firewall/alias_util/add/"+alias, address)
}

func (c *aliasUtilClient) Delete(ctx context.Context, alias, address string) (*opnsense.StatusResponse, error) {
	if alias == "" {
		return nil, opnsense.ErrAliasNameRequired
	}

	if address == "" {
		return nil, opnsense.ErrAddressRequired
	}

	return c.postAddress(ctx, "/firewall/alias_util/delete/"+alias, address)
}

func (c *aliasUtilClient) Flush(ctx context.Context, alias string) (*opnsense.StatusResponse, error) {
	if alias == "" {
		return nil, opnsense.ErrAliasNameRequired
	}

	return c.client.postStatus(ctx, "/firewall/alias_util/flush/"+alias)
}

func (c *aliasUtilClient) FindReferences(ctx context.Context, address string) (opnsense.Document, error) {
	if address == "" {
		return nil, opnsense.ErrAddressRequired
	}

	var doc opnsense.Document

	resp, err := c.client.httpClient.Post(ctx, "/firewall/alias_util/find_references", map[string]string{"ip": address})
	if err != nil {
		return nil, err
	}

	err = decodeDocument(resp.Body, &doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (c *aliasUtilClient) postAddress(ctx context.Context, path, address string) (*opnsense.StatusResponse, error) {
	resp, err := c.client.httpClient.Post(ctx, path, map[string]string{"address": address})
	if err != nil {
		return nil, err
	}

	var doc opnsense.Document

	err = decodeDocument(resp.Body, &doc)
	if err != nil {
		return nil, err
	}

	status, _ := doc["status"].(string)

	return &opnsense.StatusResponse{Status: status}, nil
}

type filterClient struct {
	client *Client
}

func (c *filterClient) AddRule(ctx context.Context, rule *opnsense.FilterRuleRequest) (*opnsense.Result, error) {
	return c.client.postResult(ctx, "/firewall/filter/addRule", rule)
}

func (c *filterClient) DelRule(ctx context.Context, uuid string) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/firewall/filter/delRule/"+uuid, nil)
}

func (c *filterClient) GetRule(ctx context.Context, uuid string) (opnsense.Document, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.getDocument(ctx, "/firewall/filter/getRule/"+uuid)
}

func (c *filterClient) SetRule(ctx context.Context, uuid string, rule *opnsense.FilterRuleRequest) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postResult(ctx, "/firewall/filter/setRule/"+uuid, rule)
}

func (c *filterClient) ToggleRule(ctx context.Context, uuid string, enabled *bool) (*opnsense.Result, error) {
	if uuid == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	path := "/firewall/filter/toggleRule/" + uuid
	if enabled != nil {
		if *enabled {
			path += "/1"
		} else {
			path += "/0"
		}
	}

	return c.client.postResult(ctx, path, nil)
}

func (c *filterClient) SearchRules(ctx context.Context, params *opnsense.SearchParams) (*opnsense.SearchResult[opnsense.FilterRule], error) {
	return search[opnsense.FilterRule](ctx, c.client, "/firewall/filter/searchRule", params)
}

func (c *filterClient) Apply(ctx context.Context) (*opnsense.StatusResponse, error) {
	return c.client.postStatus(ctx, "/firewall/filter/apply")
}

// Savepoint creates a rollback point. Apply with the returned revision and
// revert later if the new rule set locked you out.
func (c *filterClient) Savepoint(ctx context.Context) (*opnsense.Savepoint, error) {
	resp, err := c.client.httpClient.Post(ctx, "/firewall/filter/savepoint", nil)
	if err != nil {
		return nil, err
	}

	var doc opnsense.Document

	err = decodeDocument(resp.Body, &doc)
	if err != nil {
		return nil, err
	}

	status, _ := doc["status"].(string)
	revision, _ := doc["revision"].(string)

	return &opnsense.Savepoint{Status: status, Revision: revision}, nil
}

func (c *filterClient) Revert(ctx context.Context, revision string) (*opnsense.StatusResponse, error) {
	if revision == "" {
		return nil, opnsense.ErrUUIDRequired
	}

	return c.client.postStatus(ctx, "/firewall/filter/revert/"+revision)
}
