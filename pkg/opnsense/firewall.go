package opnsense

import "context"

// AliasClient interacts with the firewall/alias endpoints.
type AliasClient interface {
	// Get returns the full alias configuration document.
	Get(ctx context.Context) (Document, error)
	// Set updates global alias settings.
	Set(ctx context.Context, settings Document) (*Result, error)
	// AddItem creates an alias.
	AddItem(ctx context.Context, alias *AliasRequest) (*Result, error)
	// DelItem deletes an alias by UUID.
	DelItem(ctx context.Context, uuid string) (*Result, error)
	// GetItem returns an alias configuration document by UUID.
	GetItem(ctx context.Context, uuid string) (Document, error)
	// SetItem updates an alias by UUID.
	SetItem(ctx context.Context, uuid string, alias *AliasRequest) (*Result, error)
	// ToggleItem enables or disables an alias. A nil enabled flips the
	// current state.
	ToggleItem(ctx context.Context, uuid string, enabled *bool) (*Result, error)
	// SearchItems lists configured aliases.
	SearchItems(ctx context.Context, params *SearchParams) (*SearchResult[AliasItem], error)
	// Export returns all aliases as a portable document.
	Export(ctx context.Context) (Document, error)
	// ListCategories lists alias categories.
	ListCategories(ctx context.Context) (Document, error)
	// Reconfigure applies pending alias changes.
	Reconfigure(ctx context.Context) (*StatusResponse, error)
}

// AliasUtilClient interacts with the firewall/alias_util endpoints for
// runtime manipulation of alias contents without a reconfigure.
type AliasUtilClient interface {
	// List returns the addresses currently loaded for an alias.
	List(ctx context.Context, alias string) (*SearchResult[AliasEntry], error)
	// Add inserts an address into a runtime alias table.
	Add(ctx context.Context, alias, address string) (*StatusResponse, error)
	// Delete removes an address from a runtime alias table.
	Delete(ctx context.Context, alias, address string) (*StatusResponse, error)
	// Flush empties a runtime alias table.
	Flush(ctx context.Context, alias string) (*StatusResponse, error)
	// FindReferences lists the aliases containing an address.
	FindReferences(ctx context.Context, address string) (Document, error)
}

// FilterClient interacts with the firewall/filter automation endpoints.
type FilterClient interface {
	// AddRule creates a filter rule.
	AddRule(ctx context.Context, rule *FilterRuleRequest) (*Result, error)
	// DelRule deletes a filter rule by UUID.
	DelRule(ctx context.Context, uuid string) (*Result, error)
	// GetRule returns a filter rule configuration document by UUID.
	GetRule(ctx context.Context, uuid string) (Document, error)
	// SetRule updates a filter rule by UUID.
	SetRule(ctx context.Context, uuid string, rule *FilterRuleRequest) (*Result, error)
	// ToggleRule enables or disables a rule. A nil enabled flips the
	// current state.
	ToggleRule(ctx context.Context, uuid string, enabled *bool) (*Result, error)
	// SearchRules lists configured filter rules.
	SearchRules(ctx context.Context, params *SearchParams) (*SearchResult[FilterRule], error)
	// Apply activates the current rule set.
	Apply(ctx context.Context) (*StatusResponse, error)
	// Savepoint creates a rollback point and returns its revision.
	Savepoint(ctx context.Context) (*Savepoint, error)
	// Revert rolls the rule set back to a savepoint revision.
	Revert(ctx context.Context, revision string) (*StatusResponse, error)
}

// Alias describes a firewall alias. The appliance models booleans as "0"/"1"
// strings and multi-value fields as newline-separated strings, mirroring its
// XML data model.
type Alias struct {
	Enabled     string `json:"enabled"               yaml:"enabled"`
	Name        string `json:"name"                  yaml:"name"`
	Type        string `json:"type"                  yaml:"type"`
	Proto       string `json:"proto,omitempty"       yaml:"proto,omitempty"`
	Content     string `json:"content"               yaml:"content"`
	Categories  string `json:"categories,omitempty"  yaml:"categories,omitempty"`
	UpdateFreq  string `json:"updatefreq,omitempty"  yaml:"updatefreq,omitempty"`
	Counters    string `json:"counters,omitempty"    yaml:"counters,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// AliasRequest wraps an Alias for the addItem/setItem endpoints.
type AliasRequest struct {
	Alias Alias `json:"alias" yaml:"alias"`
}

// AliasItem is a row of the firewall/alias/searchItem grid.
type AliasItem struct {
	UUID        string `json:"uuid"        yaml:"uuid"`
	Enabled     string `json:"enabled"     yaml:"enabled"`
	Name        string `json:"name"        yaml:"name"`
	Type        string `json:"type"        yaml:"type"`
	Content     string `json:"content"     yaml:"content"`
	Description string `json:"description" yaml:"description"`
}

// AliasEntry is a row of the firewall/alias_util/list grid.
type AliasEntry struct {
	Address string `json:"ip" yaml:"ip"`
}

// FilterRule describes an automation filter rule.
type FilterRule struct {
	UUID            string `json:"uuid,omitempty"            yaml:"uuid,omitempty"`
	Enabled         string `json:"enabled"                   yaml:"enabled"`
	Sequence        string `json:"sequence"                  yaml:"sequence"`
	Action          string `json:"action"                    yaml:"action"`
	Interface       string `json:"interface"                 yaml:"interface"`
	Direction       string `json:"direction,omitempty"       yaml:"direction,omitempty"`
	Protocol        string `json:"protocol"                  yaml:"protocol"`
	SourceNet       string `json:"source_net"                yaml:"source_net"`
	SourcePort      string `json:"source_port,omitempty"     yaml:"source_port,omitempty"`
	DestinationNet  string `json:"destination_net"           yaml:"destination_net"`
	DestinationPort string `json:"destination_port,omitempty" yaml:"destination_port,omitempty"`
	Description     string `json:"description,omitempty"     yaml:"description,omitempty"`
}

// FilterRuleRequest wraps a FilterRule for the addRule/setRule endpoints.
type FilterRuleRequest struct {
	Rule FilterRule `json:"rule" yaml:"rule"`
}

// Savepoint is the firewall/filter/savepoint response.
type Savepoint struct {
	Status   string `json:"status"   yaml:"status"`
	Revision string `json:"revision" yaml:"revision"`
}
