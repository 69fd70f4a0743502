package opnsense

import (
	"net/url"
	"strconv"
)

// Document is a generically typed JSON payload. The appliance's model-backed
// get/set endpoints exchange full settings documents whose shape follows the
// controller's XML data model, so they are not mirrored as Go structs.
type Document map[string]interface{}

// Result represents the mutation response returned by add/set/del/toggle
// endpoints.
type Result struct {
	Result      string            `json:"result"                yaml:"result"`
	UUID        string            `json:"uuid,omitempty"        yaml:"uuid,omitempty"`
	Validations map[string]string `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// OK reports whether the appliance accepted the mutation. The appliance
// answers "saved", "deleted", "ok", or similar on success and "failed" when
// model validation rejected the payload.
func (r *Result) OK() bool {
	return r != nil && r.Result != "" && r.Result != "failed"
}

// SearchResult represents the grid envelope returned by search* endpoints.
type SearchResult[T any] struct {
	Rows     []T `json:"rows"     yaml:"rows"`
	RowCount int `json:"rowCount" yaml:"rowCount"`
	Total    int `json:"total"    yaml:"total"`
	Current  int `json:"current"  yaml:"current"`
}

// HasMore reports whether further pages exist beyond the current one.
func (r *SearchResult[T]) HasMore() bool {
	if r.RowCount <= 0 {
		return false
	}

	return r.Current*r.RowCount < r.Total
}

// SearchParams holds the paging and filter parameters accepted by search*
// endpoints.
type SearchParams struct {
	// SearchPhrase filters rows by substring match.
	SearchPhrase string
	// Current is the 1-based page number.
	Current int
	// RowCount is the page size; -1 requests all rows.
	RowCount int
	// Sort orders rows, e.g. "description" or "description,desc".
	Sort string
}

// NewSearchParams creates search parameters with default paging.
func NewSearchParams() *SearchParams {
	return &SearchParams{
		Current:  1,
		RowCount: 50,
	}
}

// ToValues converts the parameters to URL query values.
func (p *SearchParams) ToValues() url.Values {
	values := url.Values{}

	if p.SearchPhrase != "" {
		values.Set("searchPhrase", p.SearchPhrase)
	}

	if p.Current > 0 {
		values.Set("current", strconv.Itoa(p.Current))
	}

	if p.RowCount != 0 {
		values.Set("rowCount", strconv.Itoa(p.RowCount))
	}

	if p.Sort != "" {
		values.Set("sort", p.Sort)
	}

	return values
}

// ServiceStatus represents a service status response.
type ServiceStatus struct {
	Status string `json:"status" yaml:"status"`
}

// Running reports whether the service is up.
func (s *ServiceStatus) Running() bool {
	return s != nil && s.Status == "running"
}

// StatusResponse is the bare {"status": ...} acknowledgement returned by
// apply/flush style endpoints.
type StatusResponse struct {
	Status string `json:"status" yaml:"status"`
}
