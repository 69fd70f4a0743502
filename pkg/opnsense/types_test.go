package opnsense_test

import (
	"testing"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/stretchr/testify/assert"
)

func TestResultOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *opnsense.Result
		want   bool
	}{
		{
			name:   "saved",
			result: &opnsense.Result{Result: "saved", UUID: "abc"},
			want:   true,
		},
		{
			name:   "deleted",
			result: &opnsense.Result{Result: "deleted"},
			want:   true,
		},
		{
			name: "failed with validations",
			result: &opnsense.Result{
				Result:      "failed",
				Validations: map[string]string{"alias.name": "required"},
			},
			want: false,
		},
		{
			name:   "empty",
			result: &opnsense.Result{},
			want:   false,
		},
		{
			name:   "nil",
			result: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.OK())
		})
	}
}

func TestSearchParamsToValues(t *testing.T) {
	t.Parallel()

	params := opnsense.NewSearchParams()
	params.SearchPhrase = "lan"
	params.Sort = "description"

	values := params.ToValues()
	assert.Equal(t, "lan", values.Get("searchPhrase"))
	assert.Equal(t, "1", values.Get("current"))
	assert.Equal(t, "50", values.Get("rowCount"))
	assert.Equal(t, "description", values.Get("sort"))
}

func TestSearchParamsToValuesDefaults(t *testing.T) {
	t.Parallel()

	values := opnsense.NewSearchParams().ToValues()
	assert.Equal(t, "1", values.Get("current"))
	assert.Equal(t, "50", values.Get("rowCount"))
	assert.Empty(t, values.Get("searchPhrase"))
	assert.Empty(t, values.Get("sort"))
}

func TestSearchParamsAllRows(t *testing.T) {
	t.Parallel()

	params := &opnsense.SearchParams{RowCount: -1}

	values := params.ToValues()
	assert.Equal(t, "-1", values.Get("rowCount"))
	assert.Empty(t, values.Get("current"))
}

func TestSearchResultHasMore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result opnsense.SearchResult[opnsense.AliasItem]
		want   bool
	}{
		{
			name:   "first page of many",
			result: opnsense.SearchResult[opnsense.AliasItem]{RowCount: 50, Total: 120, Current: 1},
			want:   true,
		},
		{
			name:   "last page",
			result: opnsense.SearchResult[opnsense.AliasItem]{RowCount: 50, Total: 120, Current: 3},
			want:   false,
		},
		{
			name:   "single page",
			result: opnsense.SearchResult[opnsense.AliasItem]{RowCount: 50, Total: 10, Current: 1},
			want:   false,
		},
		{
			name:   "all rows requested",
			result: opnsense.SearchResult[opnsense.AliasItem]{RowCount: -1, Total: 120, Current: 1},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.HasMore())
		})
	}
}

func TestServiceStatusRunning(t *testing.T) {
	t.Parallel()

	running := &opnsense.ServiceStatus{Status: "running"}
	assert.True(t, running.Running())

	stopped := &opnsense.ServiceStatus{Status: "stopped"}
	assert.False(t, stopped.Running())

	var unset *opnsense.ServiceStatus

	assert.False(t, unset.Running())
}
