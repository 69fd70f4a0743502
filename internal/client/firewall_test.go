package client_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasAddItem(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/alias/addItem", func(w http.ResponseWriter, r *http.Request) {
		var body opnsense.AliasRequest

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "blocklist", body.Alias.Name)
		assert.Equal(t, "1", body.Alias.Enabled)

		_, _ = w.Write([]byte(`{"result":"saved","uuid":"alias-1"}`))
	})

	cli, _ := newTestClient(t, mux)

	result, err := cli.Firewall().Alias().AddItem(t.Context(), &opnsense.AliasRequest{
		Alias: opnsense.Alias{
			Enabled: "1",
			Name:    "blocklist",
			Type:    "host",
			Content: "203.0.113.7",
		},
	})
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, "alias-1", result.UUID)
}

func TestAliasAddItemNameRequired(t *testing.T) {
	t.Parallel()

	cli, _ := newTestClient(t, http.NewServeMux())

	_, err := cli.Firewall().Alias().AddItem(t.Context(), &opnsense.AliasRequest{})
	assert.ErrorIs(t, err, opnsense.ErrAliasNameRequired)

	_, err = cli.Firewall().Alias().AddItem(t.Context(), nil)
	assert.ErrorIs(t, err, opnsense.ErrAliasNameRequired)
}

func TestAliasAddItemValidationFailed(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/alias/addItem", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"result": "failed",
			"validations": {"alias.content": "Please provide a valid host."}
		}`))
	})

	cli, _ := newTestClient(t, mux)

	_, err := cli.Firewall().Alias().AddItem(t.Context(), &opnsense.AliasRequest{
		Alias: opnsense.Alias{Name: "broken", Type: "host", Content: "not valid"},
	})
	require.Error(t, err)
	assert.True(t, opnsense.IsValidationFailed(err))
}

func TestAliasToggleItem(t *testing.T) {
	t.Parallel()

	var path string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/alias/", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"result":"saved"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	alias := cli.Firewall().Alias()

	enabled := true

	_, err := alias.ToggleItem(ctx, "alias-1", &enabled)
	require.NoError(t, err)
	assert.Equal(t, "/api/firewall/alias/toggleItem/alias-1/1", path)

	disabled := false

	_, err = alias.ToggleItem(ctx, "alias-1", &disabled)
	require.NoError(t, err)
	assert.Equal(t, "/api/firewall/alias/toggleItem/alias-1/0", path)

	_, err = alias.ToggleItem(ctx, "alias-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/firewall/alias/toggleItem/alias-1", path)
}

func TestAliasSearchAndReconfigure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/alias/searchItem", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"rows": [
				{"uuid":"a1","enabled":"1","name":"blocklist","type":"host","content":"203.0.113.7","description":""}
			],
			"rowCount": 1,
			"total": 1,
			"current": 1
		}`))
	})
	mux.HandleFunc("/api/firewall/alias/reconfigure", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()

	result, err := cli.Firewall().Alias().SearchItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "blocklist", result.Rows[0].Name)

	status, err := cli.Firewall().Alias().Reconfigure(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
}

func TestAliasUtil(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/alias_util/list/blocklist", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rows":[{"ip":"203.0.113.7"}],"rowCount":1,"total":1,"current":1}`))
	})
	mux.HandleFunc("/api/firewall/alias_util/add/blocklist", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "198.51.100.4", body["address"])

		_, _ = w.Write([]byte(`{"status":"done"}`))
	})
	mux.HandleFunc("/api/firewall/alias_util/flush/blocklist", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"done"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	util := cli.Firewall().AliasUtil()

	entries, err := util.List(ctx, "blocklist")
	require.NoError(t, err)
	require.Len(t, entries.Rows, 1)
	assert.Equal(t, "203.0.113.7", entries.Rows[0].Address)

	added, err := util.Add(ctx, "blocklist", "198.51.100.4")
	require.NoError(t, err)
	assert.Equal(t, "done", added.Status)

	flushed, err := util.Flush(ctx, "blocklist")
	require.NoError(t, err)
	assert.Equal(t, "done", flushed.Status)

	_, err = util.Add(ctx, "", "198.51.100.4")
	assert.ErrorIs(t, err, opnsense.ErrAliasNameRequired)

	_, err = util.Add(ctx, "blocklist", "")
	assert.ErrorIs(t, err, opnsense.ErrAddressRequired)
}

func TestFilterRuleLifecycle(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/filter/addRule", func(w http.ResponseWriter, r *http.Request) {
		var body opnsense.FilterRuleRequest

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pass", body.Rule.Action)
		assert.Equal(t, "lan", body.Rule.Interface)

		_, _ = w.Write([]byte(`{"result":"saved","uuid":"rule-1"}`))
	})
	mux.HandleFunc("/api/firewall/filter/delRule/rule-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"deleted"}`))
	})
	mux.HandleFunc("/api/firewall/filter/apply", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	filter := cli.Firewall().Filter()

	added, err := filter.AddRule(ctx, &opnsense.FilterRuleRequest{
		Rule: opnsense.FilterRule{
			Enabled:        "1",
			Sequence:       "1",
			Action:         "pass",
			Interface:      "lan",
			Protocol:       "TCP",
			SourceNet:      "lan",
			DestinationNet: "any",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "rule-1", added.UUID)

	deleted, err := filter.DelRule(ctx, "rule-1")
	require.NoError(t, err)
	assert.True(t, deleted.OK())

	applied, err := filter.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", applied.Status)
}

func TestFilterSavepointRevert(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/firewall/filter/savepoint", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","revision":"1724300000.1234"}`))
	})
	mux.HandleFunc("/api/firewall/filter/revert/1724300000.1234", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	filter := cli.Firewall().Filter()

	savepoint, err := filter.Savepoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1724300000.1234", savepoint.Revision)

	reverted, err := filter.Revert(ctx, savepoint.Revision)
	require.NoError(t, err)
	assert.Equal(t, "ok", reverted.Status)
}
