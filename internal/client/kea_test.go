package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/opnsense-go/opnsense/pkg/opnsense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeaSubnetLifecycle(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/dhcpv4/addSubnet", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]map[string]string

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "192.168.199.0/24", body["subnet4"]["subnet"])

		_, _ = w.Write([]byte(`{"result":"saved","uuid":"ab-12"}`))
	})
	mux.HandleFunc("/api/kea/dhcpv4/getSubnet/ab-12", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"subnet4":{"subnet":"192.168.199.0/24","description":"lab"}}`))
	})
	mux.HandleFunc("/api/kea/dhcpv4/setSubnet/ab-12", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"saved"}`))
	})
	mux.HandleFunc("/api/kea/dhcpv4/delSubnet/ab-12", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"result":"deleted"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	dhcpv4 := cli.Kea().Dhcpv4()

	added, err := dhcpv4.AddSubnet(ctx, opnsense.Document{
		"subnet4": map[string]string{"subnet": "192.168.199.0/24"},
	})
	require.NoError(t, err)
	assert.True(t, added.OK())
	assert.Equal(t, "ab-12", added.UUID)

	doc, err := dhcpv4.GetSubnet(ctx, "ab-12")
	require.NoError(t, err)
	assert.Contains(t, doc, "subnet4")

	updated, err := dhcpv4.SetSubnet(ctx, "ab-12", doc)
	require.NoError(t, err)
	assert.True(t, updated.OK())

	deleted, err := dhcpv4.DelSubnet(ctx, "ab-12")
	require.NoError(t, err)
	assert.True(t, deleted.OK())
}

func TestKeaSubnetUUIDRequired(t *testing.T) {
	t.Parallel()

	cli, _ := newTestClient(t, http.NewServeMux())
	ctx := t.Context()
	dhcpv4 := cli.Kea().Dhcpv4()

	_, err := dhcpv4.DelSubnet(ctx, "")
	assert.ErrorIs(t, err, opnsense.ErrUUIDRequired)

	_, err = dhcpv4.GetReservation(ctx, "")
	assert.ErrorIs(t, err, opnsense.ErrUUIDRequired)

	_, err = dhcpv4.SetPeer(ctx, "", opnsense.Document{})
	assert.ErrorIs(t, err, opnsense.ErrUUIDRequired)
}

func TestKeaSearchSubnets(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/dhcpv4/searchSubnet", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lab", r.URL.Query().Get("searchPhrase"))
		assert.Equal(t, "1", r.URL.Query().Get("current"))
		assert.Equal(t, "50", r.URL.Query().Get("rowCount"))

		_, _ = w.Write([]byte(`{
			"rows": [
				{"uuid":"s1","subnet":"192.168.199.0/24","description":"lab"},
				{"uuid":"s2","subnet":"10.10.0.0/16","description":"guests"}
			],
			"rowCount": 2,
			"total": 2,
			"current": 1
		}`))
	})

	cli, _ := newTestClient(t, mux)

	params := opnsense.NewSearchParams()
	params.SearchPhrase = "lab"

	result, err := cli.Kea().Dhcpv4().SearchSubnets(t.Context(), params)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "192.168.199.0/24", result.Rows[0].Subnet)
	assert.Equal(t, "guests", result.Rows[1].Description)
	assert.False(t, result.HasMore())
}

func TestKeaReservationValidationError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/dhcpv4/addReservation", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"result": "failed",
			"validations": {"reservation.ip_address": "Please specify a valid address."}
		}`))
	})

	cli, _ := newTestClient(t, mux)

	result, err := cli.Kea().Dhcpv4().AddReservation(t.Context(), opnsense.Document{
		"reservation": map[string]string{"ip_address": "not-an-ip"},
	})
	require.Error(t, err)
	assert.True(t, opnsense.IsValidationFailed(err))
	assert.False(t, result.OK())

	valErr := &opnsense.ValidationError{}
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Please specify a valid address.", valErr.FieldError("reservation.ip_address"))
}

func TestKeaReservationCSVRoundTrip(t *testing.T) {
	t.Parallel()

	csv := "ip_address,hw_address,hostname,description\n192.168.199.200,00:11:22:33:44:55,printer,\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/dhcpv4/downloadReservations", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	})
	mux.HandleFunc("/api/kea/dhcpv4/uploadReservations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/csv", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, csv, string(body))

		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	dhcpv4 := cli.Kea().Dhcpv4()

	downloaded, err := dhcpv4.DownloadReservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, csv, string(downloaded))

	uploaded, err := dhcpv4.UploadReservations(ctx, downloaded)
	require.NoError(t, err)
	assert.True(t, uploaded.OK())

	_, err = dhcpv4.UploadReservations(ctx, nil)
	assert.ErrorIs(t, err, opnsense.ErrEmptyUpload)
}

func TestKeaUploadReservationsFile(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/dhcpv4/uploadReservations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()

	path := t.TempDir() + "/reservations.csv"
	writeKeyFile(t, path, "ip_address,hw_address\n192.168.199.200,00:11:22:33:44:55\n")

	result, err := cli.Kea().Dhcpv4().UploadReservationsFile(ctx, path)
	require.NoError(t, err)
	assert.True(t, result.OK())

	_, err = cli.Kea().Dhcpv4().UploadReservationsFile(ctx, path+".missing")
	assert.Error(t, err)
}

func TestKeaLeases4Search(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/leases4/search", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"rows": [
				{"address":"192.168.199.151","hwaddr":"aa:bb:cc:dd:ee:ff","hostname":"laptop","state":"0","if_descr":"LAN"}
			],
			"rowCount": 1,
			"total": 1,
			"current": 1
		}`))
	})

	cli, _ := newTestClient(t, mux)

	result, err := cli.Kea().Leases4().Search(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "192.168.199.151", result.Rows[0].Address)
	assert.Equal(t, "LAN", result.Rows[0].Interface)
}

func TestKeaServiceControl(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/service/status", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"status":"running"}`))
	})
	mux.HandleFunc("/api/kea/service/reconfigure", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	service := cli.Kea().Service()

	status, err := service.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Running())

	result, err := service.Reconfigure(ctx)
	require.NoError(t, err)
	assert.True(t, result.OK())
}

func TestKeaCtrlAgentGetSet(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/kea/ctrl_agent/get", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ctrlagent":{"general":{"enabled":"1","http_port":"8000"}}}`))
	})
	mux.HandleFunc("/api/kea/ctrl_agent/set", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"saved"}`))
	})

	cli, _ := newTestClient(t, mux)
	ctx := t.Context()
	ctrlAgent := cli.Kea().CtrlAgent()

	doc, err := ctrlAgent.Get(ctx)
	require.NoError(t, err)
	assert.Contains(t, doc, "ctrlagent")

	result, err := ctrlAgent.Set(ctx, doc)
	require.NoError(t, err)
	assert.True(t, result.OK())
}
