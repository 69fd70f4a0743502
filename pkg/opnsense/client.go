package opnsense

import (
	"time"
)

// Client is the top-level API object. It groups the appliance's API modules
// into namespaces; namespaces and their controller clients are constructed
// lazily on first access and cached for the lifetime of the Client, so
// repeated accessor calls return the identical instance.
type Client interface {
	// Kea exposes the Kea DHCP module controllers.
	Kea() KeaNamespace
	// Dhcpv4 exposes the legacy ISC DHCPv4 module controllers.
	Dhcpv4() Dhcpv4Namespace
	// Core exposes firmware, service, system, and backup controllers.
	Core() CoreNamespace
	// Firewall exposes alias and filter rule controllers.
	Firewall() FirewallNamespace
	// Diagnostics exposes read-mostly diagnostic controllers.
	Diagnostics() DiagnosticsNamespace
}

// KeaNamespace groups the controllers of the kea API module.
type KeaNamespace interface {
	CtrlAgent() KeaCtrlAgentClient
	Dhcpv4() KeaDhcpv4Client
	Leases4() KeaLeases4Client
	Service() ServiceControlClient
}

// Dhcpv4Namespace groups the controllers of the legacy ISC dhcpv4 module.
type Dhcpv4Namespace interface {
	Leases() DhcpLeasesClient
	Service() ServiceControlClient
}

// CoreNamespace groups the controllers of the core API module.
type CoreNamespace interface {
	Firmware() FirmwareClient
	Service() CoreServiceClient
	System() SystemClient
	Backup() BackupClient
}

// FirewallNamespace groups the controllers of the firewall API module.
type FirewallNamespace interface {
	Alias() AliasClient
	AliasUtil() AliasUtilClient
	Filter() FilterClient
}

// DiagnosticsNamespace groups the controllers of the diagnostics API module.
type DiagnosticsNamespace interface {
	Interface() DiagInterfaceClient
	Firewall() DiagFirewallClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a Client.
//
// # Credentials
//
// The appliance authenticates API calls with HTTP Basic auth using an API
// key/secret pair created in the firewall UI. Provide either APIKey+APISecret
// directly or KeyFile, the path to the credentials file downloaded from the
// UI (lines of key="..." and secret="..."). If both are set, the explicit
// pair wins.
//
// # TLS
//
// Appliances commonly run with self-signed certificates on the LAN.
// InsecureSkipVerify disables certificate verification for this client only;
// prefer installing a trusted certificate where possible.
type Config struct {
	// Endpoint: base URL of the firewall (e.g. "https://192.168.1.1").
	// opnclient.New normalizes this value: a missing scheme defaults to
	// https and the URL is rebuilt as scheme://host/api, discarding any
	// supplied path.
	Endpoint string

	// APIKey is the API key acting as the Basic auth username.
	APIKey string
	// APISecret is the API secret acting as the Basic auth password.
	APISecret string
	// KeyFile is the path to an API credentials file downloaded from the
	// firewall UI. Used when APIKey/APISecret are unset.
	KeyFile string

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// HTTPTimeout is the per-request timeout. Context deadlines passed to
	// client methods take precedence. If zero, a sensible default is used.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500,
	// 429, and connection errors). If 0, the client default applies.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header sent by the client.
	UserAgent string
	// Cache configures optional GET response caching. Nil disables caching.
	Cache *CacheConfig
	// Interceptors is an optional chain executed around every request,
	// e.g. for custom headers or metrics collection.
	Interceptors *InterceptorChain
}
