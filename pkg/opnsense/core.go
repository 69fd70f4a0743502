package opnsense

import "context"

// FirmwareClient interacts with the core/firmware endpoints.
type FirmwareClient interface {
	// Status returns the result of the most recent update check.
	Status(ctx context.Context) (*FirmwareStatus, error)
	// Info returns package and plugin information.
	Info(ctx context.Context) (Document, error)
	// Check triggers a new update check in the background.
	Check(ctx context.Context) (*StatusResponse, error)
	// Upgrade starts a firmware upgrade in the background.
	Upgrade(ctx context.Context) (*StatusResponse, error)
	// Changelog returns the changelog for a release version.
	Changelog(ctx context.Context, version string) (Document, error)
}

// CoreServiceClient interacts with the core/service endpoints that manage
// every daemon registered on the appliance.
type CoreServiceClient interface {
	// Search lists registered services and their run state.
	Search(ctx context.Context, params *SearchParams) (*SearchResult[ServiceInfo], error)
	// Start starts a service by id.
	Start(ctx context.Context, name string) (*Result, error)
	// Stop stops a service by id.
	Stop(ctx context.Context, name string) (*Result, error)
	// Restart restarts a service by id.
	Restart(ctx context.Context, name string) (*Result, error)
}

// SystemClient interacts with the core/system endpoints.
type SystemClient interface {
	// Status returns aggregated system health status.
	Status(ctx context.Context) (Document, error)
	// Reboot reboots the appliance.
	Reboot(ctx context.Context) (*StatusResponse, error)
	// Halt shuts the appliance down.
	Halt(ctx context.Context) (*StatusResponse, error)
}

// BackupClient interacts with the core/backup endpoints.
type BackupClient interface {
	// Providers lists available backup providers.
	Providers(ctx context.Context) (Document, error)
	// Download returns the configuration backup of a provider as XML.
	Download(ctx context.Context, provider string) ([]byte, error)
}

// FirmwareStatus is the core/firmware/status response.
type FirmwareStatus struct {
	Status             string   `json:"status"               yaml:"status"`
	StatusMsg          string   `json:"status_msg"           yaml:"status_msg"`
	LastCheck          string   `json:"last_check"           yaml:"last_check"`
	DownloadSize       string   `json:"download_size"        yaml:"download_size"`
	NeedsReboot        string   `json:"needs_reboot"         yaml:"needs_reboot"`
	UpgradeNeedsReboot string   `json:"upgrade_needs_reboot" yaml:"upgrade_needs_reboot"`
	ProductVersion     string   `json:"product_version"      yaml:"product_version"`
	NewPackages        []string `json:"new_packages"         yaml:"new_packages"`
	UpgradePackages    []string `json:"upgrade_packages"     yaml:"upgrade_packages"`
}

// UpdateAvailable reports whether the last check found pending updates.
func (s *FirmwareStatus) UpdateAvailable() bool {
	return s != nil && s.Status == "update"
}

// ServiceInfo is a row of the core/service/search grid.
type ServiceInfo struct {
	ID          string `json:"id"          yaml:"id"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Running     int    `json:"running"     yaml:"running"`
	Locked      int    `json:"locked"      yaml:"locked"`
}

// IsRunning reports whether the service is up.
func (s *ServiceInfo) IsRunning() bool {
	return s.Running == 1
}
