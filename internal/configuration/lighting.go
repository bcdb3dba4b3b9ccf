package configuration

import "time"

type LightingConfig struct {
	Enabled bool `json:"enabled"`

	LedPath           string   `json:"ledPath"`
	VendorCliPaths    []string `json:"vendorCliPaths"`
	CommunityCliPaths []string `json:"communityCliPaths"`

	// InitTimeout bounds the keyboard initialization of the community cli
	InitTimeout      time.Duration `json:"initTimeout"`
	ProbeJoinTimeout time.Duration `json:"probeJoinTimeout"`

	CompetingServices  []string `json:"competingServices"`
	CompetingProcesses []string `json:"competingProcesses"`

	AuraConfigPath   string `json:"auraConfigPath"`
	RestoreOnStartup bool   `json:"restoreOnStartup"`
}
