package configuration

import "time"

type BatteryConfig struct {
	Enabled bool `json:"enabled"`

	PowerSupplyPath string   `json:"powerSupplyPath"`
	Batteries       []string `json:"batteries"`
	VendorCliPaths  []string `json:"vendorCliPaths"`

	Debounce            time.Duration `json:"debounce"`
	EnforcementTickRate time.Duration `json:"enforcementTickRate"`
	VerifyTimeout       time.Duration `json:"verifyTimeout"`

	LimitFilePath    string `json:"limitFilePath"`
	AsusdConfigPath  string `json:"asusdConfigPath"`
	WatchAsusdConfig bool   `json:"watchAsusdConfig"`
}
