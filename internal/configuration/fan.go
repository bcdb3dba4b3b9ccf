package configuration

import "time"

type FanConfig struct {
	// EnforcementTickRate is the interval in which a manual fan setting is re-asserted
	EnforcementTickRate time.Duration `json:"enforcementTickRate"`

	AcpiCallPath string   `json:"acpiCallPath"`
	AcpiMethods  []string `json:"acpiMethods"`

	PlatformPath string `json:"platformPath"`
	HwmonPath    string `json:"hwmonPath"`

	EcProbe       EcProbeConfig       `json:"ecProbe"`
	StallWatchdog StallWatchdogConfig `json:"stallWatchdog"`
}

type EcProbeConfig struct {
	Path string `json:"path"`
	// CpuRegister and GpuRegister are the embedded controller registers taking a fan value,
	// 0 disables dispatch through ec_probe
	CpuRegister int           `json:"cpuRegister"`
	GpuRegister int           `json:"gpuRegister"`
	Timeout     time.Duration `json:"timeout"`
}

type StallWatchdogConfig struct {
	Enabled bool `json:"enabled"`
	// MinPercent is the requested speed above which a fan reading 0 rpm counts as stalled
	MinPercent      int `json:"minPercent"`
	MaxStalledTicks int `json:"maxStalledTicks"`
}
