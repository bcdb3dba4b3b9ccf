package configuration

import "time"

type SensorsConfig struct {
	PollingRate       time.Duration `json:"pollingRate"`
	RollingWindowSize int           `json:"rollingWindowSize"`

	HwmonPath   string `json:"hwmonPath"`
	ThermalPath string `json:"thermalPath"`
	// CpuTempInput overrides the detected cpu temperature input file
	CpuTempInput        string        `json:"cpuTempInput"`
	FallbackTemperature int           `json:"fallbackTemperature"`
	GpuTimeout          time.Duration `json:"gpuTimeout"`
}
