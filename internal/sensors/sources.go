package sensors

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/util"
)

const asusWmiDevice = "asus-nb-wmi"

// NewCpuTemperature builds the cpu temperature chain: a configured input, the well known
// hwmon drivers, the thermal zone files and finally gopsutil.
func NewCpuTemperature(fs afero.Fs, config configuration.SensorsConfig) ChainTemperature {
	var sources []TemperatureSource
	if len(config.CpuTempInput) > 0 {
		sources = append(sources, FileTemperature{Fs: fs, Paths: []string{config.CpuTempInput}})
	}
	sources = append(sources,
		HwmonTemperature{Fs: fs, Root: config.HwmonPath, Names: CpuHwmonNames},
		FileTemperature{Fs: fs, Paths: DefaultCpuTemperatureFiles(config.ThermalPath, config.HwmonPath)},
		GopsutilTemperature{},
	)
	return ChainTemperature{Sources: sources, Fallback: float64(config.FallbackTemperature)}
}

func NewGpuTemperature(fs afero.Fs, runner util.Runner, config configuration.SensorsConfig) GpuTemperature {
	return GpuTemperature{
		Fs:        fs,
		HwmonRoot: config.HwmonPath,
		Runner:    runner,
		Timeout:   config.GpuTimeout,
	}
}

// NewFanRpmReader resolves the hwmon device of the asus WMI platform driver, if any
func NewFanRpmReader(fs afero.Fs, platformPath string, hwmonRoot string) FanRpmReader {
	reader := FanRpmReader{Fs: fs, HwmonRoot: hwmonRoot}
	devices := util.GlobDirs(fs, filepath.Join(platformPath, asusWmiDevice, "hwmon", "hwmon*"))
	if len(devices) > 0 {
		reader.WmiHwmonPath = devices[0]
	}
	return reader
}
