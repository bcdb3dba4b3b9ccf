package sensors

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	IdCpuTemp    = "cpu_temp"
	IdGpuTemp    = "gpu_temp"
	IdCpuFanRpm  = "cpu_fan_rpm"
	IdGpuFanRpm  = "gpu_fan_rpm"
	millidegrees = 1000
)

var ErrNoSensor = errors.New("no sensor found")

// TemperatureSource provides a temperature reading in °C
type TemperatureSource interface {
	Temperature() (float64, error)
}

// ChainTemperature asks every source in order and returns the first successful reading.
// If all sources fail the fallback value is returned.
type ChainTemperature struct {
	Sources  []TemperatureSource
	Fallback float64
}

func (c ChainTemperature) Temperature() (float64, error) {
	for _, source := range c.Sources {
		value, err := source.Temperature()
		if err == nil {
			return value, nil
		}
	}
	return c.Fallback, nil
}

// FindHwmonByName returns the path of the first hwmon device below root whose name is one of names.
// Names are tried in the given order.
func FindHwmonByName(fs afero.Fs, root string, names ...string) (string, bool) {
	devices := util.GlobDirs(fs, filepath.Join(root, "hwmon*"))
	deviceNames := map[string]string{}
	for _, device := range devices {
		name, err := util.ReadStringFromFile(fs, filepath.Join(device, "name"))
		if err != nil {
			continue
		}
		if _, exists := deviceNames[name]; !exists {
			deviceNames[name] = device
		}
	}
	for _, name := range names {
		if device, ok := deviceNames[name]; ok {
			return device, true
		}
	}
	return "", false
}

// readTemperatureFile reads a temperature input, converting millidegrees if necessary
func readTemperatureFile(fs afero.Fs, path string) (float64, error) {
	value, err := util.ReadIntFromFile(fs, path)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid temperature reading %d in %s", value, path)
	}
	if value > millidegrees {
		return float64(value) / millidegrees, nil
	}
	return float64(value), nil
}
