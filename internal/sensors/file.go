package sensors

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// FileTemperature reads the first readable of a list of temperature input files
type FileTemperature struct {
	Fs    afero.Fs
	Paths []string
}

// DefaultCpuTemperatureFiles are tried when no hwmon device with a known cpu name exists
func DefaultCpuTemperatureFiles(thermalRoot string, hwmonRoot string) []string {
	return []string{
		filepath.Join(thermalRoot, "thermal_zone0", "temp"),
		filepath.Join(hwmonRoot, "hwmon0", "temp1_input"),
		filepath.Join(hwmonRoot, "hwmon1", "temp1_input"),
		filepath.Join(hwmonRoot, "hwmon2", "temp1_input"),
	}
}

func (s FileTemperature) Temperature() (float64, error) {
	for _, path := range s.Paths {
		value, err := readTemperatureFile(s.Fs, path)
		if err == nil {
			return value, nil
		}
	}
	return 0, ErrNoSensor
}
