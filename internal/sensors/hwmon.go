package sensors

import (
	"path/filepath"

	"github.com/spf13/afero"
)

var CpuHwmonNames = []string{"coretemp", "k10temp", "zenpower", "acpitz"}

// HwmonTemperature reads temp1_input of the first hwmon device matching one of Names
type HwmonTemperature struct {
	Fs    afero.Fs
	Root  string
	Names []string
}

func (s HwmonTemperature) Temperature() (float64, error) {
	device, ok := FindHwmonByName(s.Fs, s.Root, s.Names...)
	if !ok {
		return 0, ErrNoSensor
	}
	return readTemperatureFile(s.Fs, filepath.Join(device, "temp1_input"))
}
