package sensors

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/util"
)

// FanRpmReader reads fan speeds, preferring the hwmon below the asus WMI platform device
// and falling back to the hwmon device named "asus".
type FanRpmReader struct {
	Fs           afero.Fs
	WmiHwmonPath string
	HwmonRoot    string
}

func (r FanRpmReader) CpuFanRpm() int {
	return r.read("fan1_input")
}

func (r FanRpmReader) GpuFanRpm() int {
	return r.read("fan2_input")
}

// read returns -1 if no hwmon provides the input
func (r FanRpmReader) read(input string) int {
	rpm := -1
	if len(r.WmiHwmonPath) > 0 {
		if value, err := util.ReadIntFromFile(r.Fs, filepath.Join(r.WmiHwmonPath, input)); err == nil {
			rpm = value
		}
	}
	if rpm <= 0 {
		if device, ok := FindHwmonByName(r.Fs, r.HwmonRoot, "asus"); ok {
			if value, err := util.ReadIntFromFile(r.Fs, filepath.Join(device, input)); err == nil && value >= 0 {
				rpm = value
			}
		}
	}
	if rpm < 0 {
		return -1
	}
	return rpm
}
