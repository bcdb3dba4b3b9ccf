package sensors

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/util"
)

// GpuTemperature reads the gpu hwmon device and falls back to nvidia-smi
type GpuTemperature struct {
	Fs        afero.Fs
	HwmonRoot string
	Runner    util.Runner
	Timeout   time.Duration
}

func (s GpuTemperature) Temperature() (float64, error) {
	if device, ok := s.findGpuHwmon(); ok {
		for _, input := range []string{"temp1_input", "temp"} {
			value, err := readTemperatureFile(s.Fs, filepath.Join(device, input))
			if err == nil {
				return value, nil
			}
		}
	}

	if s.Runner == nil {
		return 0, ErrNoSensor
	}
	out, err := s.Runner.Run(context.Background(), s.Timeout, "nvidia-smi", "--query-gpu=temperature.gpu", "--format=csv,noheader,nounits")
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, err
	}
	return float64(value), nil
}

func (s GpuTemperature) findGpuHwmon() (string, bool) {
	if device, ok := FindHwmonByName(s.Fs, s.HwmonRoot, "amdgpu"); ok {
		return device, true
	}
	for _, device := range util.GlobDirs(s.Fs, filepath.Join(s.HwmonRoot, "hwmon*")) {
		name, _ := util.ReadStringFromFile(s.Fs, filepath.Join(device, "name"))
		if strings.Contains(name, "nvidia") {
			return device, true
		}
	}
	return "", false
}
