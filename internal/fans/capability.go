package fans

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	thermalPolicyFile = "throttle_thermal_policy"
	pwm1              = "pwm1"
	pwm2              = "pwm2"
	pwm1Enable        = "pwm1_enable"
	pwm2Enable        = "pwm2_enable"

	pwmEnableManual = 1
	pwmEnableAuto   = 2
)

// Capability is the set of fan control interfaces found on this machine.
// More than one interface may be present, it is not modified after Detect.
type Capability struct {
	AcpiCallAvailable bool `json:"acpiCallAvailable"`
	// AcpiPaths are the acpi methods that answered the probe, the first one is used for control
	AcpiPaths []string `json:"acpiPaths"`

	ThermalPolicyPath string `json:"thermalPolicyPath"`
	// WmiHwmonPath is the hwmon directory of the asus wmi platform device, if any
	WmiHwmonPath string `json:"wmiHwmonPath"`
	// PwmHwmonPath is set when WmiHwmonPath exposes pwm1
	PwmHwmonPath string `json:"pwmHwmonPath"`
	EcProbePath  string `json:"ecProbePath"`
}

func (c Capability) HasAcpi() bool {
	return c.AcpiCallAvailable && len(c.AcpiPaths) > 0
}

func (c Capability) HasThermalPolicy() bool {
	return len(c.ThermalPolicyPath) > 0
}

func (c Capability) HasPwm() bool {
	return len(c.PwmHwmonPath) > 0
}

func (c Capability) HasEcProbe() bool {
	return len(c.EcProbePath) > 0
}

func (c Capability) IsEmpty() bool {
	return !c.HasAcpi() && !c.HasThermalPolicy() && !c.HasPwm() && !c.HasEcProbe()
}

// Detect probes acpi_call methods, the asus wmi platform device and the ec_probe tool
func Detect(fs afero.Fs, acpi util.AcpiCaller, config configuration.FanConfig) Capability {
	capability := Capability{}

	if acpi != nil && acpi.Available() {
		capability.AcpiCallAvailable = true
		capability.AcpiPaths = detectAcpiMethods(acpi, config.AcpiMethods)
	} else {
		ui.Warning("acpi_call module not found, install acpi-call-dkms and run 'modprobe acpi_call'")
	}

	detectWmi(fs, config.PlatformPath, &capability)

	if path, ok := util.FirstSafeExecutable(fs, config.EcProbe.Path); ok {
		ui.Info("Found ec_probe at: %s", path)
		capability.EcProbePath = path
	}

	return capability
}

func detectAcpiMethods(acpi util.AcpiCaller, methods []string) []string {
	var result []string
	for _, method := range methods {
		response := acpi.Call(probeCommand(method))
		if util.AcpiResponseOk(response) {
			ui.Info("Found ACPI method: %s", method)
			result = append(result, method)
		} else {
			ui.Debug("ACPI method %s did not answer: %s", method, response)
		}
	}
	if len(result) > 0 {
		ui.Info("Using primary ACPI method: %s", result[0])
	} else {
		ui.Warning("No working ACPI fan method found")
	}
	return result
}

// probeCommand returns a harmless acpi_call command line used to test whether a method exists
func probeCommand(method string) string {
	switch {
	case strings.Contains(method, "SPLV"):
		return method + " 0xA"
	case strings.Contains(method, "FANL"):
		return method + " 50"
	case strings.Contains(method, "SFNV"), strings.Contains(method, "FANC"), strings.Contains(method, "ST98"):
		return method + " 0 0"
	default:
		return method
	}
}

func detectWmi(fs afero.Fs, platformPath string, capability *Capability) {
	devices := util.GlobDirs(fs, filepath.Join(platformPath, "asus*"))
	for _, device := range devices {
		policyPath := filepath.Join(device, thermalPolicyFile)
		if len(capability.ThermalPolicyPath) <= 0 && util.FileExists(fs, policyPath) {
			ui.Info("Found thermal policy at: %s", policyPath)
			capability.ThermalPolicyPath = policyPath
		}

		hwmons := util.GlobDirs(fs, filepath.Join(device, "hwmon", "hwmon*"))
		if len(hwmons) <= 0 {
			continue
		}
		if len(capability.WmiHwmonPath) <= 0 {
			capability.WmiHwmonPath = hwmons[0]
		}
		if util.FileExists(fs, filepath.Join(hwmons[0], pwm1)) {
			ui.Info("Found WMI PWM control at: %s", hwmons[0])
			capability.WmiHwmonPath = hwmons[0]
			capability.PwmHwmonPath = hwmons[0]
			return
		}
	}
}
