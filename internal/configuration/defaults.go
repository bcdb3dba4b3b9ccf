package configuration

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultAcpiMethods are the known ASUS ACPI methods taking a fan speed argument
var DefaultAcpiMethods = []string{
	`\_SB.PCI0.LPCB.EC0.SFNV`,
	`\_SB.PCI0.SBRG.EC0.SFNV`,
	`\_SB.PCI0.LPCB.EC.SFNV`,
	`\_SB.PCI0.SBRG.EC.SFNV`,
	`\_SB.ATKD.QMOD`,
	`\_SB.PCI0.LPCB.EC0.ST98`,
	`\_SB.PCI0.SBRG.EC0.ST98`,
	`\_SB_.PCI0.LPCB.EC0.VPC0.SFNV`,
	`\_SB.AMW0.SFNV`,
	`\_SB.PCI0.SBRG.EC0.FANC`,
	`\_SB.PCI0.LPCB.EC0.FANC`,
	`\_SB.PCI0.LPCB.EC0.FANL`,
	`\_SB.PCI0.SBRG.EC0.FANL`,
	`\_SB.PCI0.LPCB.EC.FANL`,
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("dbPath", "/etc/tuf2go/tuf2go.db")

	v.SetDefault("fan.enforcementTickRate", 1500*time.Millisecond)
	v.SetDefault("fan.acpiCallPath", "/proc/acpi/call")
	v.SetDefault("fan.acpiMethods", DefaultAcpiMethods)
	v.SetDefault("fan.platformPath", "/sys/devices/platform")
	v.SetDefault("fan.hwmonPath", "/sys/class/hwmon")
	v.SetDefault("fan.ecProbe.path", "/bin/ec_probe")
	v.SetDefault("fan.ecProbe.cpuRegister", 0)
	v.SetDefault("fan.ecProbe.gpuRegister", 0)
	v.SetDefault("fan.ecProbe.timeout", 500*time.Millisecond)
	v.SetDefault("fan.stallWatchdog.enabled", true)
	v.SetDefault("fan.stallWatchdog.minPercent", 80)
	v.SetDefault("fan.stallWatchdog.maxStalledTicks", 10)

	v.SetDefault("lighting.enabled", true)
	v.SetDefault("lighting.ledPath", "/sys/class/leds/asus::kbd_backlight")
	v.SetDefault("lighting.vendorCliPaths", []string{"/usr/bin/asusctl", "/usr/local/bin/asusctl"})
	v.SetDefault("lighting.communityCliPaths", []string{"/usr/local/bin/rogauracore", "/usr/bin/rogauracore"})
	v.SetDefault("lighting.initTimeout", 5*time.Second)
	v.SetDefault("lighting.probeJoinTimeout", 500*time.Millisecond)
	v.SetDefault("lighting.competingServices", []string{"asusd.service"})
	v.SetDefault("lighting.competingProcesses", []string{"rog-control-center", "asusd"})
	v.SetDefault("lighting.auraConfigPath", "/etc/asusd/aura_tuf.ron")
	v.SetDefault("lighting.restoreOnStartup", false)

	v.SetDefault("thermalCurve.tickRate", 1*time.Second)
	v.SetDefault("thermalCurve.policyPath", "/sys/devices/platform/asus-nb-wmi/throttle_thermal_policy")

	v.SetDefault("battery.enabled", true)
	v.SetDefault("battery.powerSupplyPath", "/sys/class/power_supply")
	v.SetDefault("battery.batteries", []string{"BAT1", "BAT0"})
	v.SetDefault("battery.vendorCliPaths", []string{"/usr/bin/asusctl", "/usr/local/bin/asusctl"})
	v.SetDefault("battery.debounce", 500*time.Millisecond)
	v.SetDefault("battery.enforcementTickRate", 5*time.Second)
	v.SetDefault("battery.verifyTimeout", 1*time.Second)
	v.SetDefault("battery.limitFilePath", "/etc/asus_battery_limit.conf")
	v.SetDefault("battery.asusdConfigPath", "/etc/asusd/asusd.ron")
	v.SetDefault("battery.watchAsusdConfig", true)

	v.SetDefault("sensors.pollingRate", 1*time.Second)
	v.SetDefault("sensors.rollingWindowSize", 10)
	v.SetDefault("sensors.hwmonPath", "/sys/class/hwmon")
	v.SetDefault("sensors.thermalPath", "/sys/class/thermal")
	v.SetDefault("sensors.cpuTempInput", "")
	v.SetDefault("sensors.fallbackTemperature", 50)
	v.SetDefault("sensors.gpuTimeout", 2*time.Second)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)

	v.SetDefault("api.enabled", true)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 9001)
}

// Default returns a configuration holding only default values
func Default() Configuration {
	v := viper.New()
	setDefaultValues(v)
	var config Configuration
	_ = v.Unmarshal(&config, decodeHook())
	return config
}
