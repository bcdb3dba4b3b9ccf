package configuration

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	validators := []func(*Configuration) error{
		validateFan,
		validateLighting,
		validateThermalCurve,
		validateBattery,
		validateSensors,
		validateServers,
	}
	for _, validator := range validators {
		if err := validator(config); err != nil {
			return err
		}
	}
	return nil
}

func validateFan(config *Configuration) error {
	fan := config.Fan
	if err := validateTickRate("fan.enforcementTickRate", fan.EnforcementTickRate, 100*time.Millisecond); err != nil {
		return err
	}
	for _, method := range fan.AcpiMethods {
		if len(method) <= 0 || method[0] != '\\' {
			return fmt.Errorf("fan.acpiMethods: invalid method path '%s', must start with '\\'", method)
		}
	}
	if fan.EcProbe.CpuRegister < 0 || fan.EcProbe.CpuRegister > 0xFF || fan.EcProbe.GpuRegister < 0 || fan.EcProbe.GpuRegister > 0xFF {
		return errors.New("fan.ecProbe: registers must be in range 0..255")
	}
	if fan.StallWatchdog.Enabled {
		if fan.StallWatchdog.MinPercent < 0 || fan.StallWatchdog.MinPercent >= 100 {
			return errors.New("fan.stallWatchdog.minPercent: must be in range 0..99")
		}
		if fan.StallWatchdog.MaxStalledTicks <= 0 {
			return errors.New("fan.stallWatchdog.maxStalledTicks: must be > 0")
		}
	}
	return nil
}

func validateLighting(config *Configuration) error {
	lighting := config.Lighting
	if !lighting.Enabled {
		return nil
	}
	if len(lighting.LedPath) <= 0 {
		return errors.New("lighting.ledPath: must not be empty")
	}
	if len(lighting.VendorCliPaths) <= 0 && len(lighting.CommunityCliPaths) <= 0 {
		return errors.New("lighting: at least one of vendorCliPaths, communityCliPaths must be set")
	}
	for _, path := range append(slices.Clone(lighting.VendorCliPaths), lighting.CommunityCliPaths...) {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("lighting: cli path '%s' must be absolute", path)
		}
	}
	if lighting.InitTimeout <= 0 || lighting.ProbeJoinTimeout <= 0 {
		return errors.New("lighting: initTimeout and probeJoinTimeout must be > 0")
	}
	return nil
}

func validateThermalCurve(config *Configuration) error {
	curve := config.ThermalCurve
	if err := validateTickRate("thermalCurve.tickRate", curve.TickRate, 100*time.Millisecond); err != nil {
		return err
	}
	if len(curve.PolicyPath) <= 0 {
		return errors.New("thermalCurve.policyPath: must not be empty")
	}
	return nil
}

func validateBattery(config *Configuration) error {
	battery := config.Battery
	if !battery.Enabled {
		return nil
	}
	if len(battery.Batteries) <= 0 {
		return errors.New("battery.batteries: must contain at least one battery name")
	}
	if slices.Contains(battery.Batteries, "") {
		return errors.New("battery.batteries: battery names must not be empty")
	}
	if err := validateTickRate("battery.enforcementTickRate", battery.EnforcementTickRate, time.Second); err != nil {
		return err
	}
	if battery.Debounce < 0 {
		return errors.New("battery.debounce: must be >= 0")
	}
	if battery.VerifyTimeout <= 0 {
		return errors.New("battery.verifyTimeout: must be > 0")
	}
	return nil
}

func validateSensors(config *Configuration) error {
	sensors := config.Sensors
	if err := validateTickRate("sensors.pollingRate", sensors.PollingRate, 100*time.Millisecond); err != nil {
		return err
	}
	if sensors.RollingWindowSize <= 0 {
		return errors.New("sensors.rollingWindowSize: must be > 0")
	}
	if sensors.FallbackTemperature < 0 || sensors.FallbackTemperature > 120 {
		return errors.New("sensors.fallbackTemperature: must be in range 0..120")
	}
	return nil
}

func validateServers(config *Configuration) error {
	if config.Api.Enabled {
		if err := validatePort("api.port", config.Api.Port); err != nil {
			return err
		}
	}
	if config.Statistics.Enabled {
		if err := validatePort("statistics.port", config.Statistics.Port); err != nil {
			return err
		}
	}
	if config.Api.Enabled && config.Statistics.Enabled && config.Api.Port == config.Statistics.Port {
		return fmt.Errorf("api.port and statistics.port must differ, both are %d", config.Api.Port)
	}
	return nil
}

func validateTickRate(name string, value time.Duration, min time.Duration) error {
	if value < min {
		return fmt.Errorf("%s: must be at least %s, is %s", name, min, value)
	}
	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port >= 65535 {
		return fmt.Errorf("%s: invalid port %d", name, port)
	}
	return nil
}
