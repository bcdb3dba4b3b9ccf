package thermal

import (
	"fmt"
	"strings"
)

const (
	MinSilentThreshold   = 30
	MaxSilentThreshold   = 80
	MinBalancedThreshold = 40
	MaxBalancedThreshold = 95
	// MinThresholdGap is the smallest allowed distance between both thresholds
	MinThresholdGap = 5

	DefaultSilentThreshold   = 50
	DefaultBalancedThreshold = 70
	// FallbackTemperature is used when no temperature source can be read
	FallbackTemperature = 50.0
)

type Preset struct {
	Name              string `json:"name"`
	SilentThreshold   int    `json:"silentThreshold"`
	BalancedThreshold int    `json:"balancedThreshold"`
}

var presets = []Preset{
	{Name: "Gaming", SilentThreshold: 40, BalancedThreshold: 60},
	{Name: "Quiet", SilentThreshold: 65, BalancedThreshold: 80},
	{Name: "Balanced", SilentThreshold: 50, BalancedThreshold: 70},
	{Name: "Performance", SilentThreshold: 35, BalancedThreshold: 50},
}

// Presets returns the named threshold pairs in display order
func Presets() []Preset {
	result := make([]Preset, len(presets))
	copy(result, presets)
	return result
}

// FindPreset looks up a preset by name, ignoring case
func FindPreset(name string) (Preset, error) {
	for _, preset := range presets {
		if strings.EqualFold(preset.Name, name) {
			return preset, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}
