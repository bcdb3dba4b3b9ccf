package lighting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tuf2go/tuf2go/internal/util"
)

type Backend int

const (
	BackendNone Backend = iota
	// BackendNative writes the asus::kbd_backlight sysfs attributes
	BackendNative
	// BackendVendorCli runs asusctl
	BackendVendorCli
	// BackendCommunityCli runs rogauracore
	BackendCommunityCli
)

func (b Backend) String() string {
	switch b {
	case BackendNative:
		return "Native"
	case BackendVendorCli:
		return "VendorCli"
	case BackendCommunityCli:
		return "CommunityCli"
	default:
		return "None"
	}
}

type Mode string

const (
	ModeStatic    Mode = "Static"
	ModeBreathing Mode = "Breathing"
	ModeRainbow   Mode = "Rainbow"
	ModePulsing   Mode = "Pulsing"
)

var Modes = []Mode{ModeStatic, ModeBreathing, ModeRainbow, ModePulsing}

func ParseMode(name string) (Mode, error) {
	for _, mode := range Modes {
		if strings.EqualFold(string(mode), name) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown lighting mode '%s', expected one of %v", name, Modes)
}

// auraModeName is the name of a mode in the asusd aura config
func auraModeName(mode Mode) string {
	switch mode {
	case ModeBreathing:
		return "Breathe"
	case ModeRainbow:
		return "RainbowCycle"
	case ModePulsing:
		return "Pulse"
	default:
		return "Static"
	}
}

const (
	nativeModeStatic    = 0
	nativeModeBreathing = 1
	nativeModeCycle     = 2

	MinSpeed      = 1
	MaxSpeed      = 3
	MaxBrightness = 3
)

// nativeRecord is the kbd_rgb_mode record "1 <mode> <r> <g> <b> <speed>"
func nativeRecord(mode int, color string, speed int) string {
	r, g, b := RGB(color)
	return fmt.Sprintf("1 %d %d %d %d %d", mode, r, g, b, speed)
}

// nativeSpeed maps speed 1..3 to the 0..2 range of kbd_rgb_mode
func nativeSpeed(speed int) int {
	return util.Clamp(speed-1, 0, 2)
}

// speedTier maps speed 1..3 to the named asusctl speeds
func speedTier(speed int) string {
	if speed <= 1 {
		return "low"
	} else if speed == 2 {
		return "med"
	}
	return "high"
}

// brightnessTier maps brightness 0..3 to the named asusctl levels
func brightnessTier(level int) string {
	switch {
	case level <= 0:
		return "off"
	case level == 1:
		return "low"
	case level == 2:
		return "med"
	default:
		return "high"
	}
}

func communitySpeed(speed int) string {
	return strconv.Itoa(util.Clamp(speed, MinSpeed, MaxSpeed))
}

// strobeInterval is the software strobe toggle interval in milliseconds for speed 1..3
func strobeInterval(speed int) int {
	if speed == 2 {
		return 500
	} else if speed >= 3 {
		return 200
	}
	return 1000
}
