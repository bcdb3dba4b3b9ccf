package fans

import "fmt"

// Policy is the value of the asus-wmi throttle_thermal_policy attribute
type Policy int

const (
	PolicyBalanced Policy = 0
	PolicyTurbo    Policy = 1
	PolicySilent   Policy = 2
)

const (
	MaxPwmValue   = 255
	MaxSplvValue  = 10
	silentCeiling = 34
	turboFloor    = 67
)

func (p Policy) String() string {
	switch p {
	case PolicySilent:
		return "Silent"
	case PolicyBalanced:
		return "Balanced"
	case PolicyTurbo:
		return "Turbo"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Description is the human readable explanation used in status messages
func (p Policy) Description() string {
	switch p {
	case PolicySilent:
		return "Silent (Absolute Quiet)"
	case PolicyBalanced:
		return "Balanced (Starts > 60°C)"
	case PolicyTurbo:
		return "Turbo (Always Active)"
	default:
		return "Unknown Mode"
	}
}

// PolicyForPercent maps a fan speed intent to a thermal policy:
// [0,33] Silent, [34,66] Balanced, [67,100] Turbo
func PolicyForPercent(percent int) Policy {
	if percent < silentCeiling {
		return PolicySilent
	} else if percent < turboFloor {
		return PolicyBalanced
	}
	return PolicyTurbo
}

// PercentToPwm scales a percentage to the 8 bit pwm range.
// 100% is exactly 255 and any nonzero percentage yields at least 1.
func PercentToPwm(percent int) int {
	value := int((float64(percent) / 100.0) * MaxPwmValue)
	if percent >= 100 {
		value = MaxPwmValue
	}
	if percent > 0 && value == 0 {
		value = 1
	}
	return value
}

// PercentToSplv scales a percentage to the 0..10 range of the SPLV acpi method
func PercentToSplv(percent int) int {
	value := percent / 10
	if percent > 0 && value == 0 {
		value = 1
	}
	if percent >= 100 {
		value = MaxSplvValue
	}
	return value
}
