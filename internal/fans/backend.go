package fans

import (
	"fmt"
	"path/filepath"
	"strings"
)

type BackendKind int

const (
	BackendNone BackendKind = iota
	BackendThermalPolicy
	BackendPwm
	BackendAcpi
	BackendEcProbe
)

func (k BackendKind) String() string {
	switch k {
	case BackendThermalPolicy:
		return "ThermalPolicy"
	case BackendPwm:
		return "Pwm"
	case BackendAcpi:
		return "Acpi"
	case BackendEcProbe:
		return "EcProbe"
	default:
		return "None"
	}
}

// ReadyStatus is the status message reported after detection selected this backend
func (k BackendKind) ReadyStatus() string {
	switch k {
	case BackendThermalPolicy:
		return "Ready - Using Thermal Policy"
	case BackendPwm:
		return "Ready - Using WMI PWM Control"
	case BackendAcpi:
		return "Ready - Using Direct ACPI Control"
	case BackendEcProbe:
		return "Ready - Using Direct EC Injection (Driverless)"
	default:
		return "Error: No fan control methods found. Run with sudo?"
	}
}

const statusNoMethod = "Error: No fan control method available."

// backend translates a fan speed percentage to one hardware interface
type backend interface {
	Kind() BackendKind
	// Apply writes percent, returns false if the hardware did not accept it
	Apply(percent int) bool
	// Enforce re-asserts percent if the hardware drifted away from it, returns true if something was rewritten
	Enforce(percent int) bool
	Status(percent int) string
}

// selectBackend picks the first available backend in preference order
func selectBackend(capability Capability, hw *hardware) backend {
	switch {
	case capability.HasThermalPolicy():
		return &policyBackend{hw: hw, path: capability.ThermalPolicyPath}
	case capability.HasPwm():
		return &pwmBackend{hw: hw, path: capability.PwmHwmonPath}
	case capability.HasAcpi():
		return &acpiBackend{hw: hw, method: capability.AcpiPaths[0]}
	case capability.HasEcProbe() && (hw.ec.CpuRegister > 0 || hw.ec.GpuRegister > 0):
		return &ecBackend{hw: hw}
	default:
		return noneBackend{}
	}
}

type policyBackend struct {
	hw   *hardware
	path string
}

func (b *policyBackend) Kind() BackendKind { return BackendThermalPolicy }

func (b *policyBackend) Apply(percent int) bool {
	target := PolicyForPercent(percent)
	current, ok := b.hw.readInt(b.path)
	if ok && Policy(current) == target {
		return true
	}
	return b.hw.writeInt(b.path, int(target))
}

func (b *policyBackend) Enforce(percent int) bool {
	target := PolicyForPercent(percent)
	current, ok := b.hw.readInt(b.path)
	if ok && Policy(current) == target {
		return false
	}
	return b.hw.writeInt(b.path, int(target))
}

func (b *policyBackend) Status(percent int) string {
	return "Mode: " + PolicyForPercent(percent).Description()
}

type pwmBackend struct {
	hw   *hardware
	path string
}

func (b *pwmBackend) Kind() BackendKind { return BackendPwm }

func (b *pwmBackend) Apply(percent int) bool {
	value := PercentToPwm(percent)
	b.hw.writeInt(filepath.Join(b.path, pwm1Enable), pwmEnableManual)
	b.hw.writeInt(filepath.Join(b.path, pwm2Enable), pwmEnableManual)
	cpu := b.hw.writeInt(filepath.Join(b.path, pwm1), value)
	gpu := b.hw.writeInt(filepath.Join(b.path, pwm2), value)
	return cpu || gpu
}

func (b *pwmBackend) Enforce(percent int) bool {
	enable, enableOk := b.hw.readInt(filepath.Join(b.path, pwm1Enable))
	pwm, pwmOk := b.hw.readInt(filepath.Join(b.path, pwm1))
	if enableOk && pwmOk && enable == pwmEnableManual && pwm == PercentToPwm(percent) {
		return false
	}
	return b.Apply(percent)
}

func (b *pwmBackend) Status(percent int) string {
	return fmt.Sprintf("Manual (WMI): %d%%", percent)
}

type acpiBackend struct {
	hw     *hardware
	method string
}

func (b *acpiBackend) Kind() BackendKind { return BackendAcpi }

func (b *acpiBackend) Apply(percent int) bool {
	switch {
	case strings.Contains(b.method, "SPLV"):
		return b.hw.callAcpi(fmt.Sprintf("%s %d", b.method, PercentToSplv(percent)))
	case strings.Contains(b.method, "FANL"):
		return b.hw.callAcpi(fmt.Sprintf("%s %d", b.method, PercentToPwm(percent)))
	default:
		value := PercentToPwm(percent)
		cpu := b.hw.callAcpi(fmt.Sprintf("%s 0 %d", b.method, value))
		// not every model has a separately controllable gpu fan
		b.hw.callAcpi(fmt.Sprintf("%s 1 %d", b.method, value))
		return cpu
	}
}

// Enforce is a no-op, acpi methods cannot be read back
func (b *acpiBackend) Enforce(percent int) bool {
	return false
}

func (b *acpiBackend) Status(percent int) string {
	return fmt.Sprintf("Manual (ACPI): %d%%", percent)
}

type ecBackend struct {
	hw *hardware
}

func (b *ecBackend) Kind() BackendKind { return BackendEcProbe }

func (b *ecBackend) Apply(percent int) bool {
	value := PercentToPwm(percent)
	cpu, gpu := false, false
	if b.hw.ec.CpuRegister > 0 {
		cpu = b.hw.writeEcRegister(b.hw.ec.CpuRegister, value)
	}
	if b.hw.ec.GpuRegister > 0 {
		gpu = b.hw.writeEcRegister(b.hw.ec.GpuRegister, value)
	}
	return cpu || gpu
}

func (b *ecBackend) Enforce(percent int) bool {
	return false
}

func (b *ecBackend) Status(percent int) string {
	return fmt.Sprintf("Manual (EC): %d%%", percent)
}

type noneBackend struct{}

func (noneBackend) Kind() BackendKind      { return BackendNone }
func (noneBackend) Apply(percent int) bool { return false }
func (noneBackend) Enforce(int) bool       { return false }
func (noneBackend) Status(int) string      { return statusNoMethod }
