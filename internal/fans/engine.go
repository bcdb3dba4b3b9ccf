package fans

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/events"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

// notifySafetyTrip is replaced in tests
var notifySafetyTrip = ui.WarningAndNotify

type Mode int

const (
	ModeAuto Mode = iota
	ModeManual
)

func (m Mode) String() string {
	if m == ModeManual {
		return "Manual"
	}
	return "Auto"
}

const statusAuto = "Auto Mode (BIOS Control)"

// RpmSource provides the most recently measured cpu fan speed, negative if unknown
type RpmSource interface {
	CachedCpuRpm() int
}

type Statistics struct {
	Writes              int `json:"writes"`
	EnforcementRewrites int `json:"enforcementRewrites"`
	SafetyTrips         int `json:"safetyTrips"`
}

// Engine owns the fan control state of the machine.
// Manual speeds are re-asserted periodically until Auto mode is restored.
type Engine struct {
	config     configuration.FanConfig
	capability Capability
	rpm        RpmSource
	bus        *events.Bus
	task       *util.PeriodicTask

	mu            sync.Mutex
	hw            *hardware
	backend       backend
	mode          Mode
	targetPercent int
	status        string
	stalledTicks  int
	rewrites      int
	safetyTrips   int
}

// NewEngine detects the available fan control interfaces and selects the backend used for dispatch
func NewEngine(config configuration.FanConfig, fs afero.Fs, acpi util.AcpiCaller, runner util.Runner, rpm RpmSource, bus *events.Bus) *Engine {
	capability := Detect(fs, acpi, config)

	hw := &hardware{
		fs: fs,
		guard: util.PathGuard{AllowedPrefixes: []string{
			filepath.Join(config.PlatformPath, "asus"),
			config.HwmonPath,
		}},
		acpi:   acpi,
		runner: runner,
		ec:     config.EcProbe,
	}

	engine := &Engine{
		config:     config,
		capability: capability,
		rpm:        rpm,
		bus:        bus,
		hw:         hw,
		backend:    selectBackend(capability, hw),
		mode:       ModeAuto,
	}
	engine.status = engine.backend.Kind().ReadyStatus()
	engine.task = util.NewPeriodicTask(config.EnforcementTickRate, engine.Enforce)

	if engine.backend.Kind() == BackendNone {
		ui.Error(engine.status)
	} else {
		ui.Info("Fan control: %s", engine.status)
	}
	return engine
}

// SetFanSpeed requests a manual fan speed in percent, switching to Manual mode if necessary.
// Returns false if no backend accepted the value.
func (e *Engine) SetFanSpeed(percent int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	percent = util.Clamp(percent, 0, 100)
	e.targetPercent = percent

	if e.mode != ModeManual {
		e.mode = ModeManual
		e.task.Start()
	}

	success := e.backend.Apply(percent)
	if success {
		e.setStatus(e.backend.Status(percent))
	} else {
		e.setStatus(statusNoMethod)
	}
	e.bus.Publish(events.FanModeChangedEvent{Mode: e.mode.String(), Percent: percent})
	return success
}

// Enforce runs a single enforcement tick: re-asserts the requested speed where the
// hardware drifted and checks for stalled fans.
func (e *Engine) Enforce() {
	e.mu.Lock()
	if e.mode != ModeManual {
		e.mu.Unlock()
		return
	}

	if e.backend.Enforce(e.targetPercent) {
		e.rewrites++
		ui.Debug("Re-enforced fan speed %d%% (%s)", e.targetPercent, e.backend.Kind())
	}

	tripped, percent, ticks := e.checkStallLocked()
	e.mu.Unlock()

	if tripped {
		notifySafetyTrip("Fan Safety Watchdog", "Fans stalled at %d%% for %d ticks! Reverting to Auto.", percent, ticks)
	}
}

func (e *Engine) checkStallLocked() (tripped bool, percent int, ticks int) {
	watchdog := e.config.StallWatchdog
	if !watchdog.Enabled || e.rpm == nil {
		return false, 0, 0
	}
	if e.targetPercent <= watchdog.MinPercent || e.rpm.CachedCpuRpm() != 0 {
		e.stalledTicks = 0
		return false, 0, 0
	}

	e.stalledTicks++
	if e.stalledTicks < watchdog.MaxStalledTicks {
		return false, 0, 0
	}

	percent, ticks = e.targetPercent, e.stalledTicks
	e.stalledTicks = 0
	e.safetyTrips++
	e.enableAutoModeLocked()
	e.bus.Publish(events.SafetyTripEvent{Percent: percent, StalledTicks: ticks})
	return true, percent, ticks
}

// EnableAutoMode stops enforcement and hands fan control back to the firmware.
// The auto values are written to every detected interface, regardless of the selected backend.
func (e *Engine) EnableAutoMode() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enableAutoModeLocked()
}

func (e *Engine) enableAutoModeLocked() {
	e.task.Stop()
	e.mode = ModeAuto
	ui.Info("Reverting fans to Auto mode...")

	if e.capability.HasAcpi() {
		method := e.capability.AcpiPaths[0]
		e.hw.callAcpi(fmt.Sprintf("%s 0 0", method))
		e.hw.callAcpi(fmt.Sprintf("%s 1 0", method))
	}
	if e.capability.HasPwm() {
		e.hw.writeInt(filepath.Join(e.capability.PwmHwmonPath, pwm1Enable), pwmEnableAuto)
		e.hw.writeInt(filepath.Join(e.capability.PwmHwmonPath, pwm2Enable), pwmEnableAuto)
	}
	if e.capability.HasThermalPolicy() {
		e.hw.writeInt(e.capability.ThermalPolicyPath, int(PolicyBalanced))
	}

	e.setStatus(statusAuto)
	e.bus.Publish(events.FanModeChangedEvent{Mode: e.mode.String(), Percent: e.targetPercent})
}

// Close reverts to Auto mode
func (e *Engine) Close() {
	e.EnableAutoMode()
}

func (e *Engine) setStatus(status string) {
	if e.status == status {
		return
	}
	e.status = status
	e.bus.Publish(events.FanStatusChangedEvent{Status: status})
}

func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *Engine) TargetPercent() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetPercent
}

// ActivePolicy reads the thermal policy currently set in the kernel
func (e *Engine) ActivePolicy() (Policy, bool) {
	if !e.capability.HasThermalPolicy() {
		return PolicyBalanced, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	value, ok := e.hw.readInt(e.capability.ThermalPolicyPath)
	return Policy(value), ok
}

func (e *Engine) Status() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Engine) Capability() Capability {
	return e.capability
}

func (e *Engine) Backend() BackendKind {
	return e.backend.Kind()
}

func (e *Engine) StalledTicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stalledTicks
}

func (e *Engine) IsEnforcing() bool {
	return e.task.IsRunning()
}

func (e *Engine) Statistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Statistics{
		Writes:              e.hw.writes,
		EnforcementRewrites: e.rewrites,
		SafetyTrips:         e.safetyTrips,
	}
}
