package thermal

import (
	"errors"
	"sync"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/events"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/persistence"
	"github.com/tuf2go/tuf2go/internal/sensors"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	keyEnabled           = "autoCurveEnabled"
	keySilentThreshold   = "silentThreshold"
	keyBalancedThreshold = "balancedThreshold"

	ModeManual = "Manual"
	ModeAuto   = "Auto"

	noPolicy = -1
)

// Config is the user facing state of the curve
type Config struct {
	Enabled           bool `json:"enabled"`
	SilentThreshold   int  `json:"silentThreshold"`
	BalancedThreshold int  `json:"balancedThreshold"`
	LastPolicy        int  `json:"lastPolicy"`
}

// Engine derives the thermal policy from the cpu temperature while enabled.
type Engine struct {
	config configuration.ThermalCurveConfig
	fs     afero.Fs
	temps  sensors.TemperatureSource
	store  persistence.SettingsStore
	bus    *events.Bus
	task   *util.PeriodicTask

	mu          sync.Mutex
	available   bool
	enabled     bool
	silent      int
	balanced    int
	lastPolicy  int
	temperature float64
	writes      int
}

func NewEngine(config configuration.ThermalCurveConfig, fs afero.Fs, temps sensors.TemperatureSource, store persistence.SettingsStore, bus *events.Bus) *Engine {
	e := &Engine{
		config:      config,
		fs:          fs,
		temps:       temps,
		store:       store,
		bus:         bus,
		available:   util.FileExists(fs, config.PolicyPath),
		silent:      DefaultSilentThreshold,
		balanced:    DefaultBalancedThreshold,
		lastPolicy:  noPolicy,
		temperature: FallbackTemperature,
	}
	e.task = util.NewPeriodicTask(config.TickRate, e.Evaluate)

	if !e.available {
		ui.Warning("Thermal policy path not found: %s", config.PolicyPath)
	}

	e.loadSettings()
	if e.enabled {
		e.task.Start()
	}
	return e
}

func (e *Engine) loadSettings() {
	if e.store == nil {
		return
	}
	var enabled bool
	if err := e.store.LoadSetting(persistence.NamespaceThermalCurve, keyEnabled, &enabled); err == nil {
		e.enabled = enabled
	}
	var silent, balanced int
	if err := e.store.LoadSetting(persistence.NamespaceThermalCurve, keySilentThreshold, &silent); err == nil {
		e.silent = silent
	}
	if err := e.store.LoadSetting(persistence.NamespaceThermalCurve, keyBalancedThreshold, &balanced); err == nil {
		e.balanced = balanced
	}

	// stored values may predate the current limits
	e.silent = util.Clamp(e.silent, MinSilentThreshold, MaxSilentThreshold)
	e.balanced = util.Clamp(e.balanced, MinBalancedThreshold, MaxBalancedThreshold)
	if e.silent+MinThresholdGap > e.balanced {
		e.balanced = e.silent + MinThresholdGap
	}
}

func (e *Engine) saveSettingsLocked() {
	if e.store == nil {
		return
	}
	err := errors.Join(
		e.store.SaveSetting(persistence.NamespaceThermalCurve, keyEnabled, e.enabled),
		e.store.SaveSetting(persistence.NamespaceThermalCurve, keySilentThreshold, e.silent),
		e.store.SaveSetting(persistence.NamespaceThermalCurve, keyBalancedThreshold, e.balanced),
	)
	if err != nil {
		ui.Warning("Unable to save thermal curve settings: %v", err)
	}
}

// SetEnabled starts or stops the curve. Enabling evaluates immediately and always writes the first policy.
func (e *Engine) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enabled == enabled {
		return
	}
	e.enabled = enabled
	e.saveSettingsLocked()

	if enabled {
		e.lastPolicy = noPolicy
		e.task.Start()
		e.evaluateLocked()
		ui.Info("Thermal curve enabled (silent <= %d°C, balanced <= %d°C)", e.silent, e.balanced)
	} else {
		e.task.Stop()
		ui.Info("Thermal curve disabled")
	}
}

// SetSilentThreshold clamps to [30,80] and raises the balanced threshold if the gap got too small
func (e *Engine) SetSilentThreshold(celsius int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	silent := util.Clamp(celsius, MinSilentThreshold, MaxSilentThreshold)
	balanced := e.balanced
	if silent+MinThresholdGap > balanced {
		balanced = silent + MinThresholdGap
	}
	e.setThresholdsLocked(silent, balanced)
}

// SetBalancedThreshold clamps to [40,95] and lowers the silent threshold if the gap got too small
func (e *Engine) SetBalancedThreshold(celsius int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	balanced := util.Clamp(celsius, MinBalancedThreshold, MaxBalancedThreshold)
	silent := e.silent
	if silent+MinThresholdGap > balanced {
		silent = balanced - MinThresholdGap
	}
	e.setThresholdsLocked(silent, balanced)
}

// ApplyPreset sets both thresholds of the named preset at once
func (e *Engine) ApplyPreset(name string) error {
	preset, err := FindPreset(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.setThresholdsLocked(preset.SilentThreshold, preset.BalancedThreshold)
	ui.Info("Applied thermal curve preset %s", preset.Name)
	return nil
}

func (e *Engine) setThresholdsLocked(silent int, balanced int) {
	if silent == e.silent && balanced == e.balanced {
		return
	}
	e.silent = silent
	e.balanced = balanced
	e.saveSettingsLocked()

	if e.enabled {
		e.evaluateLocked()
	}
}

// Evaluate runs a single tick of the curve
func (e *Engine) Evaluate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evaluateLocked()
}

func (e *Engine) evaluateLocked() {
	if !e.enabled {
		return
	}

	e.temperature = e.readTemperature()
	policy := Classify(e.temperature, e.silent, e.balanced)
	if int(policy) == e.lastPolicy {
		return
	}
	if !e.available {
		ui.Debug("Thermal curve wants %s at %.1f°C but no policy path is available", policy, e.temperature)
		return
	}

	if err := util.WriteIntToFile(e.fs, int(policy), e.config.PolicyPath); err != nil {
		ui.Debug("Unable to write thermal policy %d: %v", policy, err)
		return
	}
	e.writes++
	e.lastPolicy = int(policy)
	ui.Debug("Thermal curve: %.1f°C -> %s", e.temperature, policy)
	e.bus.Publish(events.ThermalPolicyChangedEvent{Temperature: e.temperature, Policy: int(policy)})
}

func (e *Engine) readTemperature() float64 {
	if e.temps == nil {
		return FallbackTemperature
	}
	temp, err := e.temps.Temperature()
	if err != nil || temp <= 0 {
		return FallbackTemperature
	}
	if temp > 1000 {
		temp /= 1000
	}
	return temp
}

// Classify maps a temperature onto a policy:
// temp <= silent is Silent, temp <= balanced is Balanced, anything above is Turbo
func Classify(temperature float64, silent int, balanced int) fans.Policy {
	switch {
	case temperature <= float64(silent):
		return fans.PolicySilent
	case temperature <= float64(balanced):
		return fans.PolicyBalanced
	default:
		return fans.PolicyTurbo
	}
}

func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Config{
		Enabled:           e.enabled,
		SilentThreshold:   e.silent,
		BalancedThreshold: e.balanced,
		LastPolicy:        e.lastPolicy,
	}
}

// CurrentMode is Manual while disabled, otherwise the name of the last applied policy
func (e *Engine) CurrentMode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return ModeManual
	}
	if e.lastPolicy == noPolicy {
		return ModeAuto
	}
	return fans.Policy(e.lastPolicy).String()
}

func (e *Engine) CurrentTemperature() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.temperature
}

func (e *Engine) IsEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

func (e *Engine) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Writes returns the number of policy writes performed so far
func (e *Engine) Writes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writes
}

func (e *Engine) Presets() []Preset {
	return Presets()
}

// Close stops the evaluation loop, the last written policy stays in place
func (e *Engine) Close() {
	e.task.Stop()
}
