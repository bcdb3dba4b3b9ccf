package lighting

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/events"
	"github.com/tuf2go/tuf2go/internal/persistence"
	"github.com/tuf2go/tuf2go/internal/services"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	settingMode  = "auraMode"
	settingColor = "auraColor"
)

// State is a lighting effect as requested by the user
type State struct {
	Mode  Mode   `json:"mode"`
	Color string `json:"color"`
	Speed int    `json:"speed"`
}

var defaultState = State{Mode: ModeStatic, Color: "FF0000", Speed: MinSpeed}

// Engine controls the keyboard lighting through exactly one backend, chosen by an asynchronous probe.
// All state is owned by the engine, the probe goroutine only reports its result over a channel.
type Engine struct {
	config   configuration.LightingConfig
	fs       afero.Fs
	runner   util.Runner
	services services.ServiceManager
	killer   services.ProcessKiller
	store    persistence.SettingsStore
	bus      *events.Bus

	results chan detection
	strobe  *util.PeriodicTask

	mu          sync.Mutex
	probing     bool
	cancelProbe context.CancelFunc
	probeDone   chan struct{}

	detected  bool
	backend   Backend
	cliPath   string
	state     State
	lastState State

	strobing    bool
	strobeOn    bool
	strobeColor string
	strobeSpeed int
}

func NewEngine(config configuration.LightingConfig, fs afero.Fs, runner util.Runner, serviceManager services.ServiceManager, killer services.ProcessKiller, store persistence.SettingsStore, bus *events.Bus) *Engine {
	engine := &Engine{
		config:    config,
		fs:        fs,
		runner:    runner,
		services:  serviceManager,
		killer:    killer,
		store:     store,
		bus:       bus,
		results:   make(chan detection, 1),
		lastState: defaultState,
	}
	engine.strobe = util.NewPeriodicTask(time.Second, engine.strobeTick)
	return engine
}

// Run applies the detection result once it arrives and then waits until ctx is done
func (e *Engine) Run(ctx context.Context) error {
	select {
	case result := <-e.results:
		e.applyDetection(result)
	case <-ctx.Done():
		return nil
	}
	<-ctx.Done()
	return nil
}

// DrainDetection waits up to timeout for a pending detection result and applies it.
// Returns true if a result was applied.
func (e *Engine) DrainDetection(timeout time.Duration) bool {
	select {
	case result := <-e.results:
		e.applyDetection(result)
		return true
	case <-time.After(timeout):
		return false
	}
}

func (e *Engine) applyDetection(result detection) {
	e.mu.Lock()
	e.probing = false
	e.detected = true
	e.backend = result.backend
	e.cliPath = result.cliPath
	e.lastState = e.loadState()
	available := e.backend != BackendNone
	restore := available && e.config.RestoreOnStartup
	lastState := e.lastState
	e.mu.Unlock()

	if available {
		ui.Info("Lighting control available via %s %s", result.backend, result.cliPath)
	} else {
		ui.Warning("No lighting control method found")
	}
	e.bus.Publish(events.LightingAvailabilityChangedEvent{Available: available, Backend: result.backend.String()})

	if restore {
		e.Apply(lastState)
	}
}

func (e *Engine) loadState() State {
	state := defaultState
	if e.store == nil {
		return state
	}
	var mode string
	if err := e.store.LoadSetting(persistence.NamespaceLighting, settingMode, &mode); err == nil {
		if parsed, err := ParseMode(mode); err == nil {
			state.Mode = parsed
		}
	}
	var color string
	if err := e.store.LoadSetting(persistence.NamespaceLighting, settingColor, &color); err == nil {
		state.Color = color
	}
	return state
}

func (e *Engine) saveState(state State) {
	e.lastState = State{Mode: state.Mode, Color: state.Color, Speed: state.Speed}
	if e.store == nil {
		return
	}
	if err := e.store.SaveSetting(persistence.NamespaceLighting, settingMode, string(state.Mode)); err != nil {
		ui.Warning("Unable to save lighting mode: %v", err)
	}
	if err := e.store.SaveSetting(persistence.NamespaceLighting, settingColor, state.Color); err != nil {
		ui.Warning("Unable to save lighting color: %v", err)
	}
}

// Apply applies a complete state
func (e *Engine) Apply(state State) bool {
	switch state.Mode {
	case ModeBreathing:
		return e.SetBreathing(state.Color, state.Speed)
	case ModeRainbow:
		return e.SetRainbow(state.Speed)
	case ModePulsing:
		return e.SetPulsing(state.Color, state.Speed)
	default:
		return e.SetStatic(state.Color)
	}
}

func (e *Engine) SetStatic(color string) bool {
	color = FormatColor(color)
	return e.apply(State{Mode: ModeStatic, Color: color}, func() bool {
		switch e.backend {
		case BackendNative:
			return e.writeNative(nativeRecord(nativeModeStatic, color, 0))
		case BackendVendorCli:
			return e.startCli("aura", "static", "-c", color)
		default:
			return e.startCli("single_static", color)
		}
	})
}

func (e *Engine) SetBreathing(color string, speed int) bool {
	color = FormatColor(color)
	speed = util.Clamp(speed, MinSpeed, MaxSpeed)
	return e.apply(State{Mode: ModeBreathing, Color: color, Speed: speed}, func() bool {
		switch e.backend {
		case BackendNative:
			return e.writeNative(nativeRecord(nativeModeBreathing, color, nativeSpeed(speed)))
		case BackendVendorCli:
			return e.startCli("aura", "breathe", "-c", color, "-s", speedTier(speed))
		default:
			// rogauracore only knows breathing between two colors
			return e.startCli("single_breathing", color, ColorOff, communitySpeed(speed))
		}
	})
}

func (e *Engine) SetRainbow(speed int) bool {
	speed = util.Clamp(speed, MinSpeed, MaxSpeed)
	return e.apply(State{Mode: ModeRainbow, Color: ColorWhite, Speed: speed}, func() bool {
		switch e.backend {
		case BackendNative:
			return e.writeNative(nativeRecord(nativeModeCycle, ColorWhite, nativeSpeed(speed)))
		case BackendVendorCli:
			return e.startCli("aura", "rainbow-cycle", "-s", speedTier(speed))
		default:
			return e.startCli("rainbow_cycle", communitySpeed(speed))
		}
	})
}

// SetPulsing uses the asusctl pulse effect, other backends get a software strobe
// toggling between color and black.
func (e *Engine) SetPulsing(color string, speed int) bool {
	color = FormatColor(color)
	speed = util.Clamp(speed, MinSpeed, MaxSpeed)
	return e.apply(State{Mode: ModePulsing, Color: color, Speed: speed}, func() bool {
		if e.backend == BackendVendorCli {
			return e.startCli("aura", "pulse", "-c", color, "-s", speedTier(speed))
		}
		e.strobing = true
		e.strobeOn = true
		e.strobeColor = color
		e.strobeSpeed = speed
		if !e.writeStrobeFrame(color) {
			e.strobing = false
			return false
		}
		e.strobe.SetInterval(time.Duration(strobeInterval(speed)) * time.Millisecond)
		e.strobe.Start()
		return true
	})
}

// apply runs dispatch with the strobe stopped and records the state on success
func (e *Engine) apply(state State, dispatch func() bool) bool {
	e.mu.Lock()
	if e.backend == BackendNone {
		e.mu.Unlock()
		ui.Debug("Lighting not available, ignoring %s", state.Mode)
		return false
	}
	e.stopStrobeLocked()

	success := dispatch()
	if success {
		e.state = state
		e.saveState(state)
	}
	e.mu.Unlock()

	if success {
		e.bus.Publish(events.LightingStateChangedEvent{Mode: string(state.Mode), Color: state.Color, Speed: state.Speed})
	}
	return success
}

func (e *Engine) strobeTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.strobing {
		return
	}
	e.strobeOn = !e.strobeOn
	if e.strobeOn {
		e.writeStrobeFrame(e.strobeColor)
	} else {
		e.writeStrobeFrame(ColorOff)
	}
}

func (e *Engine) writeStrobeFrame(color string) bool {
	if e.backend == BackendNative {
		return e.writeNative(nativeRecord(nativeModeStatic, color, 0))
	}
	return e.startCli("single_breathing", color, ColorOff, communitySpeed(e.strobeSpeed))
}

func (e *Engine) stopStrobeLocked() {
	e.strobing = false
	e.strobe.Stop()
}

// StopStrobe stops a running software strobe
func (e *Engine) StopStrobe() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopStrobeLocked()
}

// SetBrightness sets the keyboard backlight level 0..3
func (e *Engine) SetBrightness(level int) bool {
	level = util.Clamp(level, 0, MaxBrightness)

	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.backend {
	case BackendNative:
		path := filepath.Join(e.config.LedPath, brightnessFile)
		if err := util.WriteStringToFile(e.fs, strconv.Itoa(level), path); err != nil {
			ui.Debug("Unable to write %s: %v", path, err)
			return false
		}
		return true
	case BackendVendorCli:
		return e.startCli("-k", brightnessTier(level))
	case BackendCommunityCli:
		return e.startCli("brightness", strconv.Itoa(level))
	default:
		return false
	}
}

// Brightness reads the current backlight level scaled to 0..3, -1 if unknown
func (e *Engine) Brightness() int {
	value, err := util.ReadIntFromFile(e.fs, filepath.Join(e.config.LedPath, brightnessFile))
	if err != nil {
		return -1
	}
	max, err := util.ReadIntFromFile(e.fs, filepath.Join(e.config.LedPath, maxBrightness))
	if err == nil && max > MaxBrightness {
		return (value * MaxBrightness) / max
	}
	return value
}

func (e *Engine) writeNative(record string) bool {
	path := filepath.Join(e.config.LedPath, kbdRgbMode)
	if err := util.WriteStringToFile(e.fs, record, path); err != nil {
		ui.Debug("Unable to write '%s' to %s: %v", record, path, err)
		return false
	}
	return true
}

// startCli runs the selected cli detached, the effect is applied in the background
func (e *Engine) startCli(args ...string) bool {
	if len(e.cliPath) <= 0 {
		return false
	}
	if err := e.runner.Start(e.cliPath, args...); err != nil {
		ui.Debug("Unable to start %s: %v", e.cliPath, err)
		return false
	}
	return true
}

func (e *Engine) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backend != BackendNone
}

// IsDetected is true once a detection result was applied
func (e *Engine) IsDetected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detected
}

func (e *Engine) Backend() Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backend
}

// State is the effect applied last during this run
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastState is the persisted effect, available after detection
func (e *Engine) LastState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastState
}

func (e *Engine) IsStrobing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strobing
}

func (e *Engine) StrobeInterval() time.Duration {
	return e.strobe.Interval()
}

// Close stops the strobe and gives a running probe a bounded time to finish.
// A probe that does not finish in time is abandoned.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopStrobeLocked()
	done := e.probeDone
	probing := e.probing
	if e.cancelProbe != nil {
		e.cancelProbe()
	}
	e.mu.Unlock()

	if !probing || done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(e.config.ProbeJoinTimeout):
		ui.Warning("Lighting detection did not finish within %s, abandoning it", e.config.ProbeJoinTimeout)
	}
}
