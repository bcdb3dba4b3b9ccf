package lighting

import (
	"context"
	"path/filepath"

	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	kbdRgbMode       = "kbd_rgb_mode"
	kbdRgbState      = "kbd_rgb_state"
	brightnessFile   = "brightness"
	maxBrightness    = "max_brightness"
	nativeWakeRecord = "1 1 1 0 1"
)

// detection is the result of a probe, handed from the probe goroutine to the owner of the engine
type detection struct {
	backend Backend
	cliPath string
}

// Detect starts probing for a lighting backend in the background. The result is applied by Run
// or DrainDetection. Calling Detect while a probe is running has no effect.
func (e *Engine) Detect() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.probing {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.probing = true
	e.cancelProbe = cancel
	e.probeDone = make(chan struct{})

	ui.Debug("Starting lighting detection...")
	go e.probe(ctx, e.probeDone)
}

func (e *Engine) probe(ctx context.Context, done chan struct{}) {
	defer close(done)

	e.stopCompetitors(ctx)
	result := e.probeBackends(ctx)

	select {
	case e.results <- result:
	case <-ctx.Done():
	}
}

func (e *Engine) stopCompetitors(ctx context.Context) {
	for _, unit := range e.config.CompetingServices {
		if e.services == nil {
			break
		}
		stopCtx, cancel := context.WithTimeout(ctx, e.config.InitTimeout)
		if err := e.services.Stop(stopCtx, unit); err != nil {
			ui.Debug("Unable to stop %s: %v", unit, err)
		} else {
			ui.Info("Stopped competing service %s", unit)
		}
		cancel()
	}
	for _, name := range e.config.CompetingProcesses {
		if e.killer == nil {
			break
		}
		if _, err := e.killer.KillByName(ctx, name); err != nil {
			ui.Debug("Unable to kill %s: %v", name, err)
		}
	}
}

// probeBackends tries the native interface, the vendor cli and the community cli, in that order
func (e *Engine) probeBackends(ctx context.Context) detection {
	if util.FileExists(e.fs, filepath.Join(e.config.LedPath, kbdRgbMode)) {
		statePath := filepath.Join(e.config.LedPath, kbdRgbState)
		if err := util.WriteStringToFile(e.fs, nativeWakeRecord, statePath); err != nil {
			ui.Debug("Unable to wake keyboard via %s: %v", statePath, err)
		}
		return detection{backend: BackendNative}
	}

	if path, ok := util.FirstSafeExecutable(e.fs, e.config.VendorCliPaths...); ok {
		return detection{backend: BackendVendorCli, cliPath: path}
	}

	if path, ok := util.FirstSafeExecutable(e.fs, e.config.CommunityCliPaths...); ok {
		// the keyboard init talks to the device over USB HID and may block for a while
		if _, err := e.runner.Run(ctx, e.config.InitTimeout, path, "initialize_keyboard"); err != nil {
			// the binary being present is treated as available anyway
			ui.Warning("%s initialize_keyboard failed: %v", path, err)
		}
		return detection{backend: BackendCommunityCli, cliPath: path}
	}

	return detection{backend: BackendNone}
}
