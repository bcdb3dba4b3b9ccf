package lighting

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/ron"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

// RestoreServices hands the keyboard back to asusd. The hardware is reset to static first and the
// aura config of asusd is patched to mode and color, so the restarted daemon does not fall back to
// whatever it applied last.
func (e *Engine) RestoreServices(ctx context.Context, mode Mode, color string) error {
	e.mu.Lock()
	e.stopStrobeLocked()
	modePath := filepath.Join(e.config.LedPath, kbdRgbMode)
	if util.FileExists(e.fs, modePath) {
		if err := util.WriteStringToFile(e.fs, "0", modePath); err != nil {
			ui.Debug("Unable to reset %s: %v", modePath, err)
		}
	}
	e.mu.Unlock()

	patchErr := PatchAuraConfig(e.fs, e.config.AuraConfigPath, mode, color)
	if patchErr != nil {
		ui.Warning("Unable to update %s: %v", e.config.AuraConfigPath, patchErr)
	}

	if e.services != nil {
		for _, unit := range e.config.CompetingServices {
			if err := e.services.Start(ctx, unit); err != nil {
				ui.Warning("Unable to start %s: %v", unit, err)
			}
		}
	}
	return patchErr
}

// PatchAuraConfig sets current_mode and the colour1 of that mode in an asusd aura config file.
// The file is replaced atomically.
func PatchAuraConfig(fs afero.Fs, path string, mode Mode, color string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}

	result, err := PatchAuraConfigData(data, mode, color)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(fs, path, result)
}

func PatchAuraConfigData(data []byte, mode Mode, color string) ([]byte, error) {
	target := auraModeName(mode)
	r, g, b := RGB(color)

	return ron.Patch(data, func(root *ron.Value) error {
		if err := root.SetField("current_mode", ron.Ident(target)); err != nil {
			return err
		}
		colour := root.Path("builtins", target, "colour1")
		if colour == nil {
			ui.Debug("No colour1 for mode %s in aura config, only switching the mode", target)
			return nil
		}
		components := []struct {
			name  string
			value int
		}{{"r", r}, {"g", g}, {"b", b}}
		for _, component := range components {
			if err := colour.SetField(component.name, ron.Int(component.value)); err != nil {
				return fmt.Errorf("unable to set colour1.%s: %w", component.name, err)
			}
		}
		return nil
	})
}
