package battery

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/ron"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const asusdThresholdField = "charge_control_end_threshold"

var ErrNoThresholdField = errors.New("no " + asusdThresholdField + " field")

// PatchAsusdConfig sets charge_control_end_threshold in the asusd config file.
// The file is replaced atomically, nothing is written if the field does not exist.
func PatchAsusdConfig(fs afero.Fs, path string, limit int) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	result, err := PatchAsusdConfigData(data, limit)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(fs, path, result)
}

func PatchAsusdConfigData(data []byte, limit int) ([]byte, error) {
	return ron.Patch(data, func(root *ron.Value) error {
		if root.Field(asusdThresholdField) == nil {
			return ErrNoThresholdField
		}
		return root.SetField(asusdThresholdField, ron.Int(limit))
	})
}

// ReadAsusdThreshold returns the charge limit stored in the asusd config file
func ReadAsusdThreshold(fs afero.Fs, path string) (int, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return -1, err
	}
	root, err := ron.Parse(data)
	if err != nil {
		return -1, err
	}
	field := root.Field(asusdThresholdField)
	if field == nil {
		return -1, ErrNoThresholdField
	}
	value, err := field.Int()
	if err != nil {
		return -1, fmt.Errorf("%s: %w", asusdThresholdField, err)
	}
	return int(value), nil
}

// AsusdConfigWatcher calls onChange once the asusd config file settled after a change.
//
// The parent directory is watched, asusd and our own atomic writes replace the file.
type AsusdConfigWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
}

func NewAsusdConfigWatcher(path string, debounce time.Duration, onChange func()) *AsusdConfigWatcher {
	return &AsusdConfigWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
	}
}

// Run watches until ctx is cancelled
func (w *AsusdConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	ui.Debug("Watching %s for changes", w.path)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ui.Warning("Error watching %s: %v", w.path, err)
		}
	}
}
