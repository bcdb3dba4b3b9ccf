package battery

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
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	MinChargeLimit = 60
	MaxChargeLimit = 100

	// persisted limits in this range are restored on startup
	minRestorableLimit = 20

	keyChargeLimit = "chargeLimit"

	thresholdFile = "charge_control_end_threshold"
	capacityFile  = "capacity"
	statusFile    = "status"

	MethodVendorCli = "asusctl"
	MethodSysfs     = "sysfs"

	asusdWatchDebounce = 500 * time.Millisecond
)

type Statistics struct {
	Applies      int `json:"applies"`
	Enforcements int `json:"enforcements"`
}

// Controller keeps the battery charge limit at the requested value.
// Requests are debounced, once applied the kernel threshold is re-asserted periodically.
type Controller struct {
	config configuration.BatteryConfig
	fs     afero.Fs
	runner util.Runner
	store  persistence.SettingsStore
	bus    *events.Bus
	task   *util.PeriodicTask

	mu           sync.Mutex
	limit        int
	pending      int
	applied      bool
	debounce     *time.Timer
	lastMethod   string
	applies      int
	enforcements int
	closed       bool
}

// NewController reads the kernel threshold and re-applies a persisted limit that differs from it
func NewController(config configuration.BatteryConfig, fs afero.Fs, runner util.Runner, store persistence.SettingsStore, bus *events.Bus) *Controller {
	c := &Controller{
		config:  config,
		fs:      fs,
		runner:  runner,
		store:   store,
		bus:     bus,
		limit:   MaxChargeLimit,
		pending: -1,
	}
	c.task = util.NewPeriodicTask(config.EnforcementTickRate, c.Enforce)

	if kernel := c.KernelLimit(); kernel > 0 {
		c.limit = kernel
	}
	if _, ok := c.thresholdPath(); !ok {
		ui.Warning("No battery charge threshold found in %s", config.PowerSupplyPath)
	}

	if store != nil {
		var saved int
		err := store.LoadSetting(persistence.NamespaceBattery, keyChargeLimit, &saved)
		if err == nil && saved >= minRestorableLimit && saved <= MaxChargeLimit && saved != c.limit {
			ui.Info("Restoring saved charge limit: %d%%", saved)
			c.SetChargeLimit(saved)
		}
	}
	return c
}

// thresholdPath returns the threshold file of the first configured battery that has one
func (c *Controller) thresholdPath() (string, bool) {
	candidates := make([]string, 0, len(c.config.Batteries))
	for _, name := range c.config.Batteries {
		candidates = append(candidates, filepath.Join(c.config.PowerSupplyPath, name, thresholdFile))
	}
	return util.FirstExisting(c.fs, candidates...)
}

// KernelLimit reads the threshold currently active in the kernel, -1 if unavailable
func (c *Controller) KernelLimit() int {
	path, ok := c.thresholdPath()
	if !ok {
		return -1
	}
	value, err := util.ReadIntFromFile(c.fs, path)
	if err != nil || value <= 0 {
		return -1
	}
	return value
}

// SetChargeLimit clamps the limit to [60,100] and applies it once no new request arrived within the debounce delay.
// Limit reports the new value immediately.
func (c *Controller) SetChargeLimit(limit int) {
	limit = util.Clamp(limit, MinChargeLimit, MaxChargeLimit)

	c.mu.Lock()
	c.pending = limit
	c.limit = limit
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	if c.config.Debounce <= 0 {
		c.mu.Unlock()
		c.ApplyPending()
		return
	}
	c.debounce = time.AfterFunc(c.config.Debounce, func() {
		c.ApplyPending()
	})
	c.mu.Unlock()
}

// ApplyPending writes the pending limit, preferring asusctl and verifying its result through sysfs.
// On success the limit is persisted in the settings store, the limit file and the asusd config.
func (c *Controller) ApplyPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	limit := c.pending
	if limit < MinChargeLimit || limit > MaxChargeLimit {
		return false
	}
	c.pending = -1
	c.debounce = nil

	path, ok := c.thresholdPath()
	if !ok {
		ui.Debug("Cannot apply charge limit %d%%, no threshold file", limit)
		return false
	}

	method := ""
	if c.applyWithVendorCli(limit, path) {
		method = MethodVendorCli
	} else if err := util.WriteIntToFile(c.fs, limit, path); err != nil {
		ui.Debug("Unable to write charge limit to %s: %v", path, err)
	} else {
		method = MethodSysfs
	}
	if method == "" {
		ui.Warning("Unable to apply charge limit %d%%", limit)
		return false
	}

	c.applied = true
	c.applies++
	c.lastMethod = method
	ui.Info("Charge limit set to %d%% (%s)", limit, method)

	c.persistLocked(limit)
	c.enforceLocked()
	c.bus.Publish(events.ChargeLimitAppliedEvent{Limit: limit, Method: method})
	return true
}

func (c *Controller) applyWithVendorCli(limit int, path string) bool {
	cli, ok := util.FirstSafeExecutable(c.fs, c.config.VendorCliPaths...)
	if !ok || c.runner == nil {
		return false
	}
	if _, err := c.runner.Run(context.Background(), c.config.VerifyTimeout, cli, "-c", strconv.Itoa(limit)); err != nil {
		ui.Debug("asusctl could not set the charge limit: %v", err)
		return false
	}
	value, err := util.ReadIntFromFile(c.fs, path)
	if err != nil || value != limit {
		ui.Debug("asusctl reported success but the kernel threshold is %d", value)
		return false
	}
	return true
}

func (c *Controller) persistLocked(limit int) {
	if c.config.LimitFilePath != "" {
		if err := util.WriteIntToFile(c.fs, limit, c.config.LimitFilePath); err != nil {
			ui.Debug("Unable to write %s: %v", c.config.LimitFilePath, err)
		}
	}
	if c.store != nil {
		if err := c.store.SaveSetting(persistence.NamespaceBattery, keyChargeLimit, limit); err != nil {
			ui.Warning("Unable to save charge limit: %v", err)
		}
	}
	if c.config.AsusdConfigPath != "" {
		if err := PatchAsusdConfig(c.fs, c.config.AsusdConfigPath, limit); err != nil {
			ui.Debug("Unable to update %s: %v", c.config.AsusdConfigPath, err)
		}
	}
}

// Enforce re-writes the kernel threshold if it differs from the current limit
func (c *Controller) Enforce() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.applied {
		return
	}
	c.enforceLocked()
}

func (c *Controller) enforceLocked() {
	path, ok := c.thresholdPath()
	if !ok {
		return
	}
	current, err := util.ReadIntFromFile(c.fs, path)
	if err == nil && current == c.limit {
		return
	}
	if err := util.WriteIntToFile(c.fs, c.limit, path); err != nil {
		ui.Debug("Unable to enforce charge limit: %v", err)
		return
	}
	c.enforcements++
	ui.Debug("Re-applied charge limit %d%%, kernel had %d", c.limit, current)
	c.bus.Publish(events.ChargeLimitEnforcedEvent{Limit: c.limit, Was: current})
}

// SyncAsusdConfig re-patches the asusd config when its threshold diverged from the applied limit
func (c *Controller) SyncAsusdConfig() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.applied || c.config.AsusdConfigPath == "" {
		return
	}
	stored, err := ReadAsusdThreshold(c.fs, c.config.AsusdConfigPath)
	if err != nil {
		ui.Debug("Unable to read %s: %v", c.config.AsusdConfigPath, err)
		return
	}
	if stored == c.limit {
		return
	}
	ui.Info("asusd changed the charge limit to %d%%, restoring %d%%", stored, c.limit)
	if err := PatchAsusdConfig(c.fs, c.config.AsusdConfigPath, c.limit); err != nil {
		ui.Warning("Unable to update %s: %v", c.config.AsusdConfigPath, err)
	}
}

// Run enforces the limit periodically and watches the asusd config until ctx is cancelled
func (c *Controller) Run(ctx context.Context) error {
	c.task.Start()
	defer c.task.Stop()

	if c.config.WatchAsusdConfig && c.config.AsusdConfigPath != "" {
		watcher := NewAsusdConfigWatcher(c.config.AsusdConfigPath, asusdWatchDebounce, c.SyncAsusdConfig)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				ui.Warning("Unable to watch %s: %v", c.config.AsusdConfigPath, err)
			}
		}()
	}

	<-ctx.Done()
	return nil
}

// Limit returns the requested limit, it may not have been applied yet
func (c *Controller) Limit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limit
}

func (c *Controller) HasPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending >= 0
}

func (c *Controller) LastMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMethod
}

func (c *Controller) Statistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Statistics{Applies: c.applies, Enforcements: c.enforcements}
}

func (c *Controller) IsAvailable() bool {
	_, ok := c.thresholdPath()
	return ok
}

// Close drops a pending request and stops enforcement
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.task.Stop()
}
