package battery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/events"
	"github.com/tuf2go/tuf2go/internal/persistence"
	"github.com/tuf2go/tuf2go/internal/testingutils"
)

const (
	powerSupplyPath = "/sys/class/power_supply"
	bat1Threshold   = powerSupplyPath + "/BAT1/charge_control_end_threshold"
	bat0Threshold   = powerSupplyPath + "/BAT0/charge_control_end_threshold"
	asusctlPath     = "/usr/bin/asusctl"
	limitFilePath   = "/etc/asus_battery_limit.conf"
	asusdPath       = "/etc/asusd/asusd.ron"
)

const asusdConfig = `(
    charge_control_end_threshold: 80,
    disable_nvidia_powerd_on_battery: true,
    ac_command: "",
    bat_command: "",
)
`

func testConfig() configuration.BatteryConfig {
	return configuration.BatteryConfig{
		Enabled:             true,
		PowerSupplyPath:     powerSupplyPath,
		Batteries:           []string{"BAT1", "BAT0"},
		VendorCliPaths:      []string{asusctlPath},
		Debounce:            0,
		EnforcementTickRate: time.Hour,
		VerifyTimeout:       time.Second,
		LimitFilePath:       limitFilePath,
		AsusdConfigPath:     asusdPath,
	}
}

func TestController_ReadsKernelLimit(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "80")

	// WHEN
	c := NewController(testConfig(), fs, testingutils.NewRecordingRunner(), persistence.NewMemoryStore(), nil)
	defer c.Close()

	// THEN
	assert.True(t, c.IsAvailable())
	assert.Equal(t, 80, c.Limit())
	assert.Equal(t, 80, c.KernelLimit())
	assert.Equal(t, 0, fs.WriteCount())
}

func TestController_FallsBackToBat0(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat0Threshold, "90")
	c := NewController(testConfig(), fs, nil, nil, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(75)

	// THEN
	assert.False(t, c.HasPending())
	assert.Equal(t, []string{"75"}, fs.WritesTo(bat0Threshold))
	assert.Equal(t, MethodSysfs, c.LastMethod())
}

func TestController_ClampsLimit(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	c := NewController(testConfig(), fs, nil, nil, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(20)

	// THEN
	assert.Equal(t, MinChargeLimit, c.Limit())
	assert.Equal(t, "60", fs.Read(bat1Threshold))

	// WHEN
	c.SetChargeLimit(150)

	// THEN
	assert.Equal(t, MaxChargeLimit, c.Limit())
	assert.Equal(t, "100", fs.Read(bat1Threshold))
}

func TestController_AppliesWithVerifiedAsusctl(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	fs.Seed(asusctlPath, "")
	fs.Seed(asusdPath, asusdConfig)
	runner := testingutils.NewRecordingRunner()
	runner.OnRun(func(invocation testingutils.Invocation) {
		if invocation.String() == asusctlPath+" -c 80" {
			fs.Seed(bat1Threshold, "80")
		}
	})
	store := persistence.NewMemoryStore()
	config := testConfig()
	c := NewController(config, fs, runner, store, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(80)

	// THEN
	assert.Equal(t, []string{asusctlPath + " -c 80"}, runner.CommandLines())
	assert.Empty(t, fs.WritesTo(bat1Threshold))
	assert.Equal(t, MethodVendorCli, c.LastMethod())
	assert.Equal(t, []string{"80"}, fs.WritesTo(limitFilePath))

	var saved int
	require.NoError(t, store.LoadSetting(persistence.NamespaceBattery, keyChargeLimit, &saved))
	assert.Equal(t, 80, saved)

	threshold, err := ReadAsusdThreshold(fs, config.AsusdConfigPath)
	require.NoError(t, err)
	assert.Equal(t, 80, threshold)
}

func TestController_UnverifiedAsusctlFallsBackToSysfs(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	fs.Seed(asusctlPath, "")
	fs.Seed(asusdPath, asusdConfig)
	runner := testingutils.NewRecordingRunner()
	config := testConfig()
	c := NewController(config, fs, runner, nil, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(70)

	// THEN
	assert.Equal(t, []string{asusctlPath + " -c 70"}, runner.CommandLines())
	assert.Equal(t, []string{"70"}, fs.WritesTo(bat1Threshold))
	assert.Equal(t, MethodSysfs, c.LastMethod())

	threshold, err := ReadAsusdThreshold(fs, config.AsusdConfigPath)
	require.NoError(t, err)
	assert.Equal(t, 70, threshold)
}

func TestController_FailingAsusctlFallsBackToSysfs(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	fs.Seed(asusctlPath, "")
	runner := testingutils.NewRecordingRunner()
	runner.SetResult(asusctlPath+" -c 65", testingutils.RunResult{Err: errors.New("exit status 1")})
	c := NewController(testConfig(), fs, runner, nil, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(65)

	// THEN
	assert.Equal(t, "65", fs.Read(bat1Threshold))
	assert.Equal(t, MethodSysfs, c.LastMethod())
}

func TestController_Debounce(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	config := testConfig()
	config.Debounce = 50 * time.Millisecond
	c := NewController(config, fs, nil, nil, nil)
	defer c.Close()

	// WHEN
	for _, limit := range []int{90, 85, 80, 75} {
		c.SetChargeLimit(limit)
	}

	// THEN
	assert.Equal(t, 75, c.Limit())
	assert.True(t, c.HasPending())
	assert.Empty(t, fs.WritesTo(bat1Threshold))

	assert.Eventually(t, func() bool {
		return !c.HasPending()
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"75"}, fs.WritesTo(bat1Threshold))
}

func TestController_CloseDropsPending(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	config := testConfig()
	config.Debounce = 20 * time.Millisecond
	c := NewController(config, fs, nil, nil, nil)

	// WHEN
	c.SetChargeLimit(80)
	c.Close()
	time.Sleep(60 * time.Millisecond)

	// THEN
	assert.Empty(t, fs.WritesTo(bat1Threshold))
	assert.False(t, c.ApplyPending())
}

func TestController_EnforceRewritesDrift(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	bus := events.New()
	enforced := make(chan events.ChargeLimitEnforcedEvent, 1)
	defer bus.Subscribe(func(e events.ChargeLimitEnforcedEvent) { enforced <- e })()
	c := NewController(testConfig(), fs, nil, nil, bus)
	defer c.Close()
	c.SetChargeLimit(80)
	fs.Reset()

	// WHEN
	c.Enforce()

	// THEN
	assert.Equal(t, 0, fs.WriteCount())

	// WHEN
	fs.Seed(bat1Threshold, "100")
	c.Enforce()

	// THEN
	assert.Equal(t, []string{"80"}, fs.WritesTo(bat1Threshold))
	assert.Equal(t, 1, c.Statistics().Enforcements)
	select {
	case e := <-enforced:
		assert.Equal(t, 80, e.Limit)
		assert.Equal(t, 100, e.Was)
	case <-time.After(time.Second):
		t.Fatal("no enforcement event received")
	}
}

func TestController_EnforceIdleWithoutApply(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	c := NewController(testConfig(), fs, nil, nil, nil)
	defer c.Close()

	// WHEN
	c.Enforce()

	// THEN
	assert.Equal(t, 0, fs.WriteCount())
}

func TestController_RestoresSavedLimit(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	store := persistence.NewMemoryStore()
	require.NoError(t, store.SaveSetting(persistence.NamespaceBattery, keyChargeLimit, 80))

	// WHEN
	c := NewController(testConfig(), fs, nil, store, nil)
	defer c.Close()

	// THEN
	assert.Equal(t, 80, c.Limit())
	assert.Equal(t, "80", fs.Read(bat1Threshold))
}

func TestController_IgnoresInvalidSavedLimit(t *testing.T) {
	for _, saved := range []int{10, 101, 100} {
		// GIVEN
		fs := testingutils.NewWriteCountingFs()
		fs.Seed(bat1Threshold, "100")
		store := persistence.NewMemoryStore()
		require.NoError(t, store.SaveSetting(persistence.NamespaceBattery, keyChargeLimit, saved))

		// WHEN
		c := NewController(testConfig(), fs, nil, store, nil)
		c.Close()

		// THEN
		assert.Equal(t, 0, fs.WriteCount(), "saved limit %d", saved)
	}
}

func TestController_SyncAsusdConfig(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	config := testConfig()
	c := NewController(config, fs, nil, nil, nil)
	defer c.Close()
	c.SetChargeLimit(70)
	fs.Seed(asusdPath, asusdConfig)

	// WHEN
	c.SyncAsusdConfig()

	// THEN
	threshold, err := ReadAsusdThreshold(fs, config.AsusdConfigPath)
	require.NoError(t, err)
	assert.Equal(t, 70, threshold)
}

func TestAsusdConfigWatcher_NotifiesOnReplace(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "asusd.ron")
	require.NoError(t, os.WriteFile(path, []byte(asusdConfig), 0644))
	changed := make(chan struct{}, 4)
	watcher := NewAsusdConfigWatcher(path, 20*time.Millisecond, func() { changed <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// WHEN
	require.NoError(t, PatchAsusdConfig(afero.NewOsFs(), path, 60))

	// THEN
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestController_AsusdConfigGoesThroughFs(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	fs.Seed(asusdPath, asusdConfig)
	c := NewController(testConfig(), fs, nil, nil, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(65)

	// THEN
	threshold, err := ReadAsusdThreshold(fs, asusdPath)
	require.NoError(t, err)
	assert.Equal(t, 65, threshold)
	data, err := afero.ReadFile(fs, asusdPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disable_nvidia_powerd_on_battery: true,")
}

func TestController_IgnoresWorldWritableAsusctl(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "100")
	require.NoError(t, afero.WriteFile(fs.Fs, asusctlPath, []byte{}, 0o777))
	runner := testingutils.NewRecordingRunner()
	c := NewController(testConfig(), fs, runner, nil, nil)
	defer c.Close()

	// WHEN
	c.SetChargeLimit(75)

	// THEN
	assert.Empty(t, runner.CommandLines())
	assert.Equal(t, []string{"75"}, fs.WritesTo(bat1Threshold))
	assert.Equal(t, MethodSysfs, c.LastMethod())
}

func TestPatchAsusdConfigData(t *testing.T) {
	// WHEN
	result, err := PatchAsusdConfigData([]byte(asusdConfig), 85)

	// THEN
	require.NoError(t, err)
	assert.Contains(t, string(result), "charge_control_end_threshold: 85,")
	assert.Contains(t, string(result), "disable_nvidia_powerd_on_battery: true,")

	// WHEN
	_, err = PatchAsusdConfigData([]byte("(\n    ac_command: \"\",\n)\n"), 85)

	// THEN
	assert.ErrorIs(t, err, ErrNoThresholdField)
}

func TestController_Status(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(bat1Threshold, "80")
	fs.Seed(powerSupplyPath+"/BAT1/capacity", "64")
	fs.Seed(powerSupplyPath+"/BAT1/status", "Charging")
	c := NewController(testConfig(), fs, nil, nil, nil)
	defer c.Close()

	// WHEN
	status, ok := c.Status()

	// THEN
	assert.True(t, ok)
	assert.Equal(t, Status{Name: "BAT1", Capacity: 64, State: "Charging", Charging: true}, status)
}
