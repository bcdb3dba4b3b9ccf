package thermal

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/events"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/persistence"
	"github.com/tuf2go/tuf2go/internal/testingutils"
)

const policyPath = "/sys/devices/platform/asus-nb-wmi/throttle_thermal_policy"

type fakeTemperature struct {
	mu    sync.Mutex
	value float64
	err   error
}

func (f *fakeTemperature) Temperature() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

func (f *fakeTemperature) set(value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
}

func newTestEngine(temp *fakeTemperature, store persistence.SettingsStore) (*Engine, *testingutils.WriteCountingFs) {
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(policyPath, "0")
	config := configuration.ThermalCurveConfig{
		TickRate:   time.Hour,
		PolicyPath: policyPath,
	}
	return NewEngine(config, fs, temp, store, events.New()), fs
}

func TestClassify(t *testing.T) {
	tests := []struct {
		temperature float64
		expected    fans.Policy
	}{
		{20, fans.PolicySilent},
		{50, fans.PolicySilent},
		{50.1, fans.PolicyBalanced},
		{70, fans.PolicyBalanced},
		{70.5, fans.PolicyTurbo},
		{99, fans.PolicyTurbo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.temperature, 50, 70), "temperature %v", tt.temperature)
	}
}

func TestEngine_DefaultsDisabled(t *testing.T) {
	// GIVEN
	e, fs := newTestEngine(&fakeTemperature{value: 90}, persistence.NewMemoryStore())
	defer e.Close()

	// THEN
	config := e.Config()
	assert.False(t, config.Enabled)
	assert.Equal(t, DefaultSilentThreshold, config.SilentThreshold)
	assert.Equal(t, DefaultBalancedThreshold, config.BalancedThreshold)
	assert.Equal(t, ModeManual, e.CurrentMode())
	assert.Equal(t, 0, fs.WriteCount())
}

func TestEngine_EnableEvaluatesImmediately(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{value: 85}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	e.SetEnabled(true)

	// THEN
	assert.Equal(t, []string{"1"}, fs.WritesTo(policyPath))
	assert.Equal(t, "Turbo", e.CurrentMode())
	assert.Equal(t, 85.0, e.CurrentTemperature())
	assert.True(t, e.task.IsRunning())
}

func TestEngine_NoRewriteOfSamePolicy(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{value: 60}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()
	e.SetEnabled(true)

	// WHEN
	e.Evaluate()
	temp.set(65)
	e.Evaluate()

	// THEN
	assert.Equal(t, []string{"0"}, fs.WritesTo(policyPath))

	// WHEN
	temp.set(40)
	e.Evaluate()

	// THEN
	assert.Equal(t, []string{"0", "2"}, fs.WritesTo(policyPath))
	assert.Equal(t, 2, e.Writes())
}

func TestEngine_ReEnableResetsGuard(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{value: 40}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()
	e.SetEnabled(true)

	// WHEN
	e.SetEnabled(false)
	e.SetEnabled(true)

	// THEN
	assert.Equal(t, []string{"2", "2"}, fs.WritesTo(policyPath))
}

func TestEngine_DisableStopsLoop(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{value: 40}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()
	e.SetEnabled(true)
	fs.Reset()

	// WHEN
	e.SetEnabled(false)
	temp.set(90)
	e.Evaluate()

	// THEN
	assert.False(t, e.task.IsRunning())
	assert.Equal(t, 0, fs.WriteCount())
	assert.Equal(t, ModeManual, e.CurrentMode())
}

func TestEngine_FallbackTemperature(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{err: errors.New("no sensor")}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	e.SetEnabled(true)

	// THEN
	assert.Equal(t, FallbackTemperature, e.CurrentTemperature())
	assert.Equal(t, []string{"2"}, fs.WritesTo(policyPath))
}

func TestEngine_MilliDegreeTemperature(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{value: 72000}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	e.SetEnabled(true)

	// THEN
	assert.Equal(t, 72.0, e.CurrentTemperature())
	assert.Equal(t, []string{"1"}, fs.WritesTo(policyPath))
}

func TestEngine_SilentThresholdRaisesBalanced(t *testing.T) {
	// GIVEN
	e, _ := newTestEngine(&fakeTemperature{value: 50}, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	e.SetSilentThreshold(68)

	// THEN
	config := e.Config()
	assert.Equal(t, 68, config.SilentThreshold)
	assert.Equal(t, 73, config.BalancedThreshold)
}

func TestEngine_BalancedThresholdLowersSilent(t *testing.T) {
	// GIVEN
	e, _ := newTestEngine(&fakeTemperature{value: 50}, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	e.SetBalancedThreshold(41)

	// THEN
	config := e.Config()
	assert.Equal(t, 36, config.SilentThreshold)
	assert.Equal(t, 41, config.BalancedThreshold)
}

func TestEngine_ThresholdsClampToAbsoluteRange(t *testing.T) {
	// GIVEN
	e, _ := newTestEngine(&fakeTemperature{value: 50}, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	e.SetSilentThreshold(5)
	e.SetBalancedThreshold(200)

	// THEN
	config := e.Config()
	assert.Equal(t, MinSilentThreshold, config.SilentThreshold)
	assert.Equal(t, MaxBalancedThreshold, config.BalancedThreshold)

	// WHEN
	e.SetSilentThreshold(200)
	e.SetBalancedThreshold(0)

	// THEN
	config = e.Config()
	assert.Equal(t, MinBalancedThreshold-MinThresholdGap, config.SilentThreshold)
	assert.Equal(t, MinBalancedThreshold, config.BalancedThreshold)
}

func TestEngine_ThresholdGapHoldsForAnySequence(t *testing.T) {
	// GIVEN
	e, _ := newTestEngine(&fakeTemperature{value: 50}, persistence.NewMemoryStore())
	defer e.Close()
	random := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		// WHEN
		value := random.Intn(140) - 20
		if random.Intn(2) == 0 {
			e.SetSilentThreshold(value)
		} else {
			e.SetBalancedThreshold(value)
		}

		// THEN
		config := e.Config()
		assert.LessOrEqual(t, config.SilentThreshold+MinThresholdGap, config.BalancedThreshold)
		assert.GreaterOrEqual(t, config.SilentThreshold, MinSilentThreshold)
		assert.LessOrEqual(t, config.SilentThreshold, MaxSilentThreshold)
		assert.GreaterOrEqual(t, config.BalancedThreshold, MinBalancedThreshold)
		assert.LessOrEqual(t, config.BalancedThreshold, MaxBalancedThreshold)
	}
}

func TestEngine_ThresholdChangeReEvaluates(t *testing.T) {
	// GIVEN
	temp := &fakeTemperature{value: 60}
	e, fs := newTestEngine(temp, persistence.NewMemoryStore())
	defer e.Close()
	e.SetEnabled(true)

	// WHEN
	e.SetSilentThreshold(65)

	// THEN
	assert.Equal(t, []string{"0", "2"}, fs.WritesTo(policyPath))
}

func TestEngine_ApplyPreset(t *testing.T) {
	// GIVEN
	e, _ := newTestEngine(&fakeTemperature{value: 50}, persistence.NewMemoryStore())
	defer e.Close()

	// WHEN
	err := e.ApplyPreset("performance")

	// THEN
	assert.NoError(t, err)
	config := e.Config()
	assert.Equal(t, 35, config.SilentThreshold)
	assert.Equal(t, 50, config.BalancedThreshold)

	// WHEN
	err = e.ApplyPreset("Turbo")

	// THEN
	assert.Error(t, err)
	assert.Equal(t, 35, e.Config().SilentThreshold)
}

func TestEngine_SettingsPersist(t *testing.T) {
	// GIVEN
	store := persistence.NewMemoryStore()
	first, _ := newTestEngine(&fakeTemperature{value: 50}, store)
	first.SetEnabled(true)
	_ = first.ApplyPreset("Quiet")
	first.Close()

	// WHEN
	second, _ := newTestEngine(&fakeTemperature{value: 50}, store)
	defer second.Close()

	// THEN
	config := second.Config()
	assert.True(t, config.Enabled)
	assert.Equal(t, 65, config.SilentThreshold)
	assert.Equal(t, 80, config.BalancedThreshold)
	assert.True(t, second.task.IsRunning())
}

func TestEngine_StoredThresholdsAreRepaired(t *testing.T) {
	// GIVEN
	store := persistence.NewMemoryStore()
	_ = store.SaveSetting(persistence.NamespaceThermalCurve, keySilentThreshold, 78)
	_ = store.SaveSetting(persistence.NamespaceThermalCurve, keyBalancedThreshold, 60)

	// WHEN
	e, _ := newTestEngine(&fakeTemperature{value: 50}, store)
	defer e.Close()

	// THEN
	config := e.Config()
	assert.Equal(t, 78, config.SilentThreshold)
	assert.Equal(t, 83, config.BalancedThreshold)
}

func TestEngine_MissingPolicyPath(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	config := configuration.ThermalCurveConfig{TickRate: time.Hour, PolicyPath: policyPath}
	e := NewEngine(config, fs, &fakeTemperature{value: 90}, nil, nil)
	defer e.Close()

	// WHEN
	e.SetEnabled(true)

	// THEN
	assert.False(t, e.IsAvailable())
	assert.Equal(t, 0, fs.WriteCount())
	assert.Equal(t, ModeAuto, e.CurrentMode())
}

func TestEngine_PublishesPolicyChange(t *testing.T) {
	// GIVEN
	fs := testingutils.NewWriteCountingFs()
	fs.Seed(policyPath, "0")
	bus := events.New()
	received := make(chan events.ThermalPolicyChangedEvent, 4)
	unsubscribe := bus.Subscribe(func(ev events.ThermalPolicyChangedEvent) {
		received <- ev
	})
	defer unsubscribe()

	config := configuration.ThermalCurveConfig{TickRate: time.Hour, PolicyPath: policyPath}
	e := NewEngine(config, fs, &fakeTemperature{value: 91}, nil, bus)
	defer e.Close()

	// WHEN
	e.SetEnabled(true)

	// THEN
	select {
	case ev := <-received:
		assert.Equal(t, int(fans.PolicyTurbo), ev.Policy)
		assert.Equal(t, 91.0, ev.Temperature)
	case <-time.After(time.Second):
		t.Fatal("no policy change event received")
	}
}
