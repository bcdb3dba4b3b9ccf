package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tuf2go/tuf2go/internal/thermal"
)

func TestCurveLevels(t *testing.T) {
	// GIVEN
	preset, err := thermal.FindPreset("Gaming")
	assert.NoError(t, err)

	// WHEN
	values := curveLevels(preset.SilentThreshold, preset.BalancedThreshold)

	// THEN
	assert.Len(t, values, graphMaxTemperature-graphMinTemperature+1)
	assert.Equal(t, 0.0, values[0])
	assert.Equal(t, 0.0, values[40-graphMinTemperature])
	assert.Equal(t, 1.0, values[41-graphMinTemperature])
	assert.Equal(t, 1.0, values[60-graphMinTemperature])
	assert.Equal(t, 2.0, values[61-graphMinTemperature])
	assert.Equal(t, 2.0, values[len(values)-1])
}

func TestCurveLevels_Monotonic(t *testing.T) {
	for _, preset := range thermal.Presets() {
		values := curveLevels(preset.SilentThreshold, preset.BalancedThreshold)
		for i := 1; i < len(values); i++ {
			assert.GreaterOrEqual(t, values[i], values[i-1], preset.Name)
		}
	}
}
