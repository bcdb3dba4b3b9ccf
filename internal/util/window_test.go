package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCreateRollingWindowWithValue(t *testing.T) {
	// GIVEN
	window := CreateRollingWindowWithValue(10, 70)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 70.0, avg)
}

func TestCreateRollingWindowWithValue_FirstValueIsReplaced(t *testing.T) {
	// GIVEN
	window := CreateRollingWindowWithValue(2, 1000)

	// WHEN
	window.Append(2000)

	// THEN
	assert.Equal(t, 1500.0, GetWindowAvg(window))
}

func TestGetWindowAvg_DropsOldestValue(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)
	window.Append(100)
	window.Append(40)
	window.Append(60)

	// WHEN
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 50.0, avg)
}
