package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	if size <= 0 {
		size = 1
	}
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// CreateRollingWindowWithValue creates a window where every bucket holds the given value
func CreateRollingWindowWithValue(size int, value float64) *rolling.PointPolicy {
	if size <= 0 {
		size = 1
	}
	window := CreateRollingWindow(size)
	for i := 0; i < size; i++ {
		window.Append(value)
	}
	return window
}

// GetWindowAvg returns the average of all values currently held by the window
func GetWindowAvg(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Avg)
}
