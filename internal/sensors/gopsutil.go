package sensors

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

var cpuSensorKeys = []string{"coretemp", "k10temp", "cpu", "package", "tctl"}

// GopsutilTemperature returns the hottest cpu-like sensor reported by gopsutil
type GopsutilTemperature struct {
	Timeout time.Duration
}

func (s GopsutilTemperature) Temperature() (float64, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(temps) <= 0 {
		return 0, err
	}

	result := 0.0
	for _, temp := range temps {
		if containsAny(strings.ToLower(temp.SensorKey), cpuSensorKeys) && temp.Temperature > result {
			result = temp.Temperature
		}
	}
	if result <= 0 {
		return 0, ErrNoSensor
	}
	return result, nil
}

func containsAny(str string, substrings []string) bool {
	for _, substr := range substrings {
		if strings.Contains(str, substr) {
			return true
		}
	}
	return false
}
