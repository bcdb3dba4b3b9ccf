package sensors

import (
	"context"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

// RpmSource provides fan speeds in RPM
type RpmSource interface {
	CpuFanRpm() int
	GpuFanRpm() int
}

// Monitor periodically polls temperature and rpm sensors and stores the results
// in a Readings cache.
type Monitor struct {
	readings    *Readings
	pollingRate time.Duration
	windowSize  int

	cpuTemp TemperatureSource
	gpuTemp TemperatureSource
	rpm     RpmSource

	mu      sync.Mutex
	windows map[string]*rolling.PointPolicy
}

func NewMonitor(readings *Readings, pollingRate time.Duration, windowSize int, cpuTemp TemperatureSource, gpuTemp TemperatureSource, rpm RpmSource) *Monitor {
	return &Monitor{
		readings:    readings,
		pollingRate: pollingRate,
		windowSize:  windowSize,
		cpuTemp:     cpuTemp,
		gpuTemp:     gpuTemp,
		rpm:         rpm,
		windows:     map[string]*rolling.PointPolicy{},
	}
}

func (m *Monitor) Readings() *Readings {
	return m.readings
}

// Run polls all sensors until ctx is done
func (m *Monitor) Run(ctx context.Context) error {
	m.Poll()

	tick := time.NewTicker(m.pollingRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping sensor monitor...")
			return nil
		case <-tick.C:
			m.Poll()
		}
	}
}

// Poll reads every sensor once
func (m *Monitor) Poll() {
	if m.cpuTemp != nil {
		if value, err := m.cpuTemp.Temperature(); err == nil {
			m.update(IdCpuTemp, value)
		}
	}
	if m.gpuTemp != nil {
		if value, err := m.gpuTemp.Temperature(); err == nil {
			m.update(IdGpuTemp, value)
		} else {
			ui.Debug("Unable to read gpu temperature: %v", err)
		}
	}
	if m.rpm != nil {
		m.updateRpm(IdCpuFanRpm, m.rpm.CpuFanRpm())
		m.updateRpm(IdGpuFanRpm, m.rpm.GpuFanRpm())
	}
}

// updateRpm drops the reading of a fan that has no readable input, so it is reported as unknown
func (m *Monitor) updateRpm(id string, rpm int) {
	if rpm >= 0 {
		m.update(id, float64(rpm))
		return
	}
	m.mu.Lock()
	delete(m.windows, id)
	m.mu.Unlock()
	m.readings.Remove(id)
}

func (m *Monitor) update(id string, value float64) {
	m.mu.Lock()
	window, ok := m.windows[id]
	if !ok {
		window = util.CreateRollingWindowWithValue(m.windowSize, value)
		m.windows[id] = window
	} else {
		window.Append(value)
	}
	avg := util.GetWindowAvg(window)
	m.mu.Unlock()

	m.readings.Set(Reading{
		Id:        id,
		Value:     value,
		MovingAvg: avg,
		Updated:   time.Now().UnixMilli(),
	})
}

// CachedCpuRpm returns the most recently polled cpu fan rpm, or -1 if unknown
func (m *Monitor) CachedCpuRpm() int {
	reading, ok := m.readings.Get(IdCpuFanRpm)
	if !ok {
		return -1
	}
	return int(reading.Value)
}
