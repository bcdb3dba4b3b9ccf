package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuf2go/tuf2go/internal/sensors"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	readings  *sensors.Readings
	value     *prometheus.Desc
	movingAvg *prometheus.Desc
}

func NewSensorCollector(readings *sensors.Readings) *SensorCollector {
	return &SensorCollector{
		readings: readings,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "value"),
			"Current value of the sensor",
			[]string{"id"}, nil,
		),
		movingAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "moving_avg"),
			"Moving average of the sensor value",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.movingAvg
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, id := range collector.readings.Ids() {
		reading, ok := collector.readings.Get(id)
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, reading.Value, id)
		ch <- prometheus.MustNewConstMetric(collector.movingAvg, prometheus.GaugeValue, reading.MovingAvg, id)
	}
}
