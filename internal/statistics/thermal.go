package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuf2go/tuf2go/internal/thermal"
)

const subsystemThermal = "thermal"

type ThermalCollector struct {
	engine *thermal.Engine

	temperature *prometheus.Desc
	policy      *prometheus.Desc
	enabled     *prometheus.Desc
	threshold   *prometheus.Desc
}

func NewThermalCollector(engine *thermal.Engine) *ThermalCollector {
	return &ThermalCollector{
		engine: engine,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemThermal, "temperature"),
			"Cpu temperature seen by the last curve evaluation in °C",
			nil, nil,
		),
		policy: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemThermal, "policy"),
			"Thermal policy last written by the curve, -1 if none",
			nil, nil,
		),
		enabled: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemThermal, "enabled"),
			"1 if the thermal curve is enabled",
			nil, nil,
		),
		threshold: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemThermal, "threshold"),
			"Upper temperature bound of a policy in °C",
			[]string{"policy"}, nil,
		),
	}
}

func (collector *ThermalCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.policy
	ch <- collector.enabled
	ch <- collector.threshold
}

// Collect implements required collect function for all prometheus collectors
func (collector *ThermalCollector) Collect(ch chan<- prometheus.Metric) {
	config := collector.engine.Config()
	ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, collector.engine.CurrentTemperature())
	ch <- prometheus.MustNewConstMetric(collector.policy, prometheus.GaugeValue, float64(config.LastPolicy))
	ch <- prometheus.MustNewConstMetric(collector.enabled, prometheus.GaugeValue, boolValue(config.Enabled))
	ch <- prometheus.MustNewConstMetric(collector.threshold, prometheus.GaugeValue, float64(config.SilentThreshold), "silent")
	ch <- prometheus.MustNewConstMetric(collector.threshold, prometheus.GaugeValue, float64(config.BalancedThreshold), "balanced")
}
