package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuf2go/tuf2go/internal/fans"
)

const fanSubsystem = "fan"

type FanCollector struct {
	engine *fans.Engine

	targetPercent       *prometheus.Desc
	mode                *prometheus.Desc
	policy              *prometheus.Desc
	writes              *prometheus.Desc
	enforcementRewrites *prometheus.Desc
	safetyTrips         *prometheus.Desc
	stalledTicks        *prometheus.Desc
}

func NewFanCollector(engine *fans.Engine) *FanCollector {
	return &FanCollector{
		engine: engine,
		targetPercent: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "target_percent"),
			"Last requested manual fan speed in percent",
			[]string{"backend"}, nil,
		),
		mode: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "mode"),
			"Fan control mode, 0 = Auto, 1 = Manual",
			nil, nil,
		),
		policy: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "policy"),
			"Thermal policy the requested speed resolves to, -1 if unknown",
			nil, nil,
		),
		writes: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "writes_total"),
			"Number of hardware writes performed by the fan engine",
			nil, nil,
		),
		enforcementRewrites: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "enforcement_rewrites_total"),
			"Number of enforcement ticks that had to re-apply the requested speed",
			nil, nil,
		),
		safetyTrips: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "safety_trips_total"),
			"Number of times the stall watchdog reverted to Auto mode",
			nil, nil,
		),
		stalledTicks: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "stalled_ticks"),
			"Consecutive enforcement ticks with a stalled fan",
			nil, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.targetPercent
	ch <- collector.mode
	ch <- collector.policy
	ch <- collector.writes
	ch <- collector.enforcementRewrites
	ch <- collector.safetyTrips
	ch <- collector.stalledTicks
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	e := collector.engine
	stats := e.Statistics()

	policy := -1.0
	if p, ok := e.ActivePolicy(); ok {
		policy = float64(p)
	}

	ch <- prometheus.MustNewConstMetric(collector.targetPercent, prometheus.GaugeValue, float64(e.TargetPercent()), e.Backend().String())
	ch <- prometheus.MustNewConstMetric(collector.mode, prometheus.GaugeValue, float64(e.Mode()))
	ch <- prometheus.MustNewConstMetric(collector.policy, prometheus.GaugeValue, policy)
	ch <- prometheus.MustNewConstMetric(collector.writes, prometheus.CounterValue, float64(stats.Writes))
	ch <- prometheus.MustNewConstMetric(collector.enforcementRewrites, prometheus.CounterValue, float64(stats.EnforcementRewrites))
	ch <- prometheus.MustNewConstMetric(collector.safetyTrips, prometheus.CounterValue, float64(stats.SafetyTrips))
	ch <- prometheus.MustNewConstMetric(collector.stalledTicks, prometheus.GaugeValue, float64(e.StalledTicks()))
}
