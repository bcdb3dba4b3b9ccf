package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuf2go/tuf2go/internal/battery"
)

const subsystemBattery = "battery"

type BatteryCollector struct {
	controller *battery.Controller

	targetLimit  *prometheus.Desc
	kernelLimit  *prometheus.Desc
	enforcements *prometheus.Desc
	capacity     *prometheus.Desc
}

func NewBatteryCollector(controller *battery.Controller) *BatteryCollector {
	return &BatteryCollector{
		controller: controller,
		targetLimit: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemBattery, "target_limit"),
			"Requested charge limit in percent",
			nil, nil,
		),
		kernelLimit: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemBattery, "kernel_limit"),
			"Charge limit currently active in the kernel, -1 if unavailable",
			nil, nil,
		),
		enforcements: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemBattery, "enforcements_total"),
			"Number of times the kernel charge limit drifted and was re-written",
			nil, nil,
		),
		capacity: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemBattery, "capacity"),
			"Battery charge in percent",
			[]string{"id"}, nil,
		),
	}
}

func (collector *BatteryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.targetLimit
	ch <- collector.kernelLimit
	ch <- collector.enforcements
	ch <- collector.capacity
}

// Collect implements required collect function for all prometheus collectors
func (collector *BatteryCollector) Collect(ch chan<- prometheus.Metric) {
	c := collector.controller
	ch <- prometheus.MustNewConstMetric(collector.targetLimit, prometheus.GaugeValue, float64(c.Limit()))
	ch <- prometheus.MustNewConstMetric(collector.kernelLimit, prometheus.GaugeValue, float64(c.KernelLimit()))
	ch <- prometheus.MustNewConstMetric(collector.enforcements, prometheus.CounterValue, float64(c.Statistics().Enforcements))
	if status, ok := c.Status(); ok {
		ch <- prometheus.MustNewConstMetric(collector.capacity, prometheus.GaugeValue, float64(status.Capacity), status.Name)
	}
}
