package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuf2go/tuf2go/internal/lighting"
)

const lightingSubsystem = "lighting"

type LightingCollector struct {
	engine *lighting.Engine

	available    *prometheus.Desc
	backend      *prometheus.Desc
	brightness   *prometheus.Desc
	strobeActive *prometheus.Desc
}

func NewLightingCollector(engine *lighting.Engine) *LightingCollector {
	return &LightingCollector{
		engine: engine,
		available: prometheus.NewDesc(prometheus.BuildFQName(namespace, lightingSubsystem, "available"),
			"1 if a keyboard lighting backend was detected",
			nil, nil,
		),
		backend: prometheus.NewDesc(prometheus.BuildFQName(namespace, lightingSubsystem, "backend"),
			"Selected keyboard lighting backend",
			[]string{"backend"}, nil,
		),
		brightness: prometheus.NewDesc(prometheus.BuildFQName(namespace, lightingSubsystem, "brightness"),
			"Keyboard backlight brightness level (0-3)",
			nil, nil,
		),
		strobeActive: prometheus.NewDesc(prometheus.BuildFQName(namespace, lightingSubsystem, "strobe_active"),
			"1 while the software pulsing effect is running",
			nil, nil,
		),
	}
}

func (collector *LightingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.available
	ch <- collector.backend
	ch <- collector.brightness
	ch <- collector.strobeActive
}

// Collect implements required collect function for all prometheus collectors
func (collector *LightingCollector) Collect(ch chan<- prometheus.Metric) {
	e := collector.engine
	ch <- prometheus.MustNewConstMetric(collector.available, prometheus.GaugeValue, boolValue(e.IsAvailable()))
	ch <- prometheus.MustNewConstMetric(collector.backend, prometheus.GaugeValue, 1, e.Backend().String())
	ch <- prometheus.MustNewConstMetric(collector.brightness, prometheus.GaugeValue, float64(e.Brightness()))
	ch <- prometheus.MustNewConstMetric(collector.strobeActive, prometheus.GaugeValue, boolValue(e.IsStrobing()))
}
