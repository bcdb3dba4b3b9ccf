package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "tuf2go"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
