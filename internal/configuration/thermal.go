package configuration

import "time"

type ThermalCurveConfig struct {
	TickRate   time.Duration `json:"tickRate"`
	PolicyPath string        `json:"policyPath"`
}
