package events

// Event type constants for kelindar/event.
const (
	TypeFanModeChanged uint32 = iota + 1
	TypeFanStatusChanged
	TypeSafetyTrip
	TypeLightingAvailabilityChanged
	TypeLightingStateChanged
	TypeThermalPolicyChanged
	TypeChargeLimitApplied
	TypeChargeLimitEnforced
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// FanModeChangedEvent is raised on every Auto <-> Manual transition of the fan engine.
type FanModeChangedEvent struct {
	Mode    string `json:"mode"`
	Percent int    `json:"percent"`
}

func (e FanModeChangedEvent) Type() uint32 { return TypeFanModeChanged }

type FanStatusChangedEvent struct {
	Status string `json:"status"`
}

func (e FanStatusChangedEvent) Type() uint32 { return TypeFanStatusChanged }

// SafetyTripEvent is raised when the stall watchdog forces the fans back to auto mode.
type SafetyTripEvent struct {
	Percent      int `json:"percent"`
	StalledTicks int `json:"stalledTicks"`
}

func (e SafetyTripEvent) Type() uint32 { return TypeSafetyTrip }

type LightingAvailabilityChangedEvent struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
}

func (e LightingAvailabilityChangedEvent) Type() uint32 { return TypeLightingAvailabilityChanged }

type LightingStateChangedEvent struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
	Speed int    `json:"speed"`
}

func (e LightingStateChangedEvent) Type() uint32 { return TypeLightingStateChanged }

type ThermalPolicyChangedEvent struct {
	Temperature float64 `json:"temperature"`
	Policy      int     `json:"policy"`
}

func (e ThermalPolicyChangedEvent) Type() uint32 { return TypeThermalPolicyChanged }

type ChargeLimitAppliedEvent struct {
	Limit  int    `json:"limit"`
	Method string `json:"method"`
}

func (e ChargeLimitAppliedEvent) Type() uint32 { return TypeChargeLimitApplied }

// ChargeLimitEnforcedEvent is raised when the kernel threshold drifted and was re-written.
type ChargeLimitEnforcedEvent struct {
	Limit int `json:"limit"`
	Was   int `json:"was"`
}

func (e ChargeLimitEnforcedEvent) Type() uint32 { return TypeChargeLimitEnforced }
