package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. A nil *Bus drops all events.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case FanModeChangedEvent:
		event.Publish(b.dispatcher, e)
	case FanStatusChangedEvent:
		event.Publish(b.dispatcher, e)
	case SafetyTripEvent:
		event.Publish(b.dispatcher, e)
	case LightingAvailabilityChangedEvent:
		event.Publish(b.dispatcher, e)
	case LightingStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case ThermalPolicyChangedEvent:
		event.Publish(b.dispatcher, e)
	case ChargeLimitAppliedEvent:
		event.Publish(b.dispatcher, e)
	case ChargeLimitEnforcedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type of its parameter and returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e SafetyTripEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	if b == nil {
		return func() {}
	}
	switch h := handler.(type) {
	case func(FanModeChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FanStatusChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SafetyTripEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LightingAvailabilityChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LightingStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ThermalPolicyChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ChargeLimitAppliedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ChargeLimitEnforcedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
