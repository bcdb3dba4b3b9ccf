package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishSubscribe(t *testing.T) {
	// GIVEN
	bus := New()

	var mu sync.Mutex
	var received []SafetyTripEvent
	unsub := bus.Subscribe(func(e SafetyTripEvent) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})
	defer unsub()

	// WHEN
	bus.Publish(SafetyTripEvent{Percent: 90, StalledTicks: 10})
	bus.Publish(FanStatusChangedEvent{Status: "Auto Mode (BIOS Control)"})

	// THEN
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 90, received[0].Percent)
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	bus.Publish(FanModeChangedEvent{Mode: "Auto"})
	unsub := bus.Subscribe(func(e FanModeChangedEvent) {})
	unsub()
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(s string) {})
	assert.NotNil(t, unsub)
	unsub()
}
