package sensors

import (
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/qdm12/reprint"
	"github.com/tuf2go/tuf2go/internal/util"
)

// Reading is the last known value of a sensor
type Reading struct {
	Id        string  `json:"id"`
	Value     float64 `json:"value"`
	MovingAvg float64 `json:"movingAvg"`
	// Updated is the unix time in milliseconds of the last update
	Updated int64 `json:"updated"`
}

// Readings is a concurrency safe cache of sensor readings, keyed by sensor id
type Readings struct {
	items cmap.ConcurrentMap[string, Reading]
}

func NewReadings() *Readings {
	return &Readings{
		items: cmap.New[Reading](),
	}
}

func (r *Readings) Set(reading Reading) {
	r.items.Set(reading.Id, reading)
}

func (r *Readings) Remove(id string) {
	r.items.Remove(id)
}

func (r *Readings) Get(id string) (Reading, bool) {
	return r.items.Get(id)
}

// Ids returns all known sensor ids in sorted order
func (r *Readings) Ids() []string {
	return util.SortedKeys(r.items.Items())
}

// Snapshot returns a deep copy of all readings
func (r *Readings) Snapshot() map[string]Reading {
	return reprint.This(r.items.Items()).(map[string]Reading)
}
