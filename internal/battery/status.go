package battery

import (
	"path/filepath"

	"github.com/tuf2go/tuf2go/internal/util"
)

type Status struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	State    string `json:"state"`
	Charging bool   `json:"charging"`
}

// Status reads capacity and charging state of the first configured battery that exists
func (c *Controller) Status() (Status, bool) {
	for _, name := range c.config.Batteries {
		dir := filepath.Join(c.config.PowerSupplyPath, name)
		capacityPath := filepath.Join(dir, capacityFile)
		if !util.FileExists(c.fs, capacityPath) {
			continue
		}
		status := Status{Name: name, Capacity: -1}
		if capacity, err := util.ReadIntFromFile(c.fs, capacityPath); err == nil {
			status.Capacity = capacity
		}
		if state, err := util.ReadStringFromFile(c.fs, filepath.Join(dir, statusFile)); err == nil {
			status.State = state
			status.Charging = state == "Charging"
		}
		return status, true
	}
	return Status{}, false
}
