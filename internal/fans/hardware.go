package fans

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

// hardware performs the low level reads and writes of all backends and counts successful writes.
// It is only used while holding the engine lock.
type hardware struct {
	fs     afero.Fs
	guard  util.PathGuard
	acpi   util.AcpiCaller
	runner util.Runner
	ec     configuration.EcProbeConfig

	writes int
}

func (h *hardware) readInt(path string) (int, bool) {
	value, err := util.ReadIntFromFile(h.fs, path)
	if err != nil {
		ui.Debug("Unable to read %s: %v", path, err)
		return 0, false
	}
	return value, true
}

func (h *hardware) writeInt(path string, value int) bool {
	if err := h.guard.Check(path); err != nil {
		ui.Warning("Blocked write of %d: %v", value, err)
		return false
	}
	if err := util.WriteIntToFile(h.fs, value, path); err != nil {
		ui.Debug("Unable to write %d to %s: %v", value, path, err)
		return false
	}
	h.writes++
	return true
}

func (h *hardware) callAcpi(command string) bool {
	if h.acpi == nil {
		return false
	}
	response := h.acpi.Call(command)
	if !util.AcpiResponseOk(response) {
		ui.Debug("ACPI call '%s' failed: %s", command, response)
		return false
	}
	h.writes++
	return true
}

// writeEcRegister runs "ec_probe write <reg> <value>", success is a zero exit code within the timeout
func (h *hardware) writeEcRegister(register int, value int) bool {
	if h.runner == nil {
		return false
	}
	timeout := h.ec.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	_, err := h.runner.Run(context.Background(), timeout, h.ec.Path, "write", strconv.Itoa(register), strconv.Itoa(value))
	if err != nil {
		ui.Debug("ec_probe write %d %d failed: %v", register, value, err)
		return false
	}
	h.writes++
	return true
}
