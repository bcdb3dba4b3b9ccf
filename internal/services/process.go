package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/tuf2go/tuf2go/internal/ui"
)

// ProcessKiller terminates processes competing for the same hardware
type ProcessKiller interface {
	// KillByName kills all processes with the given name and returns how many were killed
	KillByName(ctx context.Context, name string) (int, error)
}

// GopsutilKiller matches processes by their name or the executable of their command line
type GopsutilKiller struct{}

func (k GopsutilKiller) KillByName(ctx context.Context, name string) (int, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return 0, err
	}

	self := int32(os.Getpid())
	killed := 0
	for _, p := range processes {
		if p.Pid == self || !matchesProcess(ctx, p, name) {
			continue
		}
		if err := p.KillWithContext(ctx); err != nil {
			ui.Debug("Unable to kill %s (pid %d): %v", name, p.Pid, err)
			continue
		}
		ui.Info("Killed competing process %s (pid %d)", name, p.Pid)
		killed++
	}
	return killed, nil
}

func matchesProcess(ctx context.Context, p *process.Process, name string) bool {
	if processName, err := p.NameWithContext(ctx); err == nil && processName == name {
		return true
	}
	args, err := p.CmdlineSliceWithContext(ctx)
	if err != nil || len(args) <= 0 {
		return false
	}
	return MatchesCommandLine(args, name)
}

// MatchesCommandLine reports whether the executable of a command line is called name
func MatchesCommandLine(args []string, name string) bool {
	if len(args) <= 0 {
		return false
	}
	executable := strings.TrimSpace(args[0])
	return filepath.Base(executable) == name
}
