package util

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tuf2go/tuf2go/internal/ui"
)

// Runner executes external tools.
//
// Run is used for short synchronous steps like detection and verification and always
// has a bounded wait. Start is used for command dispatch: the process is detached and
// never waited for.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, executable string, args ...string) (string, error)
	Start(executable string, args ...string) error
}

type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, executable string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		ui.Debug("Command timed out: %s %s", executable, strings.Join(args, " "))
		return "", fmt.Errorf("%s timed out after %s", executable, timeout)
	}
	if err != nil {
		ui.Debug("Command failed: %s %s: %v", executable, strings.Join(args, " "), err)
		return "", err
	}

	return strings.Trim(string(out), "\n"), nil
}

func (r *ExecRunner) Start(executable string, args ...string) error {
	cmd := exec.Command(executable, args...)
	if err := cmd.Start(); err != nil {
		ui.Debug("Cannot start %s: %v", executable, err)
		return err
	}
	// reap the child in the background, nobody waits for its result
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
