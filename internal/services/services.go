package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

// ServiceManager stops and starts system services competing for the same hardware
type ServiceManager interface {
	// Stop stops the unit and waits for the stop job to finish
	Stop(ctx context.Context, unit string) error
	// Start starts the unit without waiting for it to come up
	Start(ctx context.Context, unit string) error
}

// SystemdManager controls units through the systemd D-Bus API of the system bus
type SystemdManager struct {
	conn *dbus.Conn
}

func NewSystemdManager(ctx context.Context) (*SystemdManager, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return &SystemdManager{conn: conn}, nil
}

func (m *SystemdManager) Stop(ctx context.Context, unit string) error {
	result := make(chan string, 1)
	if _, err := m.conn.StopUnitContext(ctx, unit, "replace", result); err != nil {
		return err
	}
	select {
	case status := <-result:
		if status != "done" {
			return fmt.Errorf("stop job of %s finished with status '%s'", unit, status)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *SystemdManager) Start(ctx context.Context, unit string) error {
	_, err := m.conn.StartUnitContext(ctx, unit, "replace", nil)
	return err
}

func (m *SystemdManager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}

// CommandManager controls units by running systemctl
type CommandManager struct {
	Runner  util.Runner
	Timeout time.Duration
}

func (m *CommandManager) Stop(ctx context.Context, unit string) error {
	_, err := m.Runner.Run(ctx, m.Timeout, "systemctl", "stop", unit)
	return err
}

func (m *CommandManager) Start(ctx context.Context, unit string) error {
	return m.Runner.Start("systemctl", "start", unit)
}

// FallbackManager uses Primary and retries with Fallback when Primary is missing or fails
type FallbackManager struct {
	Primary  ServiceManager
	Fallback ServiceManager
}

// NewServiceManager connects to systemd and falls back to running systemctl
func NewServiceManager(ctx context.Context, runner util.Runner, timeout time.Duration) *FallbackManager {
	manager := &FallbackManager{
		Fallback: &CommandManager{Runner: runner, Timeout: timeout},
	}
	systemd, err := NewSystemdManager(ctx)
	if err != nil {
		ui.Debug("Unable to connect to systemd, falling back to systemctl: %v", err)
	} else {
		manager.Primary = systemd
	}
	return manager
}

func (m *FallbackManager) Stop(ctx context.Context, unit string) error {
	return m.do(ctx, unit, ServiceManager.Stop)
}

func (m *FallbackManager) Start(ctx context.Context, unit string) error {
	return m.do(ctx, unit, ServiceManager.Start)
}

func (m *FallbackManager) do(ctx context.Context, unit string, action func(ServiceManager, context.Context, string) error) error {
	var primaryErr error
	if m.Primary != nil {
		primaryErr = action(m.Primary, ctx, unit)
		if primaryErr == nil {
			return nil
		}
		ui.Debug("systemd D-Bus call for %s failed: %v", unit, primaryErr)
	}
	if m.Fallback == nil {
		return primaryErr
	}
	if err := action(m.Fallback, ctx, unit); err != nil {
		return errors.Join(primaryErr, err)
	}
	return nil
}

// Close releases the D-Bus connection, if any
func (m *FallbackManager) Close() {
	if systemd, ok := m.Primary.(*SystemdManager); ok {
		systemd.Close()
	}
}
