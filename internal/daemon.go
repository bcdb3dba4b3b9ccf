package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/api"
	"github.com/tuf2go/tuf2go/internal/battery"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/events"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/lighting"
	"github.com/tuf2go/tuf2go/internal/persistence"
	"github.com/tuf2go/tuf2go/internal/sensors"
	"github.com/tuf2go/tuf2go/internal/services"
	"github.com/tuf2go/tuf2go/internal/statistics"
	"github.com/tuf2go/tuf2go/internal/thermal"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

const shutdownTimeout = 5 * time.Second

// Daemon holds the engines of a running instance. Lighting and Battery are nil when disabled.
type Daemon struct {
	Config   configuration.Configuration
	Bus      *events.Bus
	Readings *sensors.Readings
	Monitor  *sensors.Monitor
	Fan      *fans.Engine
	Lighting *lighting.Engine
	Thermal  *thermal.Engine
	Battery  *battery.Controller

	services      *services.FallbackManager
	unsubscribers []func()
}

// NewDaemon creates all engines. Nothing is started except the timers the engines own.
func NewDaemon(ctx context.Context, config configuration.Configuration, fs afero.Fs, runner util.Runner, acpi util.AcpiCaller, store persistence.SettingsStore) *Daemon {
	d := &Daemon{
		Config:   config,
		Bus:      events.New(),
		Readings: sensors.NewReadings(),
	}
	d.subscribe()

	cpuTemp := sensors.NewCpuTemperature(fs, config.Sensors)
	d.Monitor = sensors.NewMonitor(
		d.Readings,
		config.Sensors.PollingRate,
		config.Sensors.RollingWindowSize,
		cpuTemp,
		sensors.NewGpuTemperature(fs, runner, config.Sensors),
		sensors.NewFanRpmReader(fs, config.Fan.PlatformPath, config.Sensors.HwmonPath),
	)
	d.Monitor.Poll()

	d.Fan = fans.NewEngine(config.Fan, fs, acpi, runner, d.Monitor, d.Bus)
	d.Thermal = thermal.NewEngine(config.ThermalCurve, fs, cpuTemp, store, d.Bus)

	if config.Lighting.Enabled {
		d.services = services.NewServiceManager(ctx, runner, config.Lighting.InitTimeout)
		d.Lighting = lighting.NewEngine(config.Lighting, fs, runner, d.services, services.GopsutilKiller{}, store, d.Bus)
	}
	if config.Battery.Enabled {
		d.Battery = battery.NewController(config.Battery, fs, runner, store, d.Bus)
	}
	return d
}

func (d *Daemon) subscribe() {
	d.unsubscribers = append(d.unsubscribers,
		d.Bus.Subscribe(func(e events.ThermalPolicyChangedEvent) {
			ui.Debug("Thermal policy changed to %d at %.1f°C", e.Policy, e.Temperature)
		}),
		d.Bus.Subscribe(func(e events.ChargeLimitEnforcedEvent) {
			ui.Info("Charge limit was changed externally to %d%%, restored %d%%", e.Was, e.Limit)
		}),
	)
}

// Components returns the engines as served by the REST api
func (d *Daemon) Components() api.Components {
	return api.Components{
		Fan:      d.Fan,
		Lighting: d.Lighting,
		Thermal:  d.Thermal,
		Battery:  d.Battery,
		Readings: d.Readings,
	}
}

// RegisterCollectors registers a prometheus collector for every engine
func (d *Daemon) RegisterCollectors(registerer prometheus.Registerer) {
	collectors := []prometheus.Collector{
		statistics.NewSensorCollector(d.Readings),
		statistics.NewFanCollector(d.Fan),
		statistics.NewThermalCollector(d.Thermal),
	}
	if d.Lighting != nil {
		collectors = append(collectors, statistics.NewLightingCollector(d.Lighting))
	}
	if d.Battery != nil {
		collectors = append(collectors, statistics.NewBatteryCollector(d.Battery))
	}
	for _, collector := range collectors {
		registerer.MustRegister(collector)
	}
}

// Close stops all engines. The fan engine hands control back to the firmware.
func (d *Daemon) Close() {
	d.Fan.Close()
	d.Thermal.Close()
	if d.Lighting != nil {
		d.Lighting.Close()
	}
	if d.Battery != nil {
		d.Battery.Close()
	}
	if d.services != nil {
		d.services.Close()
	}
	for _, unsubscribe := range d.unsubscribers {
		unsubscribe()
	}
}

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Fatal("Hardware control requires root permissions, please run tuf2go as root")
	}

	config := configuration.CurrentConfig

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Fatal("Unable to initialize persistence at %s: %v", config.DbPath, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fs := afero.NewOsFs()
	daemon := NewDaemon(ctx, config, fs, util.NewExecRunner(), util.NewAcpiCall(fs, config.Fan.AcpiCallPath), pers)

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			daemon.RegisterCollectors(prometheus.DefaultRegisterer)

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", config.Statistics.Port),
				Handler: promhttp.Handler(),
			}
			g.Add(func() error {
				ui.Info("Serving metrics at %s/metrics", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := server.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				}
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST api
			rest := api.CreateRestService(daemon.Components())
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)
			g.Add(func() error {
				ui.Info("Serving REST api at %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("cannot start REST api: %w", err)
				}
				return nil
			}, func(err error) {
				stopRest(rest)
			})
		}
	}
	{
		// === sensor monitoring
		g.Add(func() error {
			return daemon.Monitor.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	{
		if daemon.Lighting != nil {
			// === lighting detection
			daemon.Lighting.Detect()
			g.Add(func() error {
				err := daemon.Lighting.Run(ctx)
				ui.Info("Lighting engine stopped.")
				return err
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		if daemon.Battery != nil {
			// === charge limit enforcement
			g.Add(func() error {
				err := daemon.Battery.Run(ctx)
				ui.Info("Charge limit controller stopped.")
				return err
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %s signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	err := g.Run()
	daemon.Close()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

func stopRest(rest *echo.Echo) {
	ui.Info("Stopping REST api...")
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()
	if err := rest.Shutdown(timeoutCtx); err != nil {
		ui.Warning("Error stopping REST api: %v", err)
	}
}
