package curve

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/sensors"
	"github.com/tuf2go/tuf2go/internal/thermal"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var Command = &cobra.Command{
	Use:              "curve",
	Short:            "Thermal curve related commands",
	Long:             `Without a subcommand the current curve settings are printed.`,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := getEngine()
		defer engine.Close()
		printConfig(engine)
		return nil
	},
}

// getEngine creates a curve engine on the persisted settings. Changes are saved and picked up
// by the daemon on its next start.
func getEngine() *thermal.Engine {
	config := global.LoadValidConfig()
	fs := afero.NewOsFs()
	return thermal.NewEngine(config.ThermalCurve, fs, sensors.NewCpuTemperature(fs, config.Sensors), global.OpenStore(config), nil)
}

func printConfig(engine *thermal.Engine) {
	config := engine.Config()
	ui.Printfln("Enabled:     %v", config.Enabled)
	ui.Printfln("Mode:        %s", engine.CurrentMode())
	ui.Printfln("Silent:      <= %d°C", config.SilentThreshold)
	ui.Printfln("Balanced:    <= %d°C", config.BalancedThreshold)
	ui.Printfln("Temperature: %.1f°C", engine.CurrentTemperature())
}
