package fan

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var speedCmd = &cobra.Command{
	Use:   "speed <percent>",
	Short: "Set the fan speed in percent ([0..100]), switching to manual mode",
	Long: `Applies the speed once through the best available interface.
Keeping the speed against the firmware requires the daemon.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		percent, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		if percent < 0 || percent > 100 {
			return fmt.Errorf("speed must be in [0..100], got %d", percent)
		}

		engine := getEngine()
		if !engine.SetFanSpeed(percent) {
			return fmt.Errorf("unable to set fan speed: %s", engine.Status())
		}

		ui.Success("%s", engine.Status())
		if engine.Backend() == fans.BackendThermalPolicy {
			ui.Info("%s", fans.PolicyForPercent(percent).Description())
		}
		return nil
	},
}

func init() {
	Command.AddCommand(speedCmd)
}
