package battery

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/battery"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var limitCmd = &cobra.Command{
	Use:   "limit <percent>",
	Short: "Set the battery charge limit in percent ([60..100])",
	Long: `Applies the limit through asusctl if available, otherwise through sysfs,
and stores it so it is restored on the next start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		if limit < battery.MinChargeLimit || limit > battery.MaxChargeLimit {
			ui.Warning("Charge limit %d%% is out of range, using the closest valid value", limit)
		}

		controller := getController()
		defer controller.Close()
		if !controller.IsAvailable() {
			return errors.New("no battery charge threshold available")
		}

		controller.SetChargeLimit(limit)
		if controller.LastMethod() == "" {
			return fmt.Errorf("unable to apply charge limit %d%%", controller.Limit())
		}
		ui.Success("Charge limit set to %d%% (%s)", controller.Limit(), controller.LastMethod())
		return nil
	},
}

func init() {
	Command.AddCommand(limitCmd)
}
