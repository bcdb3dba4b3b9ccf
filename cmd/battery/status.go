package battery

import (
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print battery charge and the active charge limit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := getController()
		defer controller.Close()

		status, ok := controller.Status()
		if !ok {
			ui.Warning("No battery found")
		} else {
			ui.Printfln("Battery:      %s", status.Name)
			ui.Printfln("Capacity:     %d%%", status.Capacity)
			ui.Printfln("State:        %s", status.State)
		}
		ui.Printfln("Charge limit: %d%%", controller.KernelLimit())
		return nil
	},
}

func init() {
	Command.AddCommand(statusCmd)
}
