package lighting

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/lighting"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <mode> <color>",
	Short: "Hand the keyboard back to asusd, configured to the given mode and color",
	Long:  `Mode is one of Static, Breathing, Rainbow, Pulsing.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := lighting.ParseMode(args[0])
		if err != nil {
			return err
		}
		return withEngine(func(engine *lighting.Engine) error {
			if err := engine.RestoreServices(context.Background(), mode, args[1]); err != nil {
				return err
			}
			ui.Success("Restored asusd with %s %s", mode, lighting.FormatColor(args[1]))
			return nil
		})
	},
}

func init() {
	Command.AddCommand(restoreCmd)
}
