package lighting

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/lighting"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var brightnessCmd = &cobra.Command{
	Use:   "brightness [level]",
	Short: "Get/Set the keyboard backlight brightness ([0..3])",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := -1
		if len(args) > 0 {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			if value < 0 || value > lighting.MaxBrightness {
				return fmt.Errorf("brightness must be in [0..%d], got %d", lighting.MaxBrightness, value)
			}
			level = value
		}

		return withEngine(func(engine *lighting.Engine) error {
			if level >= 0 && !engine.SetBrightness(level) {
				return errUnavailable
			}
			ui.Printfln("%d", engine.Brightness())
			return nil
		})
	},
}

func init() {
	Command.AddCommand(brightnessCmd)
}
