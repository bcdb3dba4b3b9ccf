package curve

import (
	"strconv"

	"github.com/spf13/cobra"
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds <silent> <balanced>",
	Short: "Set the upper temperature of the silent and the balanced policy in °C",
	Long: `Silent is clamped to [30..80], balanced to [40..95]. Balanced is kept
at least 5°C above silent, adjusting the other bound if necessary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		silent, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		balanced, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}

		engine := getEngine()
		defer engine.Close()
		engine.SetSilentThreshold(silent)
		engine.SetBalancedThreshold(balanced)
		printConfig(engine)
		return nil
	},
}

var presetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Apply a named threshold preset, see 'curve list'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := getEngine()
		defer engine.Close()
		if err := engine.ApplyPreset(args[0]); err != nil {
			return err
		}
		printConfig(engine)
		return nil
	},
}

func init() {
	Command.AddCommand(thresholdsCmd)
	Command.AddCommand(presetCmd)
}
