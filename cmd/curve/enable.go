package curve

import (
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable the thermal curve and apply it once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the thermal curve, the last written policy stays active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(false)
	},
}

func setEnabled(enabled bool) error {
	engine := getEngine()
	defer engine.Close()
	engine.SetEnabled(enabled)
	printConfig(engine)
	return nil
}

func init() {
	Command.AddCommand(enableCmd)
	Command.AddCommand(disableCmd)
}
