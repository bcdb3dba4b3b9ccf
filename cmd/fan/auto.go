package fan

import (
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Hand fan control back to the firmware",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := getEngine()
		engine.EnableAutoMode()
		ui.Success("%s", engine.Status())
		return nil
	},
}

func init() {
	Command.AddCommand(autoCmd)
}
