package battery

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/battery"
	"github.com/tuf2go/tuf2go/internal/util"
)

var Command = &cobra.Command{
	Use:              "battery",
	Short:            "Battery charge limit related commands",
	Long:             ``,
	TraverseChildren: true,
}

func getController() *battery.Controller {
	config := global.LoadValidConfig()
	// requests are applied synchronously, the process exits right after
	config.Battery.Debounce = 0
	return battery.NewController(config.Battery, afero.NewOsFs(), util.NewExecRunner(), global.OpenStore(config), nil)
}
