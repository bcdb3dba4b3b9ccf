package fan

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
)

var rpmCmd = &cobra.Command{
	Use:   "rpm",
	Short: "Get the current RPM reading of the cpu and gpu fan",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		config := global.LoadValidConfig()
		reader := newRpmReader(afero.NewOsFs(), config)

		fmt.Printf("cpu: %d\ngpu: %d\n", reader.CpuFanRpm(), reader.GpuFanRpm())
		return nil
	},
}

func init() {
	Command.AddCommand(rpmCmd)
}
