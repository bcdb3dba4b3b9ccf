package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/ui"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tuf2go",
	Long:  `All software has versions. This is tuf2go's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln(version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
