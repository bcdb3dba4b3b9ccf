package fan

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the detected fan control interfaces and the selected backend",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := getEngine()
		capability := engine.Capability()

		orNone := func(value string) string {
			if len(value) <= 0 {
				return "-"
			}
			return value
		}

		data := pterm.TableData{
			{"Interface", "Value"},
			{"Backend", engine.Backend().String()},
			{"Status", engine.Status()},
			{"acpi_call", fmt.Sprintf("%v", capability.AcpiCallAvailable)},
			{"ACPI methods", orNone(strings.Join(capability.AcpiPaths, ", "))},
			{"Thermal policy", orNone(capability.ThermalPolicyPath)},
			{"WMI hwmon", orNone(capability.WmiHwmonPath)},
			{"PWM", orNone(capability.PwmHwmonPath)},
			{"ec_probe", orNone(capability.EcProbePath)},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	Command.AddCommand(statusCmd)
}
