package curve

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/thermal"
	"github.com/tuf2go/tuf2go/internal/ui"
)

const (
	graphMinTemperature = 20
	graphMaxTemperature = 100
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the threshold presets and the curve they result in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for idx, preset := range thermal.Presets() {
			if idx > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}

			tableString, err := global.RenderTable(
				[]string{"Preset", "Silent", "Balanced"},
				[][]string{{preset.Name, fmt.Sprintf("<= %d°C", preset.SilentThreshold), fmt.Sprintf("<= %d°C", preset.BalancedThreshold)}},
			)
			if err != nil {
				return err
			}
			ui.Printfln(tableString)

			values := curveLevels(preset.SilentThreshold, preset.BalancedThreshold)
			caption := fmt.Sprintf("%s: 0 = Silent, 1 = Balanced, 2 = Turbo (%d..%d°C)", preset.Name, graphMinTemperature, graphMaxTemperature)
			graph := asciigraph.Plot(values, asciigraph.Height(6), asciigraph.Width(graphMaxTemperature-graphMinTemperature), asciigraph.Caption(caption))
			ui.Printfln(graph)
		}
		return nil
	},
}

// curveLevels samples the curve for every degree, ordered by fan intensity
func curveLevels(silent int, balanced int) []float64 {
	values := make([]float64, 0, graphMaxTemperature-graphMinTemperature+1)
	for temperature := graphMinTemperature; temperature <= graphMaxTemperature; temperature++ {
		values = append(values, policyLevel(thermal.Classify(float64(temperature), silent, balanced)))
	}
	return values
}

func policyLevel(policy fans.Policy) float64 {
	switch policy {
	case fans.PolicySilent:
		return 0
	case fans.PolicyBalanced:
		return 1
	default:
		return 2
	}
}

func init() {
	Command.AddCommand(listCmd)
}
