package sensor

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/sensors"
	"github.com/tuf2go/tuf2go/internal/util"
)

var sensorId string

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current temperature and fan readings",
	Long: `Prints all readings, or only the value of the reading given by --id
(one of cpu_temp, gpu_temp, cpu_fan_rpm, gpu_fan_rpm).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		config := global.LoadValidConfig()
		fs := afero.NewOsFs()

		readings := sensors.NewReadings()
		monitor := sensors.NewMonitor(
			readings,
			config.Sensors.PollingRate,
			1,
			sensors.NewCpuTemperature(fs, config.Sensors),
			sensors.NewGpuTemperature(fs, util.NewExecRunner(), config.Sensors),
			sensors.NewFanRpmReader(fs, config.Fan.PlatformPath, config.Sensors.HwmonPath),
		)
		monitor.Poll()

		if len(sensorId) > 0 {
			reading, ok := readings.Get(sensorId)
			if !ok {
				return fmt.Errorf("no reading with id found: %s, options: %v", sensorId, readings.Ids())
			}
			fmt.Printf("%d", int(reading.Value))
			return nil
		}

		for _, id := range readings.Ids() {
			reading, _ := readings.Get(id)
			fmt.Printf("%s: %d\n", id, int(reading.Value))
		}
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Reading id",
	)
}
