package fan

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/sensors"
	"github.com/tuf2go/tuf2go/internal/util"
)

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

// liveRpm reads the fan speed on every call, there is no monitor caching it in the cli
type liveRpm struct {
	reader sensors.FanRpmReader
}

func (r liveRpm) CachedCpuRpm() int {
	return r.reader.CpuFanRpm()
}

func newRpmReader(fs afero.Fs, config configuration.Configuration) sensors.FanRpmReader {
	return sensors.NewFanRpmReader(fs, config.Fan.PlatformPath, config.Sensors.HwmonPath)
}

func getEngine() *fans.Engine {
	config := global.LoadValidConfig()
	fs := afero.NewOsFs()
	acpi := util.NewAcpiCall(fs, config.Fan.AcpiCallPath)
	return fans.NewEngine(config.Fan, fs, acpi, util.NewExecRunner(), liveRpm{reader: newRpmReader(fs, config)}, nil)
}
