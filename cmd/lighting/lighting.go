package lighting

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/lighting"
	"github.com/tuf2go/tuf2go/internal/services"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

var errUnavailable = errors.New("keyboard lighting is not available")

var Command = &cobra.Command{
	Use:              "lighting",
	Short:            "Keyboard lighting related commands",
	Long:             ``,
	TraverseChildren: true,
}

// withEngine detects the lighting backend and runs fn once detection finished
func withEngine(fn func(engine *lighting.Engine) error) error {
	config := global.LoadValidConfig()
	if !config.Lighting.Enabled {
		return errors.New("lighting control is disabled in the configuration")
	}

	runner := util.NewExecRunner()
	serviceManager := services.NewServiceManager(context.Background(), runner, config.Lighting.InitTimeout)
	defer serviceManager.Close()

	engine := lighting.NewEngine(config.Lighting, afero.NewOsFs(), runner, serviceManager, services.GopsutilKiller{}, global.OpenStore(config), nil)
	defer engine.Close()

	engine.Detect()
	if !engine.DrainDetection(2 * config.Lighting.InitTimeout) {
		return errors.New("lighting detection did not finish in time")
	}
	return fn(engine)
}

func parseSpeed(arg string) (int, error) {
	speed, err := strconv.Atoi(arg)
	if err != nil {
		return 0, err
	}
	if speed < lighting.MinSpeed || speed > lighting.MaxSpeed {
		return 0, fmt.Errorf("speed must be in [%d..%d], got %d", lighting.MinSpeed, lighting.MaxSpeed, speed)
	}
	return speed, nil
}

func printState(engine *lighting.Engine) {
	state := engine.State()
	ui.Success("%s %s (speed %d) via %s", state.Mode, state.Color, state.Speed, engine.Backend())
}
