package lighting

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/internal/lighting"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var staticCmd = &cobra.Command{
	Use:   "static <color>",
	Short: "Set a static keyboard color, e.g. ff8800",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(engine *lighting.Engine) error {
			if !engine.SetStatic(args[0]) {
				return errUnavailable
			}
			printState(engine)
			return nil
		})
	},
}

var breathingCmd = &cobra.Command{
	Use:   "breathing <color> <speed>",
	Short: "Let the keyboard breathe in the given color, speed is one of 1, 2, 3",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := parseSpeed(args[1])
		if err != nil {
			return err
		}
		return withEngine(func(engine *lighting.Engine) error {
			if !engine.SetBreathing(args[0], speed) {
				return errUnavailable
			}
			printState(engine)
			return nil
		})
	},
}

var rainbowCmd = &cobra.Command{
	Use:   "rainbow <speed>",
	Short: "Cycle through all colors, speed is one of 1, 2, 3",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := parseSpeed(args[0])
		if err != nil {
			return err
		}
		return withEngine(func(engine *lighting.Engine) error {
			if !engine.SetRainbow(speed) {
				return errUnavailable
			}
			printState(engine)
			return nil
		})
	},
}

var pulsingCmd = &cobra.Command{
	Use:   "pulsing <color> <speed>",
	Short: "Pulse the keyboard in the given color, speed is one of 1, 2, 3",
	Long: `Uses the pulse effect of asusctl if available. Other backends are
strobed in software, in which case the command runs until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := parseSpeed(args[1])
		if err != nil {
			return err
		}
		return withEngine(func(engine *lighting.Engine) error {
			if !engine.SetPulsing(args[0], speed) {
				return errUnavailable
			}
			printState(engine)
			if engine.IsStrobing() {
				ui.Info("Pulsing every %s, press Ctrl+C to stop", engine.StrobeInterval())
				waitForSignal()
			}
			return nil
		})
	},
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	<-sig
}

func init() {
	Command.AddCommand(staticCmd)
	Command.AddCommand(breathingCmd)
	Command.AddCommand(rainbowCmd)
	Command.AddCommand(pulsingCmd)
}
