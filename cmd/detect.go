package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tuf2go/tuf2go/cmd/global"
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/fans"
	"github.com/tuf2go/tuf2go/internal/hwmon"
	"github.com/tuf2go/tuf2go/internal/ui"
	"github.com/tuf2go/tuf2go/internal/util"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all fans, sensors and control interfaces and prints them as a list`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := global.LoadValidConfig()
		fs := afero.NewOsFs()

		for _, chip := range hwmon.GetChips(fs) {
			if len(chip.Name) <= 0 {
				continue
			}

			title := chip.Name
			if chip.IsAsusWmi() {
				title += " (asus wmi)"
			}
			ui.Printfln("> %s", title)

			var fanRows [][]string
			for _, input := range chip.Fans {
				fanRows = append(fanRows, []string{"", strconv.Itoa(input.Index), input.Label, formatValue(input.Value)})
			}
			var sensorRows [][]string
			for _, input := range chip.Temps {
				_, file := filepath.Split(input.Input)
				sensorRows = append(sensorRows, []string{"", strconv.Itoa(input.Index), fmt.Sprintf("%s (%s)", input.Label, file), formatValue(input.Value)})
			}
			var pwmRows [][]string
			for idx, pwm := range chip.Pwms {
				pwmRows = append(pwmRows, []string{"", strconv.Itoa(idx + 1), pwm})
			}

			printTables([]detectTable{
				{headers: []string{"Fans   ", "Index", "Label", "RPM"}, rows: fanRows},
				{headers: []string{"Sensors", "Index", "Label", "Value"}, rows: sensorRows},
				{headers: []string{"PWM    ", "Index", "Output"}, rows: pwmRows},
			})
		}

		printControlInterfaces(fs, config)
	},
}

type detectTable struct {
	headers []string
	rows    [][]string
}

func printTables(tables []detectTable) {
	for idx, tab := range tables {
		if tab.rows == nil {
			continue
		}
		tableString, err := global.RenderTable(tab.headers, tab.rows)
		if err != nil {
			ui.Fatal("Error printing table: %v", err)
		}
		if idx < (len(tables) - 1) {
			ui.Printf("%s", tableString)
		} else {
			ui.Printfln(tableString)
		}
	}
}

// printControlInterfaces lists the interfaces used by the engines without changing any of them
func printControlInterfaces(fs afero.Fs, config configuration.Configuration) {
	capability := fans.Detect(fs, util.NewAcpiCall(fs, config.Fan.AcpiCallPath), config.Fan)

	yesNo := func(ok bool) string {
		if ok {
			return "yes"
		}
		return "no"
	}
	firstOf := func(paths []string) string {
		if path, ok := util.FirstExisting(fs, paths...); ok {
			return path
		}
		return "-"
	}

	var thresholdPaths []string
	for _, name := range config.Battery.Batteries {
		thresholdPaths = append(thresholdPaths, filepath.Join(config.Battery.PowerSupplyPath, name, "charge_control_end_threshold"))
	}

	rows := [][]string{
		{"", "Fan", "ACPI", yesNo(capability.HasAcpi())},
		{"", "Fan", "Thermal policy", yesNo(capability.HasThermalPolicy())},
		{"", "Fan", "PWM", yesNo(capability.HasPwm())},
		{"", "Fan", "ec_probe", yesNo(capability.HasEcProbe())},
		{"", "Lighting", "Native", yesNo(util.FileExists(fs, config.Lighting.LedPath))},
		{"", "Lighting", "asusctl", firstOf(config.Lighting.VendorCliPaths)},
		{"", "Lighting", "rogauracore", firstOf(config.Lighting.CommunityCliPaths)},
		{"", "Battery", "Threshold", firstOf(thresholdPaths)},
	}

	ui.Printfln("> Control interfaces")
	printTables([]detectTable{
		{headers: []string{"Control", "Subsystem", "Interface", "Available"}, rows: rows},
	})
}

func formatValue(value float64) string {
	if value < 0 {
		return "N/A"
	}
	return strconv.Itoa(int(value))
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
