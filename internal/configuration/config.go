package configuration

import (
	"errors"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/tuf2go/tuf2go/internal/ui"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	Fan          FanConfig          `json:"fan"`
	Lighting     LightingConfig     `json:"lighting"`
	ThermalCurve ThermalCurveConfig `json:"thermalCurve"`
	Battery      BatteryConfig      `json:"battery"`
	Sensors      SensorsConfig      `json:"sensors"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("tuf2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/tuf2go/")
	}

	viper.SetEnvPrefix("tuf2go")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues(viper.GetViper())
}

// DetectAndReadConfigFile reads the config file if there is one and returns its path.
// A missing config file is fine, all values have sane defaults.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			ui.Debug("No config file found, using defaults")
			return ""
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, decodeHook())
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
