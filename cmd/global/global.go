package global

import (
	"github.com/tuf2go/tuf2go/internal/configuration"
	"github.com/tuf2go/tuf2go/internal/persistence"
	"github.com/tuf2go/tuf2go/internal/ui"
)

var (
	CfgFile string
	NoColor bool
	NoStyle bool
	Verbose bool
)

// LoadValidConfig reads the configuration file and exits if it is invalid
func LoadValidConfig() configuration.Configuration {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Debug("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.Fatal("Config Validation Error: %v", err)
	}
	return configuration.CurrentConfig
}

// OpenStore returns the settings store, nil if it cannot be used
func OpenStore(config configuration.Configuration) persistence.SettingsStore {
	store := persistence.NewPersistence(config.DbPath)
	if err := store.Init(); err != nil {
		ui.Warning("Settings will not be saved: %v", err)
		return nil
	}
	return store
}
