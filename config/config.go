package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config.toml"

// Config holds all application configuration
type Config struct {
	Station   StationConfig   `toml:"station"`
	Interface InterfaceConfig `toml:"interface"`
	Radio     RadioConfig     `toml:"radio"`
	Map       MapConfig       `toml:"map"`
	Log       LogConfig       `toml:"log"`
	Web       WebConfig       `toml:"web"`
}

// StationConfig holds settings specific to the user's station
type StationConfig struct {
	Callsign   string `toml:"callsign"`
	Passcode   int    `toml:"passcode"`
	GridSquare string `toml:"gridsquare"`
}

// InterfaceConfig selects where AX.25 frames come from.
type InterfaceConfig struct {
	Type   string `toml:"type"`   // KISS or APRSIS
	Device string `toml:"device"` // Serial port path or host:port for KISS
	Baud   int    `toml:"baud"`
	Server string `toml:"server"` // APRS-IS host:port
	Radius int    `toml:"radius"` // APRS-IS range filter, km
}

// RadioConfig describes the receiver the TNC is attached to.
type RadioConfig struct {
	Frequency int64  `toml:"frequency"` // Dial frequency, Hz
	BandPlan  string `toml:"bandplan"`  // YAML band plan; empty for the built-in one
}

// MapConfig holds map-specific settings
type MapConfig struct {
	DefaultZoom float64 `toml:"defaultzoom"`
	Shapefile   string  `toml:"shapefile"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// WebConfig enables the websocket feed and /metrics.
type WebConfig struct {
	Listen string `toml:"listen"` // Empty disables the web server
}

// Default returns the configuration used for anything config.toml leaves out.
func Default() Config {
	return Config{
		Interface: InterfaceConfig{
			Type:   "KISS",
			Baud:   9600,
			Server: "rotate.aprs.net:14580",
			Radius: 200,
		},
		Radio: RadioConfig{
			Frequency: 144390000,
		},
		Map: MapConfig{
			Shapefile: "mapdata/ne_10m_admin_1_states_provinces.shp",
		},
		Log: LogConfig{
			Level: "info",
			File:  "aprsmap.log",
		},
	}
}

// Load reads the configuration from path, on top of Default.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}

	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, err
	}

	return conf, nil
}
