package hand

import (
	"encoding/json"
	"os"
)

const DefaultConfigFile = "handctl.json"

// Config holds the hand configuration
type Config struct {
	Port         string            `json:"port"`
	Baud         int               `json:"baud"`
	SampleHz     float64           `json:"sample_hz"`
	LogDir       string            `json:"log_dir"`
	DefaultSpeed int               `json:"default_speed"`
	DefaultForce int               `json:"default_force"`
	Calibration  Calibration       `json:"calibration,omitempty"`
	Keymap       map[string]string `json:"keymap,omitempty"`
}

// DefaultConfig returns a config with the stock recording defaults.
// Port is left empty; run "handctl setup" to fill it in.
func DefaultConfig() *Config {
	return &Config{
		Baud:         1_000_000,
		SampleHz:     10,
		LogDir:       "recordings",
		DefaultSpeed: 800,
		DefaultForce: 700,
		Calibration:  DefaultCalibration(),
		Keymap:       DefaultKeymap(),
	}
}

// DefaultKeymap maps hotkeys to gesture names.
func DefaultKeymap() map[string]string {
	return map[string]string{
		"g": "grip",
		"o": "open_all",
		"p": "pinch",
		"f": "point",
		"u": "thumbs_up",
		"e": "cool",
		"h": "hook_4",
		"c": "close_all",
	}
}

// IsCalibrated returns true if the config has calibration data
func (c *Config) IsCalibrated() bool {
	return len(c.Calibration) > 0
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
