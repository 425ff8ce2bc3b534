// Package config handles scenekit configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/scenekit/pkg/importer"
)

// Config holds all tool settings.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// ImportConfig controls how models are imported and flattened.
type ImportConfig struct {
	Flags          []string `yaml:"flags"`           // post-processing step names
	Workers        int      `yaml:"workers"`         // parallel mesh/material extraction
	StrictTextures bool     `yaml:"strict_textures"` // fail loads on malformed texture refs
}

// DataConfig holds game data file paths.
type DataConfig struct {
	GRFPaths []string `yaml:"grf_paths"` // searched in order for models not on disk
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Flags:   []string{"default"},
			Workers: 1,
		},
		Data: DataConfig{
			GRFPaths: []string{"data.grf"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ImportFlags resolves the configured step names.
func (c *Config) ImportFlags() (importer.Flags, error) {
	flags, err := importer.ParseFlags(c.Import.Flags)
	if err != nil {
		return 0, fmt.Errorf("import.flags: %w", err)
	}
	return flags, nil
}
