// Package config holds the run configuration for the box-camera CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configurable paths and extraction settings.
type Config struct {
	// ScenePath points to the YAML scene description.
	ScenePath string `yaml:"scene"`

	// Image dimensions of the rendered id buffer.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Mode is the box type: visible2d, full2d, or box3d.
	Mode string `yaml:"mode"`

	// BackgroundLabel is the reserved label for empty pixels.
	BackgroundLabel uint8 `yaml:"background_label"`

	// Output is where the annotated debug image is written; the extension
	// selects the format (.webp, .tga, .png).
	Output string `yaml:"output"`

	// Scale is an integer upscale factor for the debug image.
	Scale int `yaml:"scale"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Load reads a YAML config file. Fields not set in the file keep their zero
// values until Resolve fills in defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene  string
	Output string
	Mode   string
	Width  int
	Height int
	Scale  int
}

// Resolve applies flag overrides and fills in defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.ScenePath = flags.Scene
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}

	if c.Width <= 0 {
		c.Width = 512
	}
	if c.Height <= 0 {
		c.Height = 512
	}
	if c.Mode == "" {
		c.Mode = "visible2d"
	}
	if c.Output == "" {
		c.Output = "boxes.webp"
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
