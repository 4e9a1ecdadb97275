// Package config defines the file that configures a detection run.
package config

import (
	"github.com/pkg/errors"

	"go.viam.com/ssd/detector"
	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/utils"
)

// Defaults for the run options.
const (
	DefaultThreshold      = 0.5
	DefaultMaxDisplaySize = 640
	DefaultThickness      = 3
	DefaultOutputDir      = "."
	DefaultResults        = "results.txt"
)

// Config is everything a detection run needs besides the images.
type Config struct {
	Model detector.Config `json:"model"`

	Threshold float64 `json:"threshold"`
	// MinArea drops detections covering less than this fraction of the image.
	MinArea        float64 `json:"min_area"`
	Labels         string  `json:"labels"`
	MaxDisplaySize int     `json:"max_display_size"`
	Thickness      int     `json:"thickness"`

	// An empty OutputDir, Results or Database disables that sink.
	OutputDir string `json:"output_dir"`
	Results   string `json:"results"`
	Database  string `json:"database"`

	LogFile string `json:"log_file"`
	// LogLevel is one of debug, info, warn or error. Debug forces debug.
	LogLevel string `json:"log_level"`
	Debug    bool   `json:"debug"`
}

// Default returns the config used when no file is given.
func Default() *Config {
	return &Config{
		Model:          detector.DefaultConfig(),
		Threshold:      DefaultThreshold,
		MaxDisplaySize: DefaultMaxDisplaySize,
		Thickness:      DefaultThickness,
		OutputDir:      DefaultOutputDir,
		Results:        DefaultResults,
	}
}

// Validate returns a configuration error for the first invalid field.
func (c *Config) Validate() error {
	if err := c.Model.Validate("model"); err != nil {
		return err
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return utils.NewConfigurationErrorf("threshold", "%v is outside [0, 1]", c.Threshold)
	}
	if c.MinArea < 0 || c.MinArea > 1 {
		return utils.NewConfigurationErrorf("min_area", "%v is outside [0, 1]", c.MinArea)
	}
	if c.MaxDisplaySize < 0 {
		return utils.NewConfigurationError("max_display_size", errors.New("must not be negative"))
	}
	if c.LogLevel != "" {
		if _, err := logging.LevelFromString(c.LogLevel); err != nil {
			return utils.NewConfigurationError("log_level", err)
		}
	}
	if c.Thickness < 1 {
		return utils.NewConfigurationErrorf("thickness", "%d is less than 1", c.Thickness)
	}
	return nil
}

// Level returns the log level of the run, INFO unless configured otherwise.
func (c *Config) Level() logging.Level {
	if c.Debug {
		return logging.DEBUG
	}
	if level, err := logging.LevelFromString(c.LogLevel); err == nil {
		return level
	}
	return logging.INFO
}
