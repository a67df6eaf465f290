// Package config loads runtime configuration for a diashow session from
// .diashow.yaml, DIASHOW_* environment variables and CLI flags, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/papapumpkin/diashow/internal/timing"
)

// WeightsConfig maps star ratings to relative screen-time weights.
type WeightsConfig struct {
	Star5 int `mapstructure:"star5"`
	Star4 int `mapstructure:"star4"`
	Star3 int `mapstructure:"star3"`
	Star2 int `mapstructure:"star2"`
	Star1 int `mapstructure:"star1"`
	Star0 int `mapstructure:"star0"`
}

// Table converts the config shape into the calculator's weight vector.
func (w WeightsConfig) Table() timing.Weights {
	return timing.Weights{w.Star0, w.Star1, w.Star2, w.Star3, w.Star4, w.Star5}
}

// Preset is one named show-length profile.
type Preset struct {
	// MinSeconds and MaxSeconds clamp the per-image display duration.
	MinSeconds float64 `mapstructure:"min_seconds"`
	MaxSeconds float64 `mapstructure:"max_seconds"`

	// Minutes is the total show duration budget.
	Minutes int `mapstructure:"minutes"`
}

// Budget converts the preset into a calculator budget with the given blend.
func (p Preset) Budget(blendSeconds float64) timing.Budget {
	return timing.Budget{
		TotalSeconds: float64(p.Minutes) * 60,
		MinSeconds:   p.MinSeconds,
		MaxSeconds:   p.MaxSeconds,
		BlendSeconds: blendSeconds,
	}
}

// Config holds all runtime configuration for a diashow session.
type Config struct {
	// ShowRoot is the folder hierarchy to play.
	ShowRoot string `mapstructure:"show_root"`

	Weights WeightsConfig     `mapstructure:"weights"`
	Presets map[string]Preset `mapstructure:"presets"`

	// Auto-preset thresholds: shows up to SmallMax images use preset "s",
	// up to MediumMax "m", up to LargeMax "l", anything bigger "x".
	SmallMax  int `mapstructure:"small_max"`
	MediumMax int `mapstructure:"medium_max"`
	LargeMax  int `mapstructure:"large_max"`

	// BlendSeconds is the requested cross-fade length; zero disables fades.
	BlendSeconds float64 `mapstructure:"blend_seconds"`

	// FPS is the player frame-loop cadence.
	FPS int `mapstructure:"fps"`

	CachePath     string `mapstructure:"cache_path"`
	HistoryPath   string `mapstructure:"history_path"`
	TelemetryPath string `mapstructure:"telemetry_path"`

	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// value not set by config file, environment, or flags.
func Load() (Config, error) {
	stateDir := defaultStateDir()

	viper.SetDefault("show_root", "")
	viper.SetDefault("weights.star5", 125)
	viper.SetDefault("weights.star4", 125)
	viper.SetDefault("weights.star3", 100)
	viper.SetDefault("weights.star2", 75)
	viper.SetDefault("weights.star1", 50)
	viper.SetDefault("weights.star0", 100)
	viper.SetDefault("presets.s", map[string]any{"min_seconds": 3.0, "max_seconds": 10.0, "minutes": 3})
	viper.SetDefault("presets.m", map[string]any{"min_seconds": 3.0, "max_seconds": 10.0, "minutes": 7})
	viper.SetDefault("presets.l", map[string]any{"min_seconds": 2.0, "max_seconds": 8.0, "minutes": 12})
	viper.SetDefault("presets.x", map[string]any{"min_seconds": 2.0, "max_seconds": 8.0, "minutes": 18})
	viper.SetDefault("small_max", 30)
	viper.SetDefault("medium_max", 90)
	viper.SetDefault("large_max", 270)
	viper.SetDefault("blend_seconds", 0.0)
	viper.SetDefault("fps", 30)
	viper.SetDefault("cache_path", filepath.Join(stateDir, "scan.toml"))
	viper.SetDefault("history_path", filepath.Join(stateDir, "history.db"))
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if err := c.Weights.Table().Validate(); err != nil {
		return err
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("config: fps %d outside [1,120]", c.FPS)
	}
	if c.BlendSeconds < 0 {
		return fmt.Errorf("config: blend_seconds must not be negative")
	}
	if c.SmallMax <= 0 || c.MediumMax <= c.SmallMax || c.LargeMax <= c.MediumMax {
		return fmt.Errorf("config: preset thresholds must be increasing, got %d/%d/%d",
			c.SmallMax, c.MediumMax, c.LargeMax)
	}

	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := c.Presets[name]
		if err := p.Budget(c.BlendSeconds).Validate(); err != nil {
			return fmt.Errorf("config: preset %q: %w", name, err)
		}
	}
	for _, required := range []string{"s", "m", "l", "x"} {
		if _, ok := c.Presets[required]; !ok {
			return fmt.Errorf("config: preset %q missing", required)
		}
	}
	return nil
}

// PresetFor picks a preset by name, or automatically by image count when
// name is empty or "auto".
func (c Config) PresetFor(name string, imageCount int) (string, Preset, error) {
	if name == "" || name == "auto" {
		switch {
		case imageCount <= c.SmallMax:
			name = "s"
		case imageCount <= c.MediumMax:
			name = "m"
		case imageCount <= c.LargeMax:
			name = "l"
		default:
			name = "x"
		}
	}
	p, ok := c.Presets[name]
	if !ok {
		return "", Preset{}, fmt.Errorf("config: unknown preset %q", name)
	}
	return name, p, nil
}

// defaultStateDir places cache and history under the user config dir,
// falling back to a local dotfolder when that cannot be determined.
func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".diashow"
	}
	return filepath.Join(base, "diashow")
}
