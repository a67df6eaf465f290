package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"ShowRoot", cfg.ShowRoot, ""},
		{"Weights.Star5", cfg.Weights.Star5, 125},
		{"Weights.Star4", cfg.Weights.Star4, 125},
		{"Weights.Star3", cfg.Weights.Star3, 100},
		{"Weights.Star2", cfg.Weights.Star2, 75},
		{"Weights.Star1", cfg.Weights.Star1, 50},
		{"Weights.Star0", cfg.Weights.Star0, 100},
		{"SmallMax", cfg.SmallMax, 30},
		{"MediumMax", cfg.MediumMax, 90},
		{"LargeMax", cfg.LargeMax, 270},
		{"BlendSeconds", cfg.BlendSeconds, 0.0},
		{"FPS", cfg.FPS, 30},
		{"Verbose", cfg.Verbose, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultPresets(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		want Preset
	}{
		{"s", Preset{MinSeconds: 3, MaxSeconds: 10, Minutes: 3}},
		{"m", Preset{MinSeconds: 3, MaxSeconds: 10, Minutes: 7}},
		{"l", Preset{MinSeconds: 2, MaxSeconds: 8, Minutes: 12}},
		{"x", Preset{MinSeconds: 2, MaxSeconds: 8, Minutes: 18}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cfg.Presets[tt.name]
			if !ok {
				t.Fatalf("preset %q missing", tt.name)
			}
			if got != tt.want {
				t.Errorf("preset %q = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()

	os.Setenv("DIASHOW_FPS", "60")
	os.Setenv("DIASHOW_BLEND_SECONDS", "1.5")
	defer os.Unsetenv("DIASHOW_FPS")
	defer os.Unsetenv("DIASHOW_BLEND_SECONDS")

	viper.SetEnvPrefix("DIASHOW")
	viper.AutomaticEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FPS != 60 {
		t.Errorf("FPS = %d, want 60 from env", cfg.FPS)
	}
	if cfg.BlendSeconds != 1.5 {
		t.Errorf("BlendSeconds = %g, want 1.5 from env", cfg.BlendSeconds)
	}
}

func TestValidate(t *testing.T) {
	resetViper()

	base, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"fps too low", func(c *Config) { c.FPS = 0 }, true},
		{"fps too high", func(c *Config) { c.FPS = 500 }, true},
		{"negative blend", func(c *Config) { c.BlendSeconds = -1 }, true},
		{"negative weight", func(c *Config) { c.Weights.Star2 = -5 }, true},
		{"thresholds not increasing", func(c *Config) { c.MediumMax = 10 }, true},
		{"missing preset", func(c *Config) { delete(c.Presets, "l") }, true},
		{"preset min above max", func(c *Config) {
			c.Presets["s"] = Preset{MinSeconds: 11, MaxSeconds: 10, Minutes: 3}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.Presets = make(map[string]Preset, len(base.Presets))
			for k, v := range base.Presets {
				cfg.Presets[k] = v
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresetFor(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name       string
		preset     string
		imageCount int
		want       string
		wantErr    bool
	}{
		{"explicit name wins", "x", 5, "x", false},
		{"auto small", "", 30, "s", false},
		{"auto medium", "auto", 31, "m", false},
		{"auto large", "", 91, "l", false},
		{"auto extra large", "", 271, "x", false},
		{"unknown preset", "xxl", 5, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := cfg.PresetFor(tt.preset, tt.imageCount)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PresetFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("PresetFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeightsTable(t *testing.T) {
	resetViper()

	w := WeightsConfig{Star5: 125, Star4: 125, Star3: 100, Star2: 75, Star1: 50, Star0: 100}
	got := w.Table()
	// Index is the rating: table[0] is the unrated weight.
	want := [6]int{100, 50, 75, 100, 125, 125}
	if got != want {
		t.Errorf("Table() = %v, want %v", got, want)
	}
}
