package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseStepstone(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded default YAML failed to parse: %v", err)
	}
	def := DefaultStepstoneConfig()

	if cfg.Lane.RoadLength != def.Lane.RoadLength {
		t.Errorf("road_length = %d, expected %d", cfg.Lane.RoadLength, def.Lane.RoadLength)
	}
	if cfg.Jump != def.Jump {
		t.Errorf("jump = %+v, expected %+v", cfg.Jump, def.Jump)
	}
	if cfg.Session != def.Session {
		t.Errorf("session = %+v, expected %+v", cfg.Session, def.Session)
	}
	if cfg.Animation.Clips["jump"] != 300*time.Millisecond {
		t.Errorf("jump clip = %v, expected 300ms", cfg.Animation.Clips["jump"])
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
lane:
  road_length: 7
animation:
  clips:
    jump: 450ms
    land: 50ms
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadStepstone(path)
	if err != nil {
		t.Fatalf("LoadStepstone() failed: %v", err)
	}

	if cfg.Lane.RoadLength != 7 {
		t.Errorf("road_length = %d, expected 7", cfg.Lane.RoadLength)
	}
	if cfg.Animation.Clips["jump"] != 450*time.Millisecond {
		t.Errorf("jump clip = %v, expected 450ms", cfg.Animation.Clips["jump"])
	}
	if cfg.Animation.Clips["land"] != 50*time.Millisecond {
		t.Errorf("land clip = %v, expected 50ms", cfg.Animation.Clips["land"])
	}
	// Unset sections keep defaults
	if cfg.Jump.TileSize != 40 || cfg.Session.TimerInterval != 7*time.Millisecond {
		t.Errorf("defaults not preserved: %+v %+v", cfg.Jump, cfg.Session)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadStepstone(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("lane:\n  road_length: 0\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	_, err := LoadStepstone(bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid config error = %v, expected ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StepstoneConfig)
	}{
		{"zero road", func(c *StepstoneConfig) { c.Lane.RoadLength = 0 }},
		{"zero tile size", func(c *StepstoneConfig) { c.Jump.TileSize = 0 }},
		{"zero max stride", func(c *StepstoneConfig) { c.Jump.MaxStride = 0 }},
		{"zero default duration", func(c *StepstoneConfig) { c.Jump.DefaultDuration = 0 }},
		{"negative input delay", func(c *StepstoneConfig) { c.Session.InputDelay = -time.Millisecond }},
		{"zero timer interval", func(c *StepstoneConfig) { c.Session.TimerInterval = 0 }},
		{"bad clip", func(c *StepstoneConfig) { c.Animation.Clips["jump"] = 0 }},
	}

	if err := DefaultStepstoneConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultStepstoneConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset   DifficultyPreset
		road     int
		jumpClip time.Duration
	}{
		{DifficultyEasy, 12, 300 * time.Millisecond},
		{DifficultyNormal, 20, 300 * time.Millisecond},
		{DifficultyHard, 40, 225 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultStepstoneConfig()
			ApplyPreset(&cfg, tc.preset)

			if cfg.Lane.RoadLength != tc.road {
				t.Errorf("road_length = %d, expected %d", cfg.Lane.RoadLength, tc.road)
			}
			if cfg.Animation.Clips["jump"] != tc.jumpClip {
				t.Errorf("jump clip = %v, expected %v", cfg.Animation.Clips["jump"], tc.jumpClip)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset("hard"); !ok || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q, %v", p, ok)
	}
	if _, ok := ParsePreset(""); ok {
		t.Error("empty preset should not parse")
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("unknown preset should not parse")
	}
}

func TestWriteUserConfig(t *testing.T) {
	// Registered before Setenv so it runs after the variable is restored.
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()

	path, err := WriteUserConfig(false)
	if err != nil {
		t.Fatalf("WriteUserConfig() failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(DefaultYAML()) {
		t.Error("written config should be the embedded default")
	}

	if _, err := WriteUserConfig(false); !errors.Is(err, os.ErrExist) {
		t.Errorf("second write without overwrite: err = %v, expected ErrExist", err)
	}
	if _, err := WriteUserConfig(true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}

	if got := userConfigPath(configFile); got != path {
		t.Errorf("userConfigPath() = %q, expected %q", got, path)
	}
}
