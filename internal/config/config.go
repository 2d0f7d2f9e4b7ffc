// Package config provides YAML-based game configuration loading and
// difficulty presets for stepstone.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Validate for unusable values.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// StepstoneConfig contains all configuration for the stepping-stone game.
type StepstoneConfig struct {
	Lane      LaneConfig      `yaml:"lane"`
	Jump      JumpConfig      `yaml:"jump"`
	Animation AnimationConfig `yaml:"animation"`
	Session   SessionConfig   `yaml:"session"`
}

// LaneConfig defines lane generation parameters.
type LaneConfig struct {
	RoadLength int `yaml:"road_length"`
}

// JumpConfig defines hop parameters.
type JumpConfig struct {
	TileSize        float64       `yaml:"tile_size"`
	MaxStride       int           `yaml:"max_stride"`
	Clip            string        `yaml:"clip"`
	DefaultDuration time.Duration `yaml:"default_duration"`
}

// AnimationConfig is the clip table served to the hop motion.
type AnimationConfig struct {
	Clips map[string]time.Duration `yaml:"clips"`
}

// SessionConfig defines run timing parameters.
type SessionConfig struct {
	InputDelay    time.Duration `yaml:"input_delay"`
	TimerInterval time.Duration `yaml:"timer_interval"`
}

// Validate reports the first unusable value.
func (c StepstoneConfig) Validate() error {
	switch {
	case c.Lane.RoadLength < 1:
		return fmt.Errorf("%w: lane.road_length must be >= 1, got %d", ErrInvalidConfig, c.Lane.RoadLength)
	case c.Jump.TileSize <= 0:
		return fmt.Errorf("%w: jump.tile_size must be > 0, got %g", ErrInvalidConfig, c.Jump.TileSize)
	case c.Jump.MaxStride < 1:
		return fmt.Errorf("%w: jump.max_stride must be >= 1, got %d", ErrInvalidConfig, c.Jump.MaxStride)
	case c.Jump.DefaultDuration <= 0:
		return fmt.Errorf("%w: jump.default_duration must be > 0", ErrInvalidConfig)
	case c.Session.InputDelay < 0:
		return fmt.Errorf("%w: session.input_delay must not be negative", ErrInvalidConfig)
	case c.Session.TimerInterval <= 0:
		return fmt.Errorf("%w: session.timer_interval must be > 0", ErrInvalidConfig)
	}
	for name, d := range c.Animation.Clips {
		if d <= 0 {
			return fmt.Errorf("%w: animation clip %q has non-positive duration", ErrInvalidConfig, name)
		}
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI string to a preset. Unknown or empty strings
// return false and mean "use the config as loaded".
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s), true
	default:
		return "", false
	}
}

// RoadLengthForPreset returns the lane length for a difficulty preset.
func RoadLengthForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 12
	case DifficultyHard:
		return 40
	default:
		return 20
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Hard also speeds up the hop clip so runs feel tighter.
func ApplyPreset(cfg *StepstoneConfig, preset DifficultyPreset) {
	cfg.Lane.RoadLength = RoadLengthForPreset(preset)

	if preset != DifficultyHard {
		return
	}
	if d, ok := cfg.Animation.Clips[cfg.Jump.Clip]; ok {
		cfg.Animation.Clips[cfg.Jump.Clip] = d * 3 / 4
	}
	cfg.Jump.DefaultDuration = cfg.Jump.DefaultDuration * 3 / 4
}
