package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/stepstone.yaml
var defaultStepstoneYAML []byte

// DefaultStepstoneConfig returns the default stepstone configuration.
func DefaultStepstoneConfig() StepstoneConfig {
	return StepstoneConfig{
		Lane: LaneConfig{
			RoadLength: 20,
		},
		Jump: JumpConfig{
			TileSize:        40,
			MaxStride:       3,
			Clip:            "jump",
			DefaultDuration: 300 * time.Millisecond,
		},
		Animation: AnimationConfig{
			Clips: map[string]time.Duration{
				"jump": 300 * time.Millisecond,
			},
		},
		Session: SessionConfig{
			InputDelay:    100 * time.Millisecond,
			TimerInterval: 7 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default config, the starting point for
// a user config file.
func DefaultYAML() []byte {
	return defaultStepstoneYAML
}
