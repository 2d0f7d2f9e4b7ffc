package config

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const configFile = "stepstone.yaml"

// LoadStepstone loads the stepstone configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/stepstone/stepstone.yaml
// -> ./configs/stepstone.yaml -> embedded default.
// Values missing from a file keep their defaults.
func LoadStepstone(customPath string) (StepstoneConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return StepstoneConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseStepstone(data)
		if err != nil {
			return StepstoneConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseStepstone(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/" + configFile); err == nil {
		if cfg, err := parseStepstone(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseStepstone(defaultStepstoneYAML)
	if err != nil {
		return DefaultStepstoneConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseStepstone decodes YAML over the hardcoded defaults and validates it.
func parseStepstone(data []byte) (StepstoneConfig, error) {
	cfg := DefaultStepstoneConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return StepstoneConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return StepstoneConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path of an existing user config file, or empty
// if none is found in the XDG config directories.
func userConfigPath(filename string) string {
	path, err := xdg.SearchConfigFile("stepstone/" + filename)
	if err != nil {
		return ""
	}
	return path
}

// WriteUserConfig writes the embedded default config to the user config
// directory and returns its path. An existing file is left alone unless
// overwrite is set.
func WriteUserConfig(overwrite bool) (string, error) {
	path, err := xdg.ConfigFile("stepstone/" + configFile)
	if err != nil {
		return "", fmt.Errorf("cannot resolve config directory: %w", err)
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s: %w", path, os.ErrExist)
		}
	}
	if err := os.WriteFile(path, DefaultYAML(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return path, nil
}
