package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name searched for in the config directories.
const ConfigFile = "tapbeat.yaml"

// Load loads the TapBeat configuration.
// Search order: customPath -> ~/.tapbeat/configs/tapbeat.yaml -> ./configs/tapbeat.yaml -> embedded default.
// Files are decoded on top of the defaults, so a partial file only overrides what it names.
func Load(customPath string) (TapbeatConfig, error) {
	cfg := embeddedConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			candidate := cfg
			if err := yaml.Unmarshal(data, &candidate); err == nil {
				return candidate, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		candidate := cfg
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}

	return cfg, nil
}

// embeddedConfig decodes the embedded default YAML, falling back to the
// hard-coded defaults if the embed is unusable.
func embeddedConfig() TapbeatConfig {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultTapbeatYAML, &cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tapbeat", "configs", filename)
}
