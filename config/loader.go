// Package config provides configuration loading and parsing functionality
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Loader handles configuration loading from files and the environment
type Loader struct {
	// Configuration search paths
	searchPaths []string

	// Environment variable prefix
	envPrefix string

	// Default configuration
	defaultConfig *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{
			".",
			"./config",
			"/etc/lifemesh",
			os.Getenv("HOME") + "/.lifemesh",
		},
		envPrefix:     "LIFEMESH",
		defaultConfig: DefaultConfig(),
	}
}

// SetSearchPaths sets the configuration file search paths
func (l *Loader) SetSearchPaths(paths []string) *Loader {
	l.searchPaths = paths
	return l
}

// SetEnvPrefix sets the environment variable prefix
func (l *Loader) SetEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// SetDefaultConfig sets the default configuration
func (l *Loader) SetDefaultConfig(config *Config) *Loader {
	l.defaultConfig = config
	return l
}

// LoadFromFile loads configuration from a specific file, merging it over
// defaults and applying environment overrides.
func (l *Loader) LoadFromFile(filename string) (*Config, error) {
	format, err := formatForFile(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := l.parseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return l.finalize(config)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader, format Format) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration data: %w", err)
	}

	config, err := l.parseConfig(data, format)
	if err != nil {
		return nil, err
	}

	return l.finalize(config)
}

// AutoLoad discovers a configuration file in the search paths and loads
// it; with no file present it falls back to defaults plus environment
// overrides.
func (l *Loader) AutoLoad() (*Config, error) {
	configFile, err := l.findConfigFile()
	if err != nil {
		if err == ErrConfigFileNotFound {
			return l.finalize(&Config{})
		}
		return nil, err
	}

	return l.LoadFromFile(configFile)
}

// finalize merges a parsed config over the defaults, applies environment
// overrides and validates the result.
func (l *Loader) finalize(config *Config) (*Config, error) {
	defaults := l.defaultConfig
	if defaults == nil {
		defaults = DefaultConfig()
	}
	merged := l.mergeConfig(defaults, config)

	if err := l.loadFromEnv(merged); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return merged, nil
}

// findConfigFile searches for configuration files in search paths
func (l *Loader) findConfigFile() (string, error) {
	filenames := []string{
		"lifemesh.yaml", "lifemesh.yml",
		"config.yaml", "config.yml",
		"lifemesh.json", "config.json",
	}

	for _, searchPath := range l.searchPaths {
		for _, filename := range filenames {
			fullPath := filepath.Join(searchPath, filename)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
	}

	return "", ErrConfigFileNotFound
}

// formatForFile determines the configuration format from a file extension
func formatForFile(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// parseConfig parses configuration data based on format
func (l *Loader) parseConfig(data []byte, format Format) (*Config, error) {
	config := &Config{}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return config, nil
}

// loadFromEnv loads configuration overrides from environment variables
func (l *Loader) loadFromEnv(config *Config) error {
	if val := os.Getenv(l.envPrefix + "_SIM_WIDTH"); val != "" {
		width, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s_SIM_WIDTH: %w", l.envPrefix, err)
		}
		config.Sim.Width = width
	}
	if val := os.Getenv(l.envPrefix + "_SIM_HEIGHT"); val != "" {
		height, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s_SIM_HEIGHT: %w", l.envPrefix, err)
		}
		config.Sim.Height = height
	}
	if val := os.Getenv(l.envPrefix + "_SIM_SEED"); val != "" {
		seed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s_SIM_SEED: %w", l.envPrefix, err)
		}
		config.Sim.Seed = seed
	}
	if val := os.Getenv(l.envPrefix + "_STEP_TIMEOUT"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s_STEP_TIMEOUT: %w", l.envPrefix, err)
		}
		config.Step.Timeout = Duration(timeout)
	}
	if val := os.Getenv(l.envPrefix + "_RENDER_TICK_INTERVAL"); val != "" {
		interval, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s_RENDER_TICK_INTERVAL: %w", l.envPrefix, err)
		}
		config.Render.TickInterval = Duration(interval)
	}
	if val := os.Getenv(l.envPrefix + "_LOG_LEVEL"); val != "" {
		config.Log.Level = LogLevel(val)
	}

	return nil
}

// mergeConfig merges user config with default config
func (l *Loader) mergeConfig(defaultConfig, userConfig *Config) *Config {
	merged := *defaultConfig

	if userConfig.Sim.Width != 0 {
		merged.Sim.Width = userConfig.Sim.Width
	}
	if userConfig.Sim.Height != 0 {
		merged.Sim.Height = userConfig.Sim.Height
	}
	if userConfig.Sim.Seed != 0 {
		merged.Sim.Seed = userConfig.Sim.Seed
	}

	if userConfig.Step.Timeout != 0 {
		merged.Step.Timeout = userConfig.Step.Timeout
	}
	if userConfig.Step.MailboxSize != 0 {
		merged.Step.MailboxSize = userConfig.Step.MailboxSize
	}

	if userConfig.Render.AliveGlyph != "" {
		merged.Render.AliveGlyph = userConfig.Render.AliveGlyph
	}
	if userConfig.Render.DeadGlyph != "" {
		merged.Render.DeadGlyph = userConfig.Render.DeadGlyph
	}
	if userConfig.Render.TickInterval != 0 {
		merged.Render.TickInterval = userConfig.Render.TickInterval
	}

	if userConfig.Log.Level != "" {
		merged.Log.Level = userConfig.Log.Level
	}

	return &merged
}
