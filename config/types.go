// Package config provides configuration management for the simulation
package config

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// Config represents the complete simulation configuration
type Config struct {
	// Simulation grid configuration
	Sim SimConfig `yaml:"sim" json:"sim"`

	// Step coordination configuration
	Step StepConfig `yaml:"step" json:"step"`

	// Rendering configuration
	Render RenderConfig `yaml:"render" json:"render"`

	// Logging configuration
	Log LogConfig `yaml:"log" json:"log"`
}

// SimConfig contains the grid parameters
type SimConfig struct {
	// Board width in cells
	Width int `yaml:"width" json:"width"`

	// Board height in cells
	Height int `yaml:"height" json:"height"`

	// Seed for the initial random liveness; zero means time-based
	Seed int64 `yaml:"seed" json:"seed"`
}

// StepConfig contains step coordination parameters
type StepConfig struct {
	// Timeout bounds the wait for per-cell neighbor reports
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// MailboxSize sets each cell actor's message queue capacity
	MailboxSize int `yaml:"mailbox_size" json:"mailbox_size"`
}

// RenderConfig contains rendering parameters. Glyphs and pacing may be
// hot-reloaded through the Watcher while a simulation is running.
type RenderConfig struct {
	// AliveGlyph is the single character drawn for a live cell
	AliveGlyph string `yaml:"alive_glyph" json:"alive_glyph"`

	// DeadGlyph is the single character drawn for a dead cell
	DeadGlyph string `yaml:"dead_glyph" json:"dead_glyph"`

	// TickInterval is the delay between render+step iterations
	TickInterval Duration `yaml:"tick_interval" json:"tick_interval"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// Log level
	Level LogLevel `yaml:"level" json:"level"`
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			Width:  40,
			Height: 20,
		},
		Step: StepConfig{
			Timeout:     Duration(5 * time.Second),
			MailboxSize: 16,
		},
		Render: RenderConfig{
			AliveGlyph:   "*",
			DeadGlyph:    "_",
			TickInterval: Duration(200 * time.Millisecond),
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Sim.Width < 1 {
		return fmt.Errorf("%w: width %d", ErrInvalidWidth, c.Sim.Width)
	}
	if c.Sim.Height < 1 {
		return fmt.Errorf("%w: height %d", ErrInvalidHeight, c.Sim.Height)
	}
	if c.Step.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidStepTimeout, c.Step.Timeout)
	}
	if c.Step.MailboxSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidMailboxSize, c.Step.MailboxSize)
	}
	if utf8.RuneCountInString(c.Render.AliveGlyph) != 1 {
		return fmt.Errorf("%w: alive glyph %q", ErrInvalidGlyph, c.Render.AliveGlyph)
	}
	if utf8.RuneCountInString(c.Render.DeadGlyph) != 1 {
		return fmt.Errorf("%w: dead glyph %q", ErrInvalidGlyph, c.Render.DeadGlyph)
	}
	if c.Render.TickInterval < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTickInterval, c.Render.TickInterval)
	}
	if !c.Log.Level.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	return nil
}

// AliveRune returns the alive glyph as a rune.
func (c *RenderConfig) AliveRune() rune {
	r, _ := utf8.DecodeRuneInString(c.AliveGlyph)
	return r
}

// DeadRune returns the dead glyph as a rune.
func (c *RenderConfig) DeadRune() rune {
	r, _ := utf8.DecodeRuneInString(c.DeadGlyph)
	return r
}
