// Package config provides error definitions for configuration management
package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidWidth        = errors.New("invalid board width")
	ErrInvalidHeight       = errors.New("invalid board height")
	ErrInvalidStepTimeout  = errors.New("invalid step timeout")
	ErrInvalidMailboxSize  = errors.New("invalid mailbox size")
	ErrInvalidGlyph        = errors.New("invalid render glyph")
	ErrInvalidTickInterval = errors.New("invalid tick interval")
	ErrInvalidLogLevel     = errors.New("invalid log level")
)

// Configuration loading errors
var (
	ErrConfigFileNotFound = errors.New("configuration file not found")
	ErrUnsupportedFormat  = errors.New("unsupported configuration format")
)
