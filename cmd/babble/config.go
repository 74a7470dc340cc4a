package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Config holds the CLI defaults that can be kept in a JSON file.
// Command-line flags override whatever is loaded here.
type Config struct {
	Order             int    `json:"order"`
	MaxTokens         int    `json:"max_tokens"`
	Count             int    `json:"count"`
	Boundaries        string `json:"boundaries"`
	RespectBoundaries bool   `json:"respect_boundaries"`
	MinFrequency      int    `json:"min_frequency"`
	LogLevel          string `json:"log_level"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Order:             1,
		MaxTokens:         100,
		Count:             1,
		Boundaries:        boundariesLineEndings,
		RespectBoundaries: false,
		MinFrequency:      0,
		LogLevel:          "info",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as the run can still proceed with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		// For other errors (e.g., permission denied), return the error.
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal the JSON from the file into the config struct.
	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// parseLogLevel maps a level name onto a slog.Level, defaulting to info.
func parseLogLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
