package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tunable parameters of the extraction pipeline.
type Config struct {
	// Model is the inference model identifier passed to the collaborator.
	Model string `json:"model" yaml:"model"`

	// MaxTokens bounds the completion length requested from the collaborator.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxInputLength is the number of characters of source text kept before
	// dispatch; longer input is truncated with a visible marker.
	MaxInputLength int `json:"max_input_length" yaml:"max_input_length"`

	// MinimumEventYear is the floor applied by the date corrector. Inferred
	// start years earlier than this are rewritten to it. Zero (the default)
	// derives the floor from each request's reference time, so output
	// depends only on the request and not on process start time. The floor
	// never drops below 2025.
	MinimumEventYear int `json:"minimum_event_year" yaml:"minimum_event_year"`

	// Timezone is the IANA timezone assumed for callers that do not supply
	// one (e.g. "America/Toronto").
	Timezone string `json:"timezone" yaml:"timezone"`

	// ProductID is the PRODID emitted in the calendar document header.
	ProductID string `json:"product_id" yaml:"product_id"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:          "claude-sonnet-4-20250514",
		MaxTokens:      1024,
		MaxInputLength: 4000,
		// Zero: derived per request from the reference time.
		MinimumEventYear: 0,
		Timezone:         "UTC",
		ProductID:        "-//siherrmann//eventract//EN",
	}
}

// NewConfigFromEnv builds a Config from environment variables, falling back
// to defaults for anything unset. A .env file in the working directory is
// loaded first if present (missing file is not an error).
//
// Recognized variables: EVENTRACT_MODEL, EVENTRACT_MAX_TOKENS,
// EVENTRACT_MAX_INPUT_LENGTH, EVENTRACT_MIN_EVENT_YEAR, EVENTRACT_TIMEZONE.
func NewConfigFromEnv() (*Config, error) {
	_ = godotenv.Load()

	config := DefaultConfig()
	if v := os.Getenv("EVENTRACT_MODEL"); v != "" {
		config.Model = v
	}
	if v := os.Getenv("EVENTRACT_TIMEZONE"); v != "" {
		if _, err := time.LoadLocation(v); err != nil {
			return nil, fmt.Errorf("invalid EVENTRACT_TIMEZONE %q: %w", v, err)
		}
		config.Timezone = v
	}
	for _, e := range []struct {
		key    string
		target *int
	}{
		{"EVENTRACT_MAX_TOKENS", &config.MaxTokens},
		{"EVENTRACT_MAX_INPUT_LENGTH", &config.MaxInputLength},
		{"EVENTRACT_MIN_EVENT_YEAR", &config.MinimumEventYear},
	} {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %v %q: %w", e.key, v, err)
			}
			*e.target = n
		}
	}
	return config, nil
}

// LoadConfig reads a YAML configuration file. If the file does not exist,
// the default configuration is written there first (0600) and returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		config := DefaultConfig()
		if err := config.Save(path); err != nil {
			return nil, err
		}
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %v: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %v: %w", path, err)
	}
	return config, nil
}

// Save writes the configuration as YAML with restrictive permissions.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %v: %w", path, err)
	}
	return nil
}
