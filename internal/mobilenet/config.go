package mobilenet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid network config")

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Field   string // e.g. "num_classes", "stages[3].n"
	Details string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Field, e.Details)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Config holds the construction hyperparameters of a network.
type Config struct {
	NumClasses      int         `json:"num_classes"`
	WidthMultiplier float64     `json:"width_multiplier"`
	RoundTo         int         `json:"round_to"`
	DropoutRate     float64     `json:"dropout"`
	Stages          []StageSpec `json:"stages"`
	InputChannels   int         `json:"input_channels"`
	// Seed drives weight initialization and the dropout mask.
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns the standard 1000-class, width 1.0 configuration.
func DefaultConfig() Config {
	return Config{
		NumClasses:      1000,
		WidthMultiplier: 1.0,
		RoundTo:         DefaultDivisor,
		DropoutRate:     0.2,
		Stages:          DefaultStages(),
		InputChannels:   3,
	}
}

// LoadConfig reads a JSON config file. Fields absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Stages = nil

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if cfg.Stages == nil {
		cfg.Stages = DefaultStages()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects configurations that cannot produce a usable network.
func (c Config) Validate() error {
	switch {
	case c.NumClasses <= 0:
		return &ConfigError{Field: "num_classes", Details: fmt.Sprintf("must be positive, got %d", c.NumClasses)}
	case !(c.WidthMultiplier > 0) || math.IsInf(c.WidthMultiplier, 1):
		return &ConfigError{Field: "width_multiplier", Details: fmt.Sprintf("must be positive and finite, got %g", c.WidthMultiplier)}
	case c.RoundTo <= 0:
		return &ConfigError{Field: "round_to", Details: fmt.Sprintf("must be positive, got %d", c.RoundTo)}
	case !(c.DropoutRate >= 0 && c.DropoutRate < 1):
		return &ConfigError{Field: "dropout", Details: fmt.Sprintf("must be in [0, 1), got %g", c.DropoutRate)}
	case c.InputChannels <= 0:
		return &ConfigError{Field: "input_channels", Details: fmt.Sprintf("must be positive, got %d", c.InputChannels)}
	case len(c.Stages) == 0:
		return &ConfigError{Field: "stages", Details: "at least one stage is required"}
	}

	for i, s := range c.Stages {
		fields := []struct {
			name  string
			value int
		}{
			{"t", s.Expansion},
			{"c", s.Channels},
			{"n", s.Repeats},
			{"s", s.Stride},
		}
		for _, f := range fields {
			if f.value <= 0 {
				return &ConfigError{
					Field:   fmt.Sprintf("stages[%d].%s", i, f.name),
					Details: fmt.Sprintf("must be positive, got %d", f.value),
				}
			}
		}
	}
	return nil
}
