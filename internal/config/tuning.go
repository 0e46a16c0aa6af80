// Package config loads alignment tuning parameters from JSON. The schema
// uses pointer fields so a file can override any subset of values while the
// rest fall back to defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults for the consensus search and the registration model.
const (
	DefaultMaxIterations       = 1000
	DefaultProbability         = 0.99
	DefaultDegeneracyTolerance = 1e-8
)

// TuningConfig is the root configuration for alignment runs. All fields are
// optional; nil means "use the default". DistanceThreshold left unset keeps
// the model's adaptive threshold.
type TuningConfig struct {
	// Consensus search params
	MaxIterations     *int     `json:"max_iterations,omitempty"`
	Probability       *float64 `json:"probability,omitempty"`
	DistanceThreshold *float64 `json:"distance_threshold,omitempty"`
	Seed              *int64   `json:"seed,omitempty"`

	// Registration model params
	DegeneracyTolerance *float64 `json:"degeneracy_tolerance,omitempty"`
}

// LoadTuningConfig reads a tuning config from the given JSON file. A missing
// file is not an error: it returns an empty config so callers always get the
// defaults path.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &TuningConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tuning config: %w", err)
	}

	var cfg TuningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse tuning config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config as indented JSON.
func (c *TuningConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tuning config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write tuning config: %w", err)
	}
	return nil
}

// MaxIterationsOrDefault returns the configured iteration cap or the default.
func (c *TuningConfig) MaxIterationsOrDefault() int {
	if c.MaxIterations != nil {
		return *c.MaxIterations
	}
	return DefaultMaxIterations
}

// ProbabilityOrDefault returns the configured success probability or the default.
func (c *TuningConfig) ProbabilityOrDefault() float64 {
	if c.Probability != nil {
		return *c.Probability
	}
	return DefaultProbability
}

// DistanceThresholdOrZero returns the configured threshold override, or zero
// meaning "use the model's adaptive threshold".
func (c *TuningConfig) DistanceThresholdOrZero() float64 {
	if c.DistanceThreshold != nil {
		return *c.DistanceThreshold
	}
	return 0
}

// DegeneracyToleranceOrDefault returns the configured tolerance or the default.
func (c *TuningConfig) DegeneracyToleranceOrDefault() float64 {
	if c.DegeneracyTolerance != nil {
		return *c.DegeneracyTolerance
	}
	return DefaultDegeneracyTolerance
}

// SeedOrDefault returns the configured RNG seed or the given fallback.
func (c *TuningConfig) SeedOrDefault(fallback int64) int64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return fallback
}
