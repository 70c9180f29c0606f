// Package config loads the engine configuration file. A missing or broken
// file is never fatal: built-in defaults are substituted with a warning.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile holds the three difficulty tunables, all in [0,1].
type Profile struct {
	BluffThreshold     float64 `yaml:"bluff_threshold" json:"bluff_threshold"`
	ChallengeThreshold float64 `yaml:"challenge_threshold" json:"challenge_threshold"`
	RiskTolerance      float64 `yaml:"risk_tolerance" json:"risk_tolerance"`
}

type AI struct {
	ModelPath        string             `yaml:"model_path"`
	ScalerPath       string             `yaml:"scaler_path"`
	DifficultyLevels map[string]Profile `yaml:"difficulty_levels"`
}

type Config struct {
	AI AI `yaml:"ai"`
}

// Default returns the built-in configuration: the four standard difficulty
// presets and local artifact paths.
func Default() Config {
	return Config{AI: AI{
		ModelPath:  "models/trained_model.json",
		ScalerPath: "models/scaler.json",
		DifficultyLevels: map[string]Profile{
			"easy":     {BluffThreshold: 0.7, ChallengeThreshold: 0.8, RiskTolerance: 0.3},
			"medium":   {BluffThreshold: 0.5, ChallengeThreshold: 0.6, RiskTolerance: 0.5},
			"hard":     {BluffThreshold: 0.4, ChallengeThreshold: 0.5, RiskTolerance: 0.7},
			"ruthless": {BluffThreshold: 0.3, ChallengeThreshold: 0.4, RiskTolerance: 0.85},
		},
	}}
}

// Load reads a YAML config file, layering it over the defaults so partial
// files still yield a complete configuration.
func Load(path string) Config {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: %s not found, using defaults", path)
		return cfg
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		log.Printf("config: failed to parse %s (%v), using defaults", path, err)
		return Default()
	}
	if len(cfg.AI.DifficultyLevels) == 0 {
		cfg.AI.DifficultyLevels = Default().AI.DifficultyLevels
	}
	if _, ok := cfg.AI.DifficultyLevels["medium"]; !ok {
		cfg.AI.DifficultyLevels["medium"] = Default().AI.DifficultyLevels["medium"]
	}
	if cfg.AI.ModelPath == "" {
		cfg.AI.ModelPath = Default().AI.ModelPath
	}
	if cfg.AI.ScalerPath == "" {
		cfg.AI.ScalerPath = Default().AI.ScalerPath
	}
	return cfg
}

// Validate sanity-checks profile ranges; it is advisory, not enforced on
// Load, because a clamped-out-of-range profile still produces decisions.
func (c Config) Validate() error {
	for name, p := range c.AI.DifficultyLevels {
		for field, v := range map[string]float64{
			"bluff_threshold":     p.BluffThreshold,
			"challenge_threshold": p.ChallengeThreshold,
			"risk_tolerance":      p.RiskTolerance,
		} {
			if v < 0 || v > 1 {
				return fmt.Errorf("difficulty %q: %s %.2f outside [0,1]", name, field, v)
			}
		}
	}
	return nil
}
