// Package config loads the engine configuration from YAML with defaults and
// validation. Every model constant is configurable so a parameter change never
// needs a rebuild, but the defaults match the production model.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration.
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Data     DataConfig     `yaml:"data"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// ModelConfig holds the fair-line model constants.
type ModelConfig struct {
	RegressFactor      float64     `yaml:"regress_factor"`
	BaselineOffense    float64     `yaml:"baseline_offense"`
	BaselineDefense    float64     `yaml:"baseline_defense"`
	HomeCourtAdvantage float64     `yaml:"home_court_advantage"`
	BackToBackPenalty  float64     `yaml:"back_to_back_penalty"`
	LateScratchPoints  float64     `yaml:"late_scratch_points"`
	CoachFiredPoints   float64     `yaml:"coach_fired_points"`
	EdgeCap            float64     `yaml:"edge_cap"`
	Kelly              KellyConfig `yaml:"kelly"`
}

// KellyConfig holds the staking formula parameters.
type KellyConfig struct {
	Odds            float64 `yaml:"odds"`
	ProbBase        float64 `yaml:"prob_base"`
	ProbSlope       float64 `yaml:"prob_slope"`
	ProbFloor       float64 `yaml:"prob_floor"`
	ProbCeiling     float64 `yaml:"prob_ceiling"`
	QuarterFraction float64 `yaml:"quarter_fraction"`
}

// DataConfig locates the collaborator cache files and tracker CSVs.
type DataConfig struct {
	Dir                string        `yaml:"dir"`
	StalenessThreshold time.Duration `yaml:"staleness_threshold"`
}

// UnmarshalYAML accepts Go duration strings ("12h") for the staleness
// threshold while keeping defaults for absent keys.
func (d *DataConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Dir                string `yaml:"dir"`
		StalenessThreshold string `yaml:"staleness_threshold"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Dir != "" {
		d.Dir = raw.Dir
	}
	if raw.StalenessThreshold != "" {
		dur, err := time.ParseDuration(raw.StalenessThreshold)
		if err != nil {
			return fmt.Errorf("invalid staleness_threshold %q: %w", raw.StalenessThreshold, err)
		}
		d.StalenessThreshold = dur
	}
	return nil
}

// RedisConfig is the optional warm-cache source. Empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PostgresConfig is the optional bet-tracker database. Empty DSN disables it.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Bind      string  `yaml:"bind"`
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// Default returns the production defaults.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			RegressFactor:      0.75,
			BaselineOffense:    115.5,
			BaselineDefense:    115.5,
			HomeCourtAdvantage: 3.0,
			BackToBackPenalty:  -2.5,
			LateScratchPoints:  -2.0,
			CoachFiredPoints:   -1.0,
			EdgeCap:            10.0,
			Kelly: KellyConfig{
				Odds:            0.91,
				ProbBase:        0.524,
				ProbSlope:       0.015,
				ProbFloor:       0.48,
				ProbCeiling:     0.70,
				QuarterFraction: 0.25,
			},
		},
		Data: DataConfig{
			Dir:                "data",
			StalenessThreshold: 12 * time.Hour,
		},
		HTTP: HTTPConfig{
			Bind:      ":8080",
			RateLimit: 10,
			RateBurst: 20,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the model constants for sanity.
func (c *Config) Validate() error {
	m := c.Model
	if m.RegressFactor < 0 || m.RegressFactor > 1 {
		return fmt.Errorf("regress_factor %.3f outside [0, 1]", m.RegressFactor)
	}
	if m.BaselineOffense <= 0 || m.BaselineDefense <= 0 {
		return fmt.Errorf("baselines must be positive, got off=%.1f def=%.1f",
			m.BaselineOffense, m.BaselineDefense)
	}
	if m.EdgeCap <= 0 {
		return fmt.Errorf("edge_cap must be positive, got %.1f", m.EdgeCap)
	}
	k := m.Kelly
	if k.Odds <= 0 {
		return fmt.Errorf("kelly odds must be positive, got %.3f", k.Odds)
	}
	if k.ProbFloor >= k.ProbCeiling {
		return fmt.Errorf("kelly prob floor %.3f not below ceiling %.3f",
			k.ProbFloor, k.ProbCeiling)
	}
	if k.QuarterFraction <= 0 || k.QuarterFraction > 1 {
		return fmt.Errorf("kelly quarter_fraction %.3f outside (0, 1]", k.QuarterFraction)
	}
	if c.Data.StalenessThreshold <= 0 {
		return fmt.Errorf("staleness_threshold must be positive")
	}
	return nil
}
