// Package config holds the per-strategy parameters and store settings. The
// analytics engines never read these from ambient state; everything is
// passed down explicitly so one process can serve many strategies.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete dashboard configuration.
type Config struct {
	Strategies map[string]Strategy `json:"strategies" yaml:"strategies"`
	Store      StoreConfig         `json:"store" yaml:"store"`
	Journal    JournalConfig       `json:"journal" yaml:"journal"`
	MonteCarlo MonteCarloConfig    `json:"monte_carlo" yaml:"monte_carlo"`
}

// Strategy contains one strategy's named constants.
type Strategy struct {
	RiskBudget      float64 `json:"risk_budget" yaml:"risk_budget"`           // $ per trade
	PointMultiplier float64 `json:"point_multiplier" yaml:"point_multiplier"` // $ per point per contract
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// StoreConfig points at the shared versioned-document endpoint. ReadURL is
// an optional read-optimized replica; empty means read from BaseURL. An
// empty BaseURL disables remote sync entirely (local journal only).
type StoreConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	ReadURL string `json:"read_url,omitempty" yaml:"read_url,omitempty"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
}

// JournalConfig locates the local SQLite cache.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// MonteCarloConfig parameterizes the drawdown estimator.
type MonteCarloConfig struct {
	Simulations int     `json:"simulations" yaml:"simulations"`
	Percentile  float64 `json:"percentile" yaml:"percentile"`
	Seed        int64   `json:"seed" yaml:"seed"`
}

// LoadFromFile loads configuration from a file (YAML or JSON) and overlays
// store credentials from the environment.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration out, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables (typically from a .env file) onto
// the store settings so tokens stay out of committed config files.
func (c *Config) applyEnv() {
	if v := os.Getenv("DASHBOARD_STORE_URL"); v != "" {
		c.Store.BaseURL = v
	}
	if v := os.Getenv("DASHBOARD_STORE_READ_URL"); v != "" {
		c.Store.ReadURL = v
	}
	if v := os.Getenv("DASHBOARD_STORE_TOKEN"); v != "" {
		c.Store.Token = v
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one strategy is required")
	}
	for name, s := range c.Strategies {
		if s.RiskBudget <= 0 {
			return fmt.Errorf("strategy %s: risk_budget must be positive", name)
		}
		if s.PointMultiplier <= 0 {
			return fmt.Errorf("strategy %s: point_multiplier must be positive", name)
		}
		if s.StartingBalance <= 0 {
			return fmt.Errorf("strategy %s: starting_balance must be positive", name)
		}
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.MonteCarlo.Simulations <= 0 {
		return fmt.Errorf("monte_carlo.simulations must be positive")
	}
	if c.MonteCarlo.Percentile <= 0 || c.MonteCarlo.Percentile >= 100 {
		return fmt.Errorf("monte_carlo.percentile must be between 0 and 100")
	}
	return nil
}

// Strategy returns one strategy's parameters by name.
func (c *Config) Strategy(name string) (Strategy, error) {
	s, ok := c.Strategies[name]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown strategy: %s", name)
	}
	return s, nil
}

// Default returns the shipped configuration: the in-house MES strategy and
// the ES signal-service feed, both on a $20k account.
func Default() *Config {
	return &Config{
		Strategies: map[string]Strategy{
			"ecfs": {
				RiskBudget:      100, // 0.5% of $20k
				PointMultiplier: 5,   // $5 per point (MES)
				StartingBalance: 20000,
			},
			"discord": {
				RiskBudget:      500,
				PointMultiplier: 50, // $50 per point (ES)
				StartingBalance: 20000,
			},
		},
		Journal: JournalConfig{
			DBPath: "./dashboard.sqlite",
		},
		MonteCarlo: MonteCarloConfig{
			Simulations: 5000,
			Percentile:  95,
			Seed:        1,
		},
	}
}
