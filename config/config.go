// Package config loads the predictor's runtime configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Models   ModelsConfig   `json:"models" yaml:"models"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Screener ScreenerConfig `json:"screener" yaml:"screener"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// ModelsConfig points at the serialized training artifacts. All of them
// are optional; missing artifacts put the estimator into its documented
// degraded modes.
type ModelsConfig struct {
	ScalerPath    string `json:"scaler_path" yaml:"scaler_path"`
	WeightsPath   string `json:"weights_path" yaml:"weights_path"`
	PrimaryPath   string `json:"primary_path" yaml:"primary_path"`
	SecondaryPath string `json:"secondary_path" yaml:"secondary_path"`
}

// BacktestConfig holds the default simulation parameters.
type BacktestConfig struct {
	EntryThreshold float64 `json:"entry_threshold" yaml:"entry_threshold"`
	ExitThreshold  float64 `json:"exit_threshold" yaml:"exit_threshold"`
	FeeBps         float64 `json:"fee_bps" yaml:"fee_bps"`
	SlippageBps    float64 `json:"slippage_bps" yaml:"slippage_bps"`
}

// ScreenerConfig bounds the fan-out and names the instrument universe.
type ScreenerConfig struct {
	Workers      int    `json:"workers" yaml:"workers"`
	MaxResults   int    `json:"max_results" yaml:"max_results"`
	DataDir      string `json:"data_dir" yaml:"data_dir"`
	UniverseFile string `json:"universe_file" yaml:"universe_file"`
}

// JournalConfig names the SQLite journal database.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration before anything runs on it.
func (c *Config) Validate() error {
	if c.Backtest.EntryThreshold < 0 || c.Backtest.EntryThreshold > 1 {
		return fmt.Errorf("backtest.entry_threshold must be in [0,1]")
	}
	if c.Backtest.ExitThreshold < 0 || c.Backtest.ExitThreshold > 1 {
		return fmt.Errorf("backtest.exit_threshold must be in [0,1]")
	}
	if c.Backtest.FeeBps < 0 || c.Backtest.SlippageBps < 0 {
		return fmt.Errorf("backtest fee_bps and slippage_bps must be non-negative")
	}
	if c.Screener.Workers < 0 {
		return fmt.Errorf("screener.workers must be non-negative")
	}
	if c.Screener.MaxResults < 0 {
		return fmt.Errorf("screener.max_results must be non-negative")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Models: ModelsConfig{
			ScalerPath:    "./models/scaler.yaml",
			WeightsPath:   "./models/ensemble_weights.yaml",
			PrimaryPath:   "./models/primary.yaml",
			SecondaryPath: "./models/secondary.yaml",
		},
		Backtest: BacktestConfig{
			EntryThreshold: 0.55,
			ExitThreshold:  0.5,
			FeeBps:         10,
			SlippageBps:    5,
		},
		Screener: ScreenerConfig{
			Workers:      10,
			MaxResults:   50,
			DataDir:      "./data",
			UniverseFile: "./universe.txt",
		},
		Journal: JournalConfig{
			DBPath: "./predictor.sqlite",
		},
	}
}
