package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Providers struct {
		PolygonAPIKey   string `yaml:"polygon_api_key"`
		BenchmarkSymbol string `yaml:"benchmark_symbol"`
	} `yaml:"providers"`
	Completion struct {
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"completion"`
	Tickers struct {
		TableFile string `yaml:"table_file"`
	} `yaml:"tickers"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days"`
		RetentionCron string `yaml:"retention_cron"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides. The two secret keys are only ever
	// checked at call time, never validated up front.
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Providers.PolygonAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("COMPLETION_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TICKER_FILE"); v != "" {
		cfg.Tickers.TableFile = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Providers.BenchmarkSymbol == "" {
		cfg.Providers.BenchmarkSymbol = "SPY"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 1000
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = 0.7
	}
	if cfg.Tickers.TableFile == "" {
		cfg.Tickers.TableFile = "data/tickers.json"
	}
	if cfg.Database.RetentionDays == 0 {
		cfg.Database.RetentionDays = 90
	}
	if cfg.Database.RetentionCron == "" {
		cfg.Database.RetentionCron = "30 3 * * *"
	}

	return cfg, nil
}

// Validate checks the structural fields. API keys are deliberately not
// required here; their absence surfaces as a failed provider call.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}
	if c.Completion.MaxTokens <= 0 {
		return fmt.Errorf("completion.max_tokens must be positive")
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 1 {
		return fmt.Errorf("completion.temperature must be in [0, 1]")
	}
	if c.Database.RetentionDays < 0 {
		return fmt.Errorf("database.retention_days must not be negative")
	}
	return nil
}
