// Package config loads truebid settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/CityFriends/truebid-calculator-sub000/internal/aggregation"
	"github.com/CityFriends/truebid-calculator-sub000/internal/llm"
	"gopkg.in/yaml.v3"
)

// Config is the complete truebid configuration.
type Config struct {
	// DBPath is the SQLite file (default ~/.truebid/truebid.db).
	DBPath string `yaml:"db_path"`
	// MetricsFile receives generation metrics in Prometheus text format on
	// exit when set.
	MetricsFile string           `yaml:"metrics_file"`
	LogUseCases bool             `yaml:"log_use_cases"`
	LLM         LLMSettings      `yaml:"llm"`
	Estimating  EstimatingConfig `yaml:"estimating"`
}

// LLMSettings overlays llm.DefaultConfig. Zero values keep the default.
type LLMSettings struct {
	Provider          string   `yaml:"provider"`
	APIKey            string   `yaml:"api_key"`
	Enabled           bool     `yaml:"enabled"`
	LogCalls          bool     `yaml:"log_calls"`
	Endpoint          string   `yaml:"endpoint"`
	Model             string   `yaml:"model"`
	TimeoutMs         int      `yaml:"timeout_ms"`
	MaxTokens         int      `yaml:"max_tokens"`
	EstimateTimeoutMs int      `yaml:"estimate_timeout_ms"`
	Temperature       *float64 `yaml:"temperature"`
}

// EstimatingConfig holds the rollup parameters.
type EstimatingConfig struct {
	BillableHoursPerMonth float64 `yaml:"billable_hours_per_month"`
	MonthsPerPeriod       int     `yaml:"months_per_period"`
	// EscalationPct is the annual rate increase in percent (3 = 3%).
	EscalationPct float64 `yaml:"escalation_pct"`
}

// DefaultConfig returns a Config with sensible defaults. DBPath is resolved
// against the home directory by Load.
func DefaultConfig() *Config {
	return &Config{
		Estimating: EstimatingConfig{
			BillableHoursPerMonth: aggregation.DefaultBillableHoursPerMonth,
			MonthsPerPeriod:       aggregation.DefaultMonthsInPeriod,
			EscalationPct:         3,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Estimating.BillableHoursPerMonth <= 0 {
		return fmt.Errorf("estimating.billable_hours_per_month must be positive")
	}
	if c.Estimating.MonthsPerPeriod <= 0 {
		return fmt.Errorf("estimating.months_per_period must be positive")
	}
	if c.Estimating.EscalationPct < 0 {
		return fmt.Errorf("estimating.escalation_pct must not be negative")
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("llm.temperature must be between 0 and 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Load resolves the config file (TRUEBID_CONFIG or ~/.truebid/config.yaml),
// applies environment overrides and validates the result. A missing default
// file is not an error; a missing TRUEBID_CONFIG file is.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}

	cfg := DefaultConfig()
	if path := os.Getenv("TRUEBID_CONFIG"); path != "" {
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	} else {
		loaded, err := LoadFromFile(filepath.Join(home, ".truebid", "config.yaml"))
		switch {
		case err == nil:
			cfg = loaded
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	cfg.ApplyEnv()
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(home, ".truebid", "truebid.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays TRUEBID_DB, TRUEBID_METRICS_FILE and
// TRUEBID_LOG_USE_CASES. LLM variables are applied by LLMConfig.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TRUEBID_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("TRUEBID_METRICS_FILE"); v != "" {
		c.MetricsFile = v
	}
	if v := os.Getenv("TRUEBID_LOG_USE_CASES"); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
}

// LLMConfig merges the file settings over llm.DefaultConfig, then applies
// the TRUEBID_LLM_* environment.
func (c *Config) LLMConfig() llm.LLMConfig {
	out := llm.DefaultConfig()
	s := c.LLM

	if s.Provider != "" {
		out.UseProvider(s.Provider)
	}
	if s.APIKey != "" {
		out.APIKey = s.APIKey
	}
	out.Enabled = s.Enabled
	out.LogCalls = s.LogCalls
	if s.Endpoint != "" {
		out.Endpoint = s.Endpoint
	}
	if s.Model != "" {
		out.Model = s.Model
	}
	if s.TimeoutMs > 0 {
		out.TimeoutMs = s.TimeoutMs
	}

	task := out.Tasks[llm.TaskEstimate]
	if s.MaxTokens > 0 {
		task.MaxTokens = s.MaxTokens
	}
	if s.EstimateTimeoutMs > 0 {
		task.TimeoutMs = s.EstimateTimeoutMs
	}
	if s.Temperature != nil {
		task.Temperature = *s.Temperature
	}
	out.Tasks[llm.TaskEstimate] = task

	return llm.ApplyEnv(out)
}

// SummaryOptions converts the estimating parameters for the rollup views.
func (c *Config) SummaryOptions() aggregation.SummaryOptions {
	return aggregation.SummaryOptions{
		FTE: aggregation.FTEParams{
			MonthsInPeriod:        c.Estimating.MonthsPerPeriod,
			BillableHoursPerMonth: c.Estimating.BillableHoursPerMonth,
		},
		EscalationRate: c.Estimating.EscalationPct / 100,
	}
}
