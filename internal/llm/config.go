package llm

import (
	"os"
	"strconv"
	"strings"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskEstimate TaskType = "estimate"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

const (
	DefaultAnthropicEndpoint = "https://api.anthropic.com"
	DefaultAnthropicModel    = "claude-sonnet-4-20250514"
	DefaultOllamaEndpoint    = "http://localhost:11434"
	DefaultOllamaModel       = "llama3.1"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   string
	APIKey     string
	Enabled    bool // required for providers without an API key (ollama)
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. Without an API
// key the estimator runs offline.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderAnthropic,
		Endpoint:   DefaultAnthropicEndpoint,
		Model:      DefaultAnthropicModel,
		TimeoutMs:  60000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskEstimate: {Temperature: 0.2, MaxTokens: 16000, TimeoutMs: 180000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	return ApplyEnv(DefaultConfig())
}

// ApplyEnv overlays TRUEBID_LLM_* environment variables onto cfg.
// ANTHROPIC_API_KEY is honored when TRUEBID_LLM_API_KEY is unset.
func ApplyEnv(cfg LLMConfig) LLMConfig {
	cfg.Tasks = cloneTasks(cfg.Tasks)

	if v := os.Getenv("TRUEBID_LLM_PROVIDER"); v != "" {
		cfg.UseProvider(v)
	}
	if v := os.Getenv("TRUEBID_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	} else if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TRUEBID_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TRUEBID_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TRUEBID_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TRUEBID_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TRUEBID_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TRUEBID_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("TRUEBID_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tc := cfg.Tasks[TaskEstimate]
			tc.MaxTokens = n
			cfg.Tasks[TaskEstimate] = tc
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskEstimate, "TRUEBID_LLM_ESTIMATE_TIMEOUT_MS")

	return cfg
}

// UseProvider switches the provider. Endpoint and model are replaced only
// while they still hold the previous provider's defaults.
func (c *LLMConfig) UseProvider(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == c.Provider {
		return
	}
	oldEndpoint, oldModel := providerDefaults(c.Provider)
	newEndpoint, newModel := providerDefaults(name)
	if c.Endpoint == "" || c.Endpoint == oldEndpoint {
		c.Endpoint = newEndpoint
	}
	if c.Model == "" || c.Model == oldModel {
		c.Model = newModel
	}
	c.Provider = name
}

func providerDefaults(name string) (endpoint, model string) {
	switch name {
	case ProviderAnthropic:
		return DefaultAnthropicEndpoint, DefaultAnthropicModel
	case ProviderOllama:
		return DefaultOllamaEndpoint, DefaultOllamaModel
	}
	return "", ""
}

// HasCredential reports whether the configured provider can be called.
// Anthropic needs an API key; a local ollama server needs Enabled.
func (c LLMConfig) HasCredential() bool {
	switch c.Provider {
	case ProviderOllama:
		return c.Enabled
	default:
		return strings.TrimSpace(c.APIKey) != ""
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}

func cloneTasks(in map[TaskType]TaskConfig) map[TaskType]TaskConfig {
	out := make(map[TaskType]TaskConfig, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
