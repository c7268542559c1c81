package llm

import (
	"os"
	"strconv"
	"time"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	// TaskExtract reads contract text into a contract analysis.
	TaskExtract TaskType = "extract"
	// TaskSummarize writes the scope summary paragraph of a report.
	TaskSummarize TaskType = "summarize"
	// TaskSubmittals reads specifications into submittal requirements.
	TaskSubmittals TaskType = "submittals"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Enabled           bool
	LogCalls          bool
	Endpoint          string
	APIKey            string
	Model             string
	TimeoutMs         int
	MaxRetries        int
	BackoffBase       time.Duration
	RequestsPerMinute int
	// BreakerFailures is the run of consecutive failed calls that opens
	// the circuit; BreakerCooldown is how long it stays open.
	BreakerFailures int
	BreakerCooldown time.Duration
	Tasks           map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Enabled:           false,
		LogCalls:          false,
		Endpoint:          "https://api.anthropic.com",
		Model:             "claude-sonnet-4-20250514",
		TimeoutMs:         60000,
		MaxRetries:        2,
		BackoffBase:       500 * time.Millisecond,
		RequestsPerMinute: 30,
		BreakerFailures:   5,
		BreakerCooldown:   30 * time.Second,
		Tasks: map[TaskType]TaskConfig{
			TaskExtract:    {Temperature: 0, MaxTokens: 4096, TimeoutMs: 90000},
			TaskSummarize:  {Temperature: 0.3, MaxTokens: 1024, TimeoutMs: 30000},
			TaskSubmittals: {Temperature: 0, MaxTokens: 8000, TimeoutMs: 120000},
		},
	}
}

// LoadConfig reads LLM configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()

	if v := os.Getenv("GLAZINGPM_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GLAZINGPM_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("GLAZINGPM_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("GLAZINGPM_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	if v := os.Getenv("GLAZINGPM_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("GLAZINGPM_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("GLAZINGPM_LLM_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestsPerMinute = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskExtract, "GLAZINGPM_LLM_EXTRACT_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSummarize, "GLAZINGPM_LLM_SUMMARIZE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskSubmittals, "GLAZINGPM_LLM_SUBMITTALS_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
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
