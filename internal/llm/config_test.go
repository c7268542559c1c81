package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.TaskTimeout(TaskExtract))
	assert.Equal(t, 2*time.Minute, cfg.TaskTimeout(TaskSubmittals))
	assert.Equal(t, "https://api.anthropic.com", cfg.Endpoint)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GLAZINGPM_LLM_ENABLED", "true")
	t.Setenv("GLAZINGPM_LLM_MODEL", "claude-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("GLAZINGPM_LLM_TIMEOUT_MS", "9000")
	t.Setenv("GLAZINGPM_LLM_EXTRACT_TIMEOUT_MS", "15000")
	t.Setenv("GLAZINGPM_LLM_SUBMITTALS_TIMEOUT_MS", "45000")
	t.Setenv("GLAZINGPM_LLM_REQUESTS_PER_MINUTE", "12")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "claude-test", cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 12, cfg.RequestsPerMinute)
	assert.Equal(t, 15*time.Second, cfg.TaskTimeout(TaskExtract))
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskSummarize))
	assert.Equal(t, 45*time.Second, cfg.TaskTimeout(TaskSubmittals))
}

func TestLoadConfig_InvalidOverridesIgnored(t *testing.T) {
	t.Setenv("GLAZINGPM_LLM_EXTRACT_TIMEOUT_MS", "not-a-number")
	t.Setenv("GLAZINGPM_LLM_MAX_RETRIES", "-1")

	cfg := LoadConfig()

	assert.Equal(t, 90*time.Second, cfg.TaskTimeout(TaskExtract))
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestTaskTimeout_FallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tasks = nil
	assert.Equal(t, 60*time.Second, cfg.TaskTimeout(TaskExtract))
}
