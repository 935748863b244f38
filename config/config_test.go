package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func yamlNode(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(s), &node))
	return node.Content[0]
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: mock\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "data/pawpedia.db", cfg.Store.SQLitePath)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, 60*time.Second, cfg.Tasks.Blogs.SuccessDelay.Std())
	assert.Equal(t, 5*time.Second, cfg.Tasks.Blogs.FailureDelay.Std())
	assert.Equal(t, 3, cfg.Tasks.Blogs.MaxAttempts)
	assert.Equal(t, uint32(3), cfg.Tasks.Blogs.BreakerThreshold)
	assert.Equal(t, time.Second, cfg.Tasks.Facts.SuccessDelay.Std())
	assert.Equal(t, 50, cfg.Tasks.Facts.Count)
	assert.Equal(t, DefaultBlogTopics, cfg.Tasks.Blogs.Topics)
	assert.Equal(t, DefaultShopCategories, cfg.Tasks.Shop.Categories)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: openai
  model: gpt-4o
store:
  backend: redis
  redis:
    address: redis.internal:6379
    db: 2
tasks:
  blogs:
    success_delay: 90s
    failure_delay: 10s
    max_attempts: 5
    breaker_threshold: 4
    topics:
      - Custom Topic One
      - Custom Topic Two
  facts:
    count: 25
  shop:
    categories:
      toys: B000TOYS
server_addr: ":9090"
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Store.Redis.Address)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 90*time.Second, cfg.Tasks.Blogs.SuccessDelay.Std())
	assert.Equal(t, 5, cfg.Tasks.Blogs.MaxAttempts)
	assert.Equal(t, uint32(4), cfg.Tasks.Blogs.BreakerThreshold)
	assert.Equal(t, []string{"Custom Topic One", "Custom Topic Two"}, cfg.Tasks.Blogs.Topics)
	assert.Equal(t, 25, cfg.Tasks.Facts.Count)
	assert.Equal(t, map[string]string{"toys": "B000TOYS"}, cfg.Tasks.Shop.Categories)
	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: mock
store:
  backend: redis
  redis:
    address: from-file:6379
`)
	t.Setenv("REDIS_ADDRESS", "from-env:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env:6379", cfg.Store.Redis.Address)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: mock\nstore:\n  backend: mongodb\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store backend")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: bard\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOpenAIRequiresModel(t *testing.T) {
	t.Setenv("LLM_MODEL", "")
	path := writeConfig(t, "llm:\n  provider: openai\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.model")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: mock\ntasks:\n  blogs:\n    success_delay: sixty\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalYAML(yamlNode(t, "250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Std())
}
