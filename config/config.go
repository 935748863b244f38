// Package config loads the toolchain configuration from a YAML file with
// environment overrides. A .env file is loaded first if present; secrets
// (API keys) are only ever read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pawpedia/store"
)

// Duration is a time.Duration that unmarshals from YAML strings like "60s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// LLMConfig selects and configures the text-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"-"`
}

// StoreConfig selects the content store backend.
type StoreConfig struct {
	Backend    string            `yaml:"backend"`
	Redis      store.RedisConfig `yaml:"redis"`
	SQLitePath string            `yaml:"sqlite_path"`
}

// TaskConfig bounds one pipeline task's pacing and failure policy.
type TaskConfig struct {
	SuccessDelay     Duration `yaml:"success_delay"`
	FailureDelay     Duration `yaml:"failure_delay"`
	MaxAttempts      int      `yaml:"max_attempts"`
	BaseDelay        Duration `yaml:"base_delay"`
	BreakerThreshold uint32   `yaml:"breaker_threshold"`
}

// TasksConfig groups the per-task settings and inputs.
type TasksConfig struct {
	Blogs struct {
		TaskConfig `yaml:",inline"`
		Topics     []string `yaml:"topics"`
	} `yaml:"blogs"`
	Facts struct {
		TaskConfig `yaml:",inline"`
		Count      int `yaml:"count"`
	} `yaml:"facts"`
	Breeds struct {
		TaskConfig `yaml:",inline"`
	} `yaml:"breeds"`
	Shop struct {
		// Categories maps shop category names to seed ASINs.
		Categories map[string]string `yaml:"categories"`
	} `yaml:"shop"`
}

// AmazonConfig points at the affiliate product endpoint.
type AmazonConfig struct {
	Endpoint   string `yaml:"endpoint"`
	PartnerTag string `yaml:"partner_tag"`
}

// Config is the root configuration.
type Config struct {
	LLM        LLMConfig    `yaml:"llm"`
	Store      StoreConfig  `yaml:"store"`
	DogAPIBase string       `yaml:"dog_api_base"`
	Amazon     AmazonConfig `yaml:"amazon"`
	Tasks      TasksConfig  `yaml:"tasks"`
	ServerAddr string       `yaml:"server_addr"`
	LogLevel   string       `yaml:"log_level"`
}

// Load reads the YAML file at path, then applies environment overrides.
// A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	// .env is optional; a missing file is fine.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// run on defaults
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		c.Store.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.Redis.DB = db
		}
	}
	if v := os.Getenv("AMAZON_ENDPOINT"); v != "" {
		c.Amazon.Endpoint = v
	}
	if v := os.Getenv("AMAZON_PARTNER_TAG"); v != "" {
		c.Amazon.PartnerTag = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "sqlite"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/pawpedia.db"
	}
	if c.Store.Redis.Address == "" {
		c.Store.Redis.Address = "localhost:6379"
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	applyTaskDefaults(&c.Tasks.Blogs.TaskConfig, 60*time.Second, 5*time.Second)
	applyTaskDefaults(&c.Tasks.Facts.TaskConfig, time.Second, time.Second)
	applyTaskDefaults(&c.Tasks.Breeds.TaskConfig, 10*time.Second, 5*time.Second)

	if len(c.Tasks.Blogs.Topics) == 0 {
		c.Tasks.Blogs.Topics = DefaultBlogTopics
	}
	if c.Tasks.Facts.Count <= 0 {
		c.Tasks.Facts.Count = 50
	}
	if len(c.Tasks.Shop.Categories) == 0 {
		c.Tasks.Shop.Categories = DefaultShopCategories
	}
}

func applyTaskDefaults(t *TaskConfig, successDelay, failureDelay time.Duration) {
	if t.SuccessDelay <= 0 {
		t.SuccessDelay = Duration(successDelay)
	}
	if t.FailureDelay <= 0 {
		t.FailureDelay = Duration(failureDelay)
	}
	if t.MaxAttempts <= 0 {
		t.MaxAttempts = 3
	}
	if t.BaseDelay <= 0 {
		t.BaseDelay = Duration(time.Second)
	}
	if t.BreakerThreshold == 0 {
		t.BreakerThreshold = 3
	}
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "redis", "sqlite":
	default:
		return fmt.Errorf("unknown store backend %q (valid: redis, sqlite)", c.Store.Backend)
	}
	switch c.LLM.Provider {
	case "openai", "mock":
	default:
		return fmt.Errorf("unknown llm provider %q (valid: openai, mock)", c.LLM.Provider)
	}
	if c.LLM.Provider == "openai" && c.LLM.Model == "" {
		return errors.New("llm.model is required for the openai provider")
	}
	return nil
}
