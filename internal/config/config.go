// Package config loads the service configuration from per-environment YAML
// files with ${VAR} expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the benji service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Index     IndexConfig     `yaml:"index"`
	Model     ModelConfig     `yaml:"model"`
	Cache     CacheConfig     `yaml:"cache"`
	GPT       GPTConfig       `yaml:"gpt"`
	Wordpress WordpressConfig `yaml:"wordpress"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the Redis connection settings for the vector index.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Name string `yaml:"name"`
}

// ModelConfig holds word-vector model settings.
type ModelConfig struct {
	ArtifactPath   string `yaml:"artifact_path"`
	VocabularyPath string `yaml:"vocabulary_path"`
	StopWordsPath  string `yaml:"stop_words_path"`
}

// CacheConfig holds the post cache location.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// GPTConfig holds completion API settings.
type GPTConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// WordpressConfig holds blog platform settings.
type WordpressConfig struct {
	Protocol string `yaml:"protocol"`
	Hostname string `yaml:"hostname"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	PageSize int    `yaml:"page_size"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	Window int `yaml:"discovery_window"`
	Limit  int `yaml:"limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := filepath.Join("config", fmt.Sprintf("%s.yaml", env))

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Name == "" {
		c.Index.Name = "benji"
	}
	if c.Model.VocabularyPath == "" {
		c.Model.VocabularyPath = "data/vocabulary.json"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "data/posts"
	}
	if c.GPT.Model == "" {
		c.GPT.Model = "gpt-3.5-turbo-instruct"
	}
	if c.GPT.Temperature == 0 {
		c.GPT.Temperature = 0.5
	}
	if c.Wordpress.Protocol == "" {
		c.Wordpress.Protocol = "https"
	}
	if c.Wordpress.PageSize <= 0 {
		c.Wordpress.PageSize = 20
	}
	if c.Search.Window <= 0 {
		c.Search.Window = 200
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.Window > 0 && c.Search.Limit > c.Search.Window {
		return fmt.Errorf("search.limit (%d) cannot exceed search.discovery_window (%d)",
			c.Search.Limit, c.Search.Window)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
