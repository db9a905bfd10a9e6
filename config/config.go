package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the config file name looked up in the working directory.
	DefaultConfigFile = "capembed.yaml"
	// StateDirName holds per-directory state: the provider-call cache and an
	// alternate config location.
	StateDirName = ".capembed"
)

// Config holds all configuration for the embedding pipeline.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// InputConfig describes the source tables to read.
type InputConfig struct {
	Paths             []string `yaml:"paths"`              // files or doublestar globs
	IDColumn          string   `yaml:"id_column"`          // identifier column name
	DescriptionColumn string   `yaml:"description_column"` // description column name
}

// OutputConfig describes the embeddings file to write.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "openai-compatible", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	BaseURL   string `yaml:"base_url"`    // openai-compatible / ollama endpoint
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	Dimension int    `yaml:"dimension"`   // 0 = model default
}

// CacheConfig holds the provider-call cache configuration.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default .capembed/cache.db
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration. The defaults are usable
// offline: the mock provider needs no endpoint and no API key.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Paths:             []string{"Capital_Projects_clean.csv"},
			IDColumn:          "PID",
			DescriptionColumn: "Description",
		},
		Output: OutputConfig{
			Path: "embeddings.csv",
		},
		Embedding: EmbeddingConfig{
			Provider:  "mock",
			Model:     "all-minilm",
			BaseURL:   "",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 0,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    "",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for capembed.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try capembed.yaml in the directory
	path := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .capembed/config.yaml
	path = filepath.Join(dir, StateDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the provider-call cache path, honoring an override.
func CacheDBPath(dir, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(dir, StateDirName, "cache.db")
}

// EnsureStateDir ensures the .capembed directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, StateDirName), 0755)
}
