// Package config loads aimesh configuration from an optional YAML file with
// environment variable overrides. A missing file is not an error: defaults
// plus environment are enough to run with builtin workflows only.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config gates which workflow implementations bootstrap registers and
// promotes. Empty URL / API key fields leave the corresponding
// implementation unavailable and resolution falls back to builtins.
type Config struct {
	Research  ResearchConfig `yaml:"research"`
	OpenAI    ProviderConfig `yaml:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// ResearchConfig configures the webhook research implementation.
type ResearchConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	APIKey     string `yaml:"api_key"`
	// Timeout bounds non-streaming research calls. Streaming calls are
	// deliberately unbounded; cancel their context to stop them.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig configures a model provider backed implementation.
type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() Config {
	return Config{
		Research: ResearchConfig{Timeout: 60 * time.Second},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads the config file named by AIMESH_CONFIG (default
// config/aimesh.yaml), expands ${VAR} references, and applies environment
// overrides on top.
func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("AIMESH_CONFIG")
	if path == "" {
		path = "config/aimesh.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults + env
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AIMESH_RESEARCH_WEBHOOK_URL"); v != "" {
		cfg.Research.WebhookURL = v
	}
	if v := os.Getenv("AIMESH_RESEARCH_API_KEY"); v != "" {
		cfg.Research.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := os.Getenv("AIMESH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AIMESH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
