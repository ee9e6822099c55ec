package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
	APIKey string `yaml:"api_key"`

	OllamaBaseURL         string `yaml:"ollama_base_url"`
	OllamaTimeoutSecs     int    `yaml:"ollama_timeout_secs"`
	OllamaPullTimeoutSecs int    `yaml:"ollama_pull_timeout_secs"`

	// Session management is disabled when AuthBaseURL is empty.
	AuthBaseURL          string `yaml:"auth_base_url"`
	AuthToken            string `yaml:"auth_token"`
	AuthPollIntervalSecs int    `yaml:"auth_poll_interval_secs"`

	// Maintenance resolution short-circuits to disabled when
	// EdgeConfigURL is empty.
	EdgeConfigURL   string `yaml:"edge_config_url"`
	EdgeConfigToken string `yaml:"edge_config_token"`

	LogLevel string `yaml:"log_level"`
}

// Load builds the configuration: defaults, then the optional YAML file
// named by GATEWAY_CONFIG, then environment variables. Env always wins.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  8080,
		DBPath:                "/data/gateway.db",
		OllamaBaseURL:         "http://localhost:11434",
		OllamaTimeoutSecs:     10,
		OllamaPullTimeoutSecs: 300,
		AuthPollIntervalSecs:  5,
		LogLevel:              "info",
	}

	if path := os.Getenv("GATEWAY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.DBPath = envStr("GATEWAY_DB_PATH", cfg.DBPath)
	cfg.APIKey = envStr("API_KEY", cfg.APIKey)
	cfg.OllamaBaseURL = envStr("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	cfg.OllamaTimeoutSecs = envInt("OLLAMA_TIMEOUT_SECS", cfg.OllamaTimeoutSecs)
	cfg.OllamaPullTimeoutSecs = envInt("OLLAMA_PULL_TIMEOUT_SECS", cfg.OllamaPullTimeoutSecs)
	cfg.AuthBaseURL = envStr("AUTH_BASE_URL", cfg.AuthBaseURL)
	cfg.AuthToken = envStr("AUTH_TOKEN", cfg.AuthToken)
	cfg.AuthPollIntervalSecs = envInt("AUTH_POLL_INTERVAL_SECS", cfg.AuthPollIntervalSecs)
	cfg.EdgeConfigURL = envStr("EDGE_CONFIG_URL", cfg.EdgeConfigURL)
	cfg.EdgeConfigToken = envStr("EDGE_CONFIG_TOKEN", cfg.EdgeConfigToken)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("GATEWAY_DB_PATH must not be empty")
	}
	if c.OllamaBaseURL == "" {
		return fmt.Errorf("OLLAMA_BASE_URL must not be empty")
	}
	if c.OllamaTimeoutSecs < 1 || c.OllamaPullTimeoutSecs < 1 {
		return fmt.Errorf("ollama timeouts must be positive")
	}
	if c.AuthBaseURL != "" && c.AuthPollIntervalSecs < 1 {
		return fmt.Errorf("AUTH_POLL_INTERVAL_SECS must be positive, got %d", c.AuthPollIntervalSecs)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
