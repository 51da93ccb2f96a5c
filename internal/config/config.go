// Package config loads service configuration from config.yaml and
// PATHWISE_-prefixed environment variables, env taking precedence.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Generator GeneratorConfig `koanf:"generator"`
	Storage   StorageConfig   `koanf:"storage"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type GeneratorConfig struct {
	APIKey          string `koanf:"api_key"`
	BaseURL         string `koanf:"base_url"`
	Model           string `koanf:"model"`
	MaxTokens       int    `koanf:"max_tokens"`
	Timeout         string `koanf:"timeout"`           // Duration string like "30s"
	MaxRetries      int    `koanf:"max_retries"`       // Extra attempts after the first
	MaxPromptTokens int    `koanf:"max_prompt_tokens"` // Upper bound on the assembled prompt
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // sqlite, none
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load from config.yaml file first
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider("PATHWISE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PATHWISE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	defaults := map[string]any{
		"server.port":                 8080,
		"generator.model":             "claude-3-5-sonnet-20241022",
		"generator.max_tokens":        2048,
		"generator.timeout":           "30s",
		"generator.max_retries":       2,
		"generator.max_prompt_tokens": 8192,
		"storage.type":                "sqlite",
		"storage.sqlite.path":         "./data/pathwise.db",
	}
	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Substitute environment variables in the API key
	cfg.Generator.APIKey = substituteEnvVars(cfg.Generator.APIKey)

	return &cfg, nil
}

// TimeoutDuration parses the generator timeout string.
func (g GeneratorConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid generator.timeout %q: %w", g.Timeout, err)
	}
	return d, nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
