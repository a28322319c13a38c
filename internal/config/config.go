// Package config loads Pulsepanion settings from an optional YAML file and
// PULSEPANION_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Providers understood by the llm package.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	LLM   LLM   `mapstructure:"llm"`
	Log   Log   `mapstructure:"log"`
	Audit Audit `mapstructure:"audit"`
	HTTP  HTTP  `mapstructure:"http"`
}

// LLM configures the text-generation service. APIKey is never read from
// source; it comes from the environment or the config file.
type LLM struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Audit struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

var defaults = map[string]any{
	"llm.provider":  ProviderOpenAI,
	"llm.model":     "",
	"llm.base_url":  "",
	"llm.api_key":   "",
	"llm.timeout":   "60s",
	"log.level":     "info",
	"log.format":    "console",
	"audit.enabled": true,
	"audit.path":    "",
	"http.addr":     ":8080",
}

// Default models per provider when llm.model is unset.
var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4",
	ProviderGemini: "gemini-2.0-flash",
}

// Load reads configuration. An explicit path must exist; otherwise
// pulsepanion.yaml is looked up in ~/.pulsepanion and the working directory
// and skipped when absent. Environment variables override the file, e.g.
// PULSEPANION_LLM_MODEL for llm.model.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("PULSEPANION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pulsepanion")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pulsepanion"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerKeyFromEnv(cfg.LLM.Provider)
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q (use openai or gemini)", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	return nil
}

func providerKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGemini:
		if k := os.Getenv("GEMINI_API_KEY"); k != "" {
			return k
		}
		return os.Getenv("GOOGLE_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// DefaultAuditPath is $PULSEPANION_AUDIT_DB or ~/.pulsepanion/audit.db.
func DefaultAuditPath() string {
	if env := os.Getenv("PULSEPANION_AUDIT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pulsepanion", "audit.db")
}
