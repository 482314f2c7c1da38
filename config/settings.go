// Package config provides process configuration loaded from environment variables.
//
// Config is created via Load() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider alias normalization

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/richinex/pagebrief/storage"
)

// Config holds all process configuration.
type Config struct {
	DBPath         string        `env:"PAGEBRIEF_DB"`
	Provider       string        `env:"PAGEBRIEF_PROVIDER"`
	Timeout        time.Duration `env:"PAGEBRIEF_TIMEOUT"         envDefault:"20s"`
	FetchTimeout   time.Duration `env:"PAGEBRIEF_FETCH_TIMEOUT"   envDefault:"15s"`
	ChunkThreshold int           `env:"PAGEBRIEF_CHUNK_THRESHOLD" envDefault:"10000"`
	ChunkSize      int           `env:"PAGEBRIEF_CHUNK_SIZE"      envDefault:"6000"`
	LogLevel       string        `env:"PAGEBRIEF_LOG_LEVEL"       envDefault:"warn"`

	GeminiKey     string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	AnthropicKey  string `env:"ANTHROPIC_API_KEY"`
	ClaudeKey     string `env:"CLAUDE_API_KEY"`
	ClaudeModel   string `env:"CLAUDE_MODEL"`
	ClaudeBaseURL string `env:"ANTHROPIC_BASE_URL"`
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"gemini":    "gemini",
	"google":    "gemini",
	"claude":    "claude",
	"anthropic": "claude",
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Provider != "" {
		canonical, ok := NormalizeProvider(cfg.Provider)
		if !ok {
			return Config{}, fmt.Errorf("unknown provider: %q", cfg.Provider)
		}
		cfg.Provider = canonical
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid value for PAGEBRIEF_TIMEOUT: %s", cfg.Timeout)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid value for PAGEBRIEF_FETCH_TIMEOUT: %s", cfg.FetchTimeout)
	}
	if cfg.ChunkThreshold <= 0 {
		return Config{}, fmt.Errorf("invalid value for PAGEBRIEF_CHUNK_THRESHOLD: %d", cfg.ChunkThreshold)
	}
	if cfg.ChunkSize <= 0 {
		return Config{}, fmt.Errorf("invalid value for PAGEBRIEF_CHUNK_SIZE: %d", cfg.ChunkSize)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid value for PAGEBRIEF_LOG_LEVEL: %q: %w", cfg.LogLevel, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	return cfg, nil
}

// NormalizeProvider converts provider aliases to canonical names.
func NormalizeProvider(provider string) (string, bool) {
	canonical, ok := providerAliases[strings.ToLower(strings.TrimSpace(provider))]
	return canonical, ok
}

// DefaultDBPath is the settings database location when PAGEBRIEF_DB is unset.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagebrief.db"
	}
	return filepath.Join(home, ".pagebrief", "settings.db")
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}

// ClaudeAPIKey returns ANTHROPIC_API_KEY, falling back to CLAUDE_API_KEY.
func (c Config) ClaudeAPIKey() string {
	if c.AnthropicKey != "" {
		return c.AnthropicKey
	}
	return c.ClaudeKey
}

// SettingsSeed returns the settings values provided by the environment,
// keyed by settings store key. Unset variables are omitted.
func (c Config) SettingsSeed() map[string]string {
	seed := make(map[string]string)
	add := func(key, value string) {
		if value != "" {
			seed[key] = value
		}
	}
	add(storage.KeyActiveProvider, c.Provider)
	add(storage.KeyGeminiKey, c.GeminiKey)
	add(storage.KeyModelGemini, c.GeminiModel)
	add(storage.KeyClaudeKey, c.ClaudeAPIKey())
	add(storage.KeyModelClaude, c.ClaudeModel)
	return seed
}
