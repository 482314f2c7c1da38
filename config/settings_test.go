package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != 20*time.Second {
		t.Errorf("expected 20s timeout, got %s", cfg.Timeout)
	}
	if cfg.ChunkThreshold != 10000 || cfg.ChunkSize != 6000 {
		t.Errorf("unexpected chunking defaults: %d/%d", cfg.ChunkThreshold, cfg.ChunkSize)
	}
	if cfg.Level() != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %s", cfg.Level())
	}
	if cfg.DBPath == "" {
		t.Error("expected default database path")
	}
	if len(cfg.SettingsSeed()) != 0 {
		t.Errorf("expected empty seed, got %v", cfg.SettingsSeed())
	}
}

func TestLoadWithAlias(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"PAGEBRIEF_PROVIDER": "Anthropic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "claude" {
		t.Errorf("expected provider 'claude' (normalized from 'Anthropic'), got %q", cfg.Provider)
	}
}

func TestLoadUnknownProvider(t *testing.T) {
	_, err := LoadFrom(map[string]string{"PAGEBRIEF_PROVIDER": "openai"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PAGEBRIEF_TIMEOUT":         "soon",
		"PAGEBRIEF_CHUNK_SIZE":      "0",
		"PAGEBRIEF_CHUNK_THRESHOLD": "-1",
		"PAGEBRIEF_LOG_LEVEL":       "loud",
	}
	for key, value := range cases {
		if _, err := LoadFrom(map[string]string{key: value}); err == nil {
			t.Errorf("expected error for %s=%q", key, value)
		}
	}
}

func TestClaudeKeyFallback(t *testing.T) {
	cfg, _ := LoadFrom(map[string]string{"CLAUDE_API_KEY": "from-claude"})
	if cfg.ClaudeAPIKey() != "from-claude" {
		t.Errorf("expected fallback key, got %q", cfg.ClaudeAPIKey())
	}

	cfg, _ = LoadFrom(map[string]string{"CLAUDE_API_KEY": "from-claude", "ANTHROPIC_API_KEY": "from-anthropic"})
	if cfg.ClaudeAPIKey() != "from-anthropic" {
		t.Errorf("expected ANTHROPIC_API_KEY to win, got %q", cfg.ClaudeAPIKey())
	}
}

func TestSettingsSeed(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PAGEBRIEF_PROVIDER": "google",
		"GEMINI_API_KEY":     "g-key",
		"GEMINI_MODEL":       "gemini-2.0-flash",
		"PAGEBRIEF_DB":       "/tmp/pb.db",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seed := cfg.SettingsSeed()
	want := map[string]string{
		"activeProvider": "gemini",
		"geminiKey":      "g-key",
		"modelGemini":    "gemini-2.0-flash",
	}
	if len(seed) != len(want) {
		t.Fatalf("expected %v, got %v", want, seed)
	}
	for k, v := range want {
		if seed[k] != v {
			t.Errorf("seed[%q] = %q, want %q", k, seed[k], v)
		}
	}
	if cfg.DBPath != "/tmp/pb.db" {
		t.Errorf("expected db path override, got %q", cfg.DBPath)
	}
}
