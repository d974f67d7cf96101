package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_DefaultsWhenFileMissing(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).WithDotEnv(false)

	result, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if result.Path != "" {
		t.Errorf("expected empty path for missing file, got %q", result.Path)
	}
	if result.Config.Audio.SampleRate != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", result.Config.Audio.SampleRate)
	}
	if result.Config.Wake.Phrase != "hey mars" {
		t.Errorf("expected default wake phrase, got %q", result.Config.Wake.Phrase)
	}
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
wake:
  phrase: "hey nova"
  window_duration: 3s
audio:
  silence_duration: 2s
ai:
  model_name: gpt-4o-mini
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	result, err := NewLoader(path).WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	cfg := result.Config
	if cfg.Wake.Phrase != "hey nova" {
		t.Errorf("wake phrase = %q, expected %q", cfg.Wake.Phrase, "hey nova")
	}
	if cfg.Wake.WindowDuration.Std() != 3*time.Second {
		t.Errorf("window duration = %v, expected 3s", cfg.Wake.WindowDuration)
	}
	if cfg.Audio.SilenceDuration.Std() != 2*time.Second {
		t.Errorf("silence duration = %v, expected 2s", cfg.Audio.SilenceDuration)
	}
	if cfg.AI.ModelName != "gpt-4o-mini" {
		t.Errorf("model name = %q, expected gpt-4o-mini", cfg.AI.ModelName)
	}
	// Untouched sections keep their defaults.
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("sample rate = %d, expected default 16000", cfg.Audio.SampleRate)
	}
}

func TestLoader_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-123")

	result, err := NewLoader("").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if result.Config.AI.APIKey != "sk-test-123" {
		t.Errorf("api key = %q, expected env value", result.Config.AI.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, true},
		{"stereo rejected", func(c *Config) { c.Audio.Channels = 2 }, true},
		{"empty wake phrase", func(c *Config) { c.Wake.Phrase = "" }, true},
		{"threshold out of range", func(c *Config) {
			c.Speaker.Enabled = true
			c.Speaker.Threshold = 1.5
		}, true},
		{"threshold at boundary", func(c *Config) {
			c.Speaker.Enabled = true
			c.Speaker.Threshold = 1.0
		}, false},
		{"zero tool rounds", func(c *Config) { c.AI.MaxToolRounds = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
