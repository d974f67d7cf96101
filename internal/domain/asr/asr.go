package asr

import (
	"context"
	"fmt"
)

// Provider converts a buffered audio window into text. Stateless per
// call; implementations own their backend client.
type Provider interface {
	// Transcribe returns the transcript for one utterance of 16-bit mono
	// PCM at the configured sample rate.
	Transcribe(ctx context.Context, samples []int16) (string, error)

	// Cleanup releases backend resources.
	Cleanup() error
}

// Config holds the transcription backend settings.
type Config struct {
	ModelName  string `yaml:"model_name"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"url"`
	SampleRate int    `yaml:"sample_rate"`
	Language   string `yaml:"language"`
}

// Factory creates a transcription provider for a config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a transcription provider factory.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create creates a transcription provider by registered name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown asr provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create asr provider %s: %w", name, err)
	}

	return provider, nil
}
