// Package tts turns reply text into audio and plays it on the default
// output device.
package tts

import (
	"context"
	"fmt"
)

// Provider synthesizes speech. The returned bytes are MP3 encoded.
type Provider interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Cleanup releases backend resources.
	Cleanup() error
}

// Config holds the synthesis backend settings.
type Config struct {
	Voice string `yaml:"voice"`
}

// Factory creates a synthesis provider for a config.
type Factory func(config *Config) (Provider, error)

var factories = make(map[string]Factory)

// Register registers a synthesis provider factory.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create creates a synthesis provider by registered name.
func Create(name string, config *Config) (Provider, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown tts provider: %s", name)
	}

	provider, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create tts provider %s: %w", name, err)
	}

	return provider, nil
}
