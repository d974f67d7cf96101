package audio

import (
	"context"
	"fmt"
)

// Source captures mono PCM audio from an input device in fixed-size
// frames. It is the only component that touches hardware.
type Source interface {
	// ReadFrame blocks until the next frame is available or ctx is done.
	ReadFrame(ctx context.Context) (Frame, error)

	// Close releases the underlying device.
	Close() error
}

// Config describes the capture format.
type Config struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
	FrameSize  int `yaml:"frame_size"`
}

// FramesPerSecond reports how many frames cover one second of audio.
func (c Config) FramesPerSecond() float64 {
	return float64(c.SampleRate) / float64(c.FrameSize)
}

// Factory creates a capture source for a config.
type Factory func(config Config) (Source, error)

var factories = make(map[string]Factory)

// Register registers a capture source factory.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create creates a capture source by registered name.
func Create(name string, config Config) (Source, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown audio source: %s", name)
	}

	source, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create audio source %s: %w", name, err)
	}

	return source, nil
}
