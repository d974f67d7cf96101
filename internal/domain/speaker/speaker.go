// Package speaker gates commands on the voice of the enrolled user. An
// encoder backend turns an utterance into a fixed-length embedding; the
// verifier compares it against the stored profile by cosine similarity.
package speaker

import (
	"context"
	"fmt"
	"math"
)

// Encoder produces a speaker embedding for one utterance of 16-bit mono
// PCM audio.
type Encoder interface {
	Embed(ctx context.Context, samples []int16) ([]float32, error)

	// Cleanup releases backend resources.
	Cleanup() error
}

// Config holds the encoder backend settings.
type Config struct {
	EndpointURL string `yaml:"endpoint_url"`
	SampleRate  int    `yaml:"sample_rate"`
	Dimensions  int    `yaml:"dimensions"`
}

// Factory creates an embedding encoder for a config.
type Factory func(config *Config) (Encoder, error)

var factories = make(map[string]Factory)

// Register registers an encoder factory.
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create creates an encoder by registered name.
func Create(name string, config *Config) (Encoder, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown speaker encoder: %s", name)
	}

	encoder, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create speaker encoder %s: %w", name, err)
	}

	return encoder, nil
}

// CosineSimilarity measures how aligned two embeddings are, in [-1, 1].
// A zero-magnitude vector on either side yields 0 so that degenerate
// embeddings never pass a positive threshold.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
