package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"mars-assistant-go/internal/domain/asr"
	"mars-assistant-go/internal/domain/audio"
)

// Provider transcribes audio through the OpenAI-compatible audio API.
type Provider struct {
	config *asr.Config
	client *openai.Client
}

func init() {
	asr.Register("openai", NewProvider)
}

// NewProvider creates an OpenAI transcription provider.
func NewProvider(config *asr.Config) (asr.Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	provider := &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
	if provider.config.ModelName == "" {
		provider.config.ModelName = openai.Whisper1
	}

	return provider, nil
}

// Transcribe uploads the utterance as WAV and returns the stripped text.
func (p *Provider) Transcribe(ctx context.Context, samples []int16) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}

	wav := audio.EncodeWAV(samples, p.config.SampleRate)

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.config.ModelName,
		FilePath: "utterance.wav",
		Reader:   bytes.NewReader(wav),
		Language: p.config.Language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// Cleanup releases backend resources.
func (p *Provider) Cleanup() error {
	return nil
}
