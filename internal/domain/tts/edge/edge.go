// Package edge synthesizes speech through the Microsoft Edge TTS
// service, which needs no API key.
package edge

import (
	"context"
	"strings"

	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"mars-assistant-go/internal/domain/tts"
	platformerrors "mars-assistant-go/internal/platform/errors"
)

const defaultVoice = "en-US-AriaNeural"

func init() {
	tts.Register("edge", func(config *tts.Config) (tts.Provider, error) {
		return NewProvider(config), nil
	})
}

// Provider synthesizes MP3 audio with a fixed voice.
type Provider struct {
	voice string
}

// NewProvider builds the synthesizer, falling back to the default voice.
func NewProvider(config *tts.Config) *Provider {
	voice := config.Voice
	if voice == "" {
		voice = defaultVoice
	}
	return &Provider{voice: voice}
}

// Synthesize renders text to MP3. Each call opens a fresh connection to
// the service; the library does not support reuse.
func (p *Provider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, platformerrors.New(platformerrors.KindUnknown, "tts.synthesize",
			"nothing to say")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	communicate, err := edge_tts.NewCommunicate(text, edge_tts.SetVoice(p.voice))
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "tts.synthesize",
			"connecting to the speech service", err)
	}

	audio, err := communicate.Stream()
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "tts.synthesize",
			"speech synthesis failed", err)
	}

	return audio, nil
}

// Cleanup releases backend resources. Connections are per-call.
func (p *Provider) Cleanup() error { return nil }
