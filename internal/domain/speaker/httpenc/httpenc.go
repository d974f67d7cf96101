// Package httpenc talks to an external speaker-encoder service over
// HTTP. The service accepts a WAV body and answers with the embedding
// vector as JSON.
package httpenc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"mars-assistant-go/internal/domain/audio"
	"mars-assistant-go/internal/domain/speaker"
	platformerrors "mars-assistant-go/internal/platform/errors"
)

func init() {
	speaker.Register("http", func(config *speaker.Config) (speaker.Encoder, error) {
		return NewEncoder(config)
	})
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Encoder posts utterances to a remote embedding endpoint.
type Encoder struct {
	endpoint   string
	sampleRate int
	dimensions int
	client     *http.Client
}

// NewEncoder validates the endpoint settings and builds the client.
func NewEncoder(config *speaker.Config) (*Encoder, error) {
	if config.EndpointURL == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "speaker.httpenc",
			"encoder endpoint URL is required")
	}

	sampleRate := config.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	return &Encoder{
		endpoint:   config.EndpointURL,
		sampleRate: sampleRate,
		dimensions: config.Dimensions,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// Embed sends the utterance as WAV and decodes the returned vector.
func (e *Encoder) Embed(ctx context.Context, samples []int16) ([]float32, error) {
	if len(samples) == 0 {
		return nil, platformerrors.New(platformerrors.KindSpeaker, "speaker.embed",
			"empty utterance")
	}

	body := audio.EncodeWAV(samples, e.sampleRate)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSpeaker, "speaker.embed",
			"building encoder request", err)
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSpeaker, "speaker.embed",
			"calling encoder service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, platformerrors.New(platformerrors.KindSpeaker, "speaker.embed",
			fmt.Sprintf("encoder service returned status %d", resp.StatusCode))
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSpeaker, "speaker.embed",
			"reading encoder response", err)
	}

	var decoded embedResponse
	if err := sonic.Unmarshal(payload, &decoded); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSpeaker, "speaker.embed",
			"decoding encoder response", err)
	}

	if e.dimensions > 0 && len(decoded.Embedding) != e.dimensions {
		return nil, platformerrors.New(platformerrors.KindSpeaker, "speaker.embed",
			fmt.Sprintf("encoder returned %d dimensions, expected %d", len(decoded.Embedding), e.dimensions))
	}

	return decoded.Embedding, nil
}

// Cleanup closes idle connections.
func (e *Encoder) Cleanup() error {
	e.client.CloseIdleConnections()
	return nil
}
