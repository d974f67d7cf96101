package tts

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/gen2brain/malgo"
	mp3 "github.com/hajimehoshi/go-mp3"

	platformerrors "mars-assistant-go/internal/platform/errors"
	"mars-assistant-go/internal/platform/logging"
)

// Player decodes MP3 replies and plays them on the default output
// device. One Player owns one audio backend context; Speak calls are
// serialized.
type Player struct {
	ctx    *malgo.AllocatedContext
	logger *logging.Logger

	mu   sync.Mutex
	once sync.Once
}

// NewPlayer initializes the audio backend.
func NewPlayer(logger *logging.Logger) (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindAudio, "player.init",
			"initializing playback backend", err)
	}
	return &Player{ctx: ctx, logger: logger}, nil
}

// Speak plays one MP3 clip to completion, or stops early when the
// context is cancelled.
func (p *Player) Speak(ctx context.Context, clip []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	decoder, err := mp3.NewDecoder(bytes.NewReader(clip))
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAudio, "player.speak",
			"decoding reply audio", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAudio, "player.speak",
			"decoding reply audio", err)
	}
	if len(pcm) == 0 {
		return nil
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	// The decoder always yields 16-bit stereo at its native rate.
	deviceConfig.Playback.Channels = 2
	deviceConfig.SampleRate = uint32(decoder.SampleRate())
	deviceConfig.Alsa.NoMMap = 1

	var offset int
	done := make(chan struct{})
	var closeDone sync.Once

	callbacks := malgo.DeviceCallbacks{
		Data: func(outputSamples, _ []byte, _ uint32) {
			if offset >= len(pcm) {
				closeDone.Do(func() { close(done) })
				return
			}
			n := copy(outputSamples, pcm[offset:])
			offset += n
			// Anything past the clip stays zeroed, malgo hands us a
			// cleared buffer.
		},
	}

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAudio, "player.speak",
			"opening playback device", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return platformerrors.Wrap(platformerrors.KindAudio, "player.speak",
			"starting playback", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears down the audio backend.
func (p *Player) Close() error {
	var err error
	p.once.Do(func() {
		_ = p.ctx.Uninit()
		p.ctx.Free()
	})
	return err
}
