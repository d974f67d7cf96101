package tts

import (
	"context"
)

// Speech couples a synthesis provider with the local player.
type Speech struct {
	provider Provider
	player   *Player
}

// NewSpeech wires synthesis to playback.
func NewSpeech(provider Provider, player *Player) *Speech {
	return &Speech{provider: provider, player: player}
}

// Say synthesizes and plays one reply, blocking until playback ends.
func (s *Speech) Say(ctx context.Context, text string) error {
	clip, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return s.player.Speak(ctx, clip)
}
