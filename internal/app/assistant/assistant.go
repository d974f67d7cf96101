// Package assistant runs the interaction loop: wait for the wake
// phrase, record the command, verify the speaker, dispatch, speak.
package assistant

import (
	"context"
	"strings"

	"mars-assistant-go/internal/domain/events"
	"mars-assistant-go/internal/domain/listener"
	"mars-assistant-go/internal/platform/logging"
)

// State names one phase of the interaction loop, published on the event
// bus whenever the loop moves on.
type State string

const (
	StateListening   State = "LISTENING_FOR_WAKE"
	StateRecording   State = "RECORDING"
	StateVerifying   State = "VERIFYING"
	StateDispatching State = "DISPATCHING"
	StateSpeaking    State = "SPEAKING"
	StateStopped     State = "STOPPED"
)

// Spoken canned lines.
const (
	promptRetry     = "I didn't catch that, sir."
	promptRejection = "I'm sorry, but I don't recognize your voice."
	promptFarewell  = "Goodbye, sir."
)

// WakeDetector waits for the wake phrase.
type WakeDetector interface {
	Listen(ctx context.Context) (bool, error)
}

// CommandRecorder captures one command after the wake phrase.
type CommandRecorder interface {
	Record(ctx context.Context) (*listener.Utterance, error)
}

// SpeakerVerifier decides whether the utterance belongs to the enrolled
// user. A nil verifier disables the gate.
type SpeakerVerifier interface {
	Verify(ctx context.Context, samples []int16) (bool, error)
}

// Dispatcher produces the reply to a transcribed command.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) string
}

// Voice speaks the reply out loud.
type Voice interface {
	Say(ctx context.Context, text string) error
}

// Config tunes the loop.
type Config struct {
	Greeting    string
	ExitPhrases []string
}

// Assistant owns the interaction loop. All collaborators are injected.
type Assistant struct {
	config     Config
	wake       WakeDetector
	recorder   CommandRecorder
	verifier   SpeakerVerifier
	dispatcher Dispatcher
	voice      Voice
	bus        *events.Bus
	logger     *logging.Logger
}

// New wires the loop's collaborators together.
func New(config Config, wake WakeDetector, recorder CommandRecorder, verifier SpeakerVerifier,
	dispatcher Dispatcher, voice Voice, bus *events.Bus, logger *logging.Logger) *Assistant {
	return &Assistant{
		config:     config,
		wake:       wake,
		recorder:   recorder,
		verifier:   verifier,
		dispatcher: dispatcher,
		voice:      voice,
		bus:        bus,
		logger:     logger,
	}
}

// Run drives the loop until the context is cancelled or the user says an
// exit phrase. Transient failures inside one interaction are spoken or
// logged and the loop continues; only device-level errors end it.
func (a *Assistant) Run(ctx context.Context) error {
	if a.config.Greeting != "" {
		a.say(ctx, a.config.Greeting)
	}

	for {
		if err := ctx.Err(); err != nil {
			a.setState(StateStopped)
			return err
		}

		a.setState(StateListening)
		woken, err := a.wake.Listen(ctx)
		if err != nil {
			if ctx.Err() != nil {
				a.setState(StateStopped)
				return ctx.Err()
			}
			a.setState(StateStopped)
			return err
		}
		if !woken {
			continue
		}
		a.bus.Publish(events.TopicWakeDetect)

		a.setState(StateRecording)
		utterance, err := a.recorder.Record(ctx)
		if err != nil {
			if ctx.Err() != nil {
				a.setState(StateStopped)
				return ctx.Err()
			}
			a.setState(StateStopped)
			return err
		}

		command := strings.TrimSpace(utterance.Transcript)
		if command == "" {
			a.say(ctx, promptRetry)
			continue
		}
		a.bus.Publish(events.TopicTranscribed, command)

		if a.verifier != nil {
			a.setState(StateVerifying)
			accepted, err := a.verifier.Verify(ctx, utterance.Samples)
			if err != nil {
				a.setState(StateStopped)
				return err
			}
			a.bus.Publish(events.TopicVerified, accepted)
			if !accepted {
				a.say(ctx, promptRejection)
				continue
			}
		}

		if a.isExitPhrase(command) {
			a.logger.InfoTag("BOOT", "exit phrase received, shutting down")
			a.say(ctx, promptFarewell)
			a.setState(StateStopped)
			return nil
		}

		a.setState(StateDispatching)
		reply := a.dispatcher.Dispatch(ctx, command)

		a.setState(StateSpeaking)
		a.say(ctx, reply)
		a.bus.Publish(events.TopicReply, command, reply)
	}
}

func (a *Assistant) isExitPhrase(command string) bool {
	lowered := strings.ToLower(command)
	for _, phrase := range a.config.ExitPhrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// say speaks text and downgrades playback failures to warnings so a
// broken speaker never kills the session.
func (a *Assistant) say(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if err := a.voice.Say(ctx, text); err != nil && ctx.Err() == nil {
		a.logger.WarnTag("TTS", "failed to speak reply: %v", err)
		a.logger.InfoTag("TTS", "reply (text only): %s", text)
	}
}

func (a *Assistant) setState(state State) {
	a.bus.Publish(events.TopicState, string(state))
}
