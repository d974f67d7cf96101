// Package listener records a single spoken command after the wake phrase
// fires and hands the captured audio to the transcription backend.
package listener

import (
	"context"
	"time"

	"mars-assistant-go/internal/domain/asr"
	"mars-assistant-go/internal/domain/audio"
	"mars-assistant-go/internal/domain/vad"
	"mars-assistant-go/internal/platform/logging"
)

// Config bounds one recording pass.
type Config struct {
	// SilenceThreshold is the RMS floor separating speech from silence.
	SilenceThreshold float64

	// SilenceDuration is how long the speaker must stay quiet before the
	// recording is considered complete.
	SilenceDuration time.Duration

	// MaxDuration caps the recording regardless of trailing silence.
	MaxDuration time.Duration

	Audio audio.Config
}

// Utterance is one recorded command: the raw capture for downstream
// verification and the transcript produced from it. Transcript is empty
// when nothing intelligible was captured or the backend failed.
type Utterance struct {
	Samples    []int16
	Transcript string
}

// Duration reports the captured audio length.
func (u *Utterance) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(u.Samples)) * time.Second / time.Duration(sampleRate)
}

// Recorder captures bounded utterances from the audio source.
type Recorder struct {
	config      Config
	source      audio.Source
	transcriber asr.Provider
	gate        *vad.Gate
	logger      *logging.Logger

	silentFramesToStop int
	maxFrames          int
}

// NewRecorder builds a command recorder over the given capture source.
func NewRecorder(config Config, source audio.Source, transcriber asr.Provider, logger *logging.Logger) *Recorder {
	fps := config.Audio.FramesPerSecond()

	silentFrames := int(config.SilenceDuration.Seconds() * fps)
	if silentFrames < 1 {
		silentFrames = 1
	}
	maxFrames := int(config.MaxDuration.Seconds() * fps)
	if maxFrames < 1 {
		maxFrames = 1
	}

	return &Recorder{
		config:             config,
		source:             source,
		transcriber:        transcriber,
		gate:               vad.NewGate(config.SilenceThreshold),
		logger:             logger,
		silentFramesToStop: silentFrames,
		maxFrames:          maxFrames,
	}
}

// Record captures one utterance. Capture ends once the trailing silence
// reaches SilenceDuration, or unconditionally at MaxDuration. The capture
// is transcribed in a single pass; a transcription failure is logged and
// yields an empty transcript rather than an error, so the caller can
// re-prompt instead of crashing the session.
func (r *Recorder) Record(ctx context.Context) (*Utterance, error) {
	r.logger.InfoTag("AUDIO", "recording command (max %v, stop after %v of silence)",
		r.config.MaxDuration, r.config.SilenceDuration)

	samples := make([]int16, 0, r.maxFrames*r.config.Audio.FrameSize)
	captured := 0
	consecutiveSilent := 0

	for captured < r.maxFrames {
		frame, err := r.source.ReadFrame(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}

		samples = append(samples, frame...)
		captured++

		if r.gate.Active(frame) {
			consecutiveSilent = 0
		} else {
			consecutiveSilent++
		}

		// The grace period keeps a slow start from ending the capture
		// before the speaker gets a word out.
		if consecutiveSilent >= r.silentFramesToStop && captured > r.silentFramesToStop {
			r.logger.DebugTag("AUDIO", "trailing silence reached after %d frames", captured)
			break
		}
	}

	utterance := &Utterance{Samples: samples}
	r.logger.DebugTag("AUDIO", "captured %v of audio", utterance.Duration(r.config.Audio.SampleRate))

	transcript, err := r.transcriber.Transcribe(ctx, samples)
	if err != nil {
		r.logger.WarnTag("ASR", "command transcription failed: %v", err)
		return utterance, nil
	}
	utterance.Transcript = transcript

	return utterance, nil
}
