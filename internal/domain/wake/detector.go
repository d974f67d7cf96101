package wake

import (
	"context"
	"strings"
	"time"

	"mars-assistant-go/internal/domain/asr"
	"mars-assistant-go/internal/domain/audio"
	"mars-assistant-go/internal/domain/vad"
	"mars-assistant-go/internal/platform/logging"
)

// state tracks where the detector is within one window cycle.
type state int

const (
	stateIdle       state = iota // accumulating frames into the window
	stateEvaluating              // window full, deciding whether to transcribe
)

// Config controls the sliding-window wake detection loop.
type Config struct {
	// Phrase is matched case-insensitively as a substring of the window
	// transcript.
	Phrase string

	// WindowDuration is how much audio is accumulated before each
	// evaluation pass.
	WindowDuration time.Duration

	// EnergyThreshold is the aggregate RMS floor below which a window is
	// treated as silence and transcription is skipped.
	EnergyThreshold float64

	// Timeout bounds one Listen call in wall-clock time, measured from
	// entry. Zero means listen indefinitely.
	Timeout time.Duration

	Audio audio.Config
}

// Detector listens continuously for the wake phrase. Each full window is
// checked for energy; only windows with enough energy are transcribed.
// After a miss the newest half of the window is retained so a phrase
// straddling a window boundary is still caught.
type Detector struct {
	config      Config
	source      audio.Source
	transcriber asr.Provider
	logger      *logging.Logger

	phrase          string
	framesPerWindow int
}

// NewDetector composes the capture source and transcription backend into
// a wake-phrase detector.
func NewDetector(config Config, source audio.Source, transcriber asr.Provider, logger *logging.Logger) *Detector {
	framesPerWindow := int(config.WindowDuration.Seconds() * config.Audio.FramesPerSecond())
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}

	return &Detector{
		config:          config,
		source:          source,
		transcriber:     transcriber,
		logger:          logger,
		phrase:          strings.ToLower(strings.TrimSpace(config.Phrase)),
		framesPerWindow: framesPerWindow,
	}
}

// Listen blocks until the wake phrase is detected or the timeout elapses.
// It returns true on a match, false on timeout. Backend errors are
// handled per-window and never abort the loop; only context cancellation
// and device failures surface as errors.
func (d *Detector) Listen(ctx context.Context) (bool, error) {
	start := time.Now()
	window := audio.NewWindow(d.framesPerWindow)
	st := stateIdle

	d.logger.DebugTag("WAKE", "detector active, listening for %q", d.phrase)

	for {
		if d.config.Timeout > 0 && time.Since(start) > d.config.Timeout {
			d.logger.DebugTag("WAKE", "detector timed out after %v", d.config.Timeout)
			return false, nil
		}

		switch st {
		case stateIdle:
			frame, err := d.source.ReadFrame(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false, ctx.Err()
				}
				return false, err
			}
			window.Append(frame)
			if window.FrameCount() >= d.framesPerWindow {
				st = stateEvaluating
			}

		case stateEvaluating:
			if d.evaluate(ctx, window) {
				d.logger.InfoTag("WAKE", "wake phrase %q detected", d.phrase)
				return true, nil
			}
			window.SlideHalf()
			st = stateIdle
		}
	}
}

// evaluate decides whether the current window contains the wake phrase.
func (d *Detector) evaluate(ctx context.Context, window *audio.Window) bool {
	samples := window.Samples()

	// Silent windows never reach the transcription backend.
	if vad.RMS(samples) < d.config.EnergyThreshold {
		return false
	}

	transcript, err := d.transcriber.Transcribe(ctx, samples)
	if err != nil {
		d.logger.WarnTag("WAKE", "window transcription failed: %v", err)
		return false
	}

	transcript = strings.ToLower(strings.TrimSpace(transcript))
	d.logger.DebugTag("WAKE", "window transcript: %q", transcript)
	return strings.Contains(transcript, d.phrase)
}
