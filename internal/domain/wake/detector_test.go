package wake

import (
	"context"
	"errors"
	"testing"
	"time"

	"mars-assistant-go/internal/domain/audio"
	platformtesting "mars-assistant-go/internal/platform/testing"
)

// fakeSource replays one frame pattern forever.
type fakeSource struct {
	frame audio.Frame
}

func (s *fakeSource) ReadFrame(ctx context.Context) (audio.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	frame := make(audio.Frame, len(s.frame))
	copy(frame, s.frame)
	return frame, nil
}

func (s *fakeSource) Close() error { return nil }

// fakeTranscriber counts invocations and returns a canned transcript.
type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (t *fakeTranscriber) Transcribe(_ context.Context, _ []int16) (string, error) {
	t.calls++
	return t.transcript, t.err
}

func (t *fakeTranscriber) Cleanup() error { return nil }

func testConfig(timeout time.Duration) Config {
	return Config{
		Phrase:          "hey mars",
		WindowDuration:  200 * time.Millisecond,
		EnergyThreshold: 500,
		Timeout:         timeout,
		Audio:           audio.Config{SampleRate: 40, Channels: 1, FrameSize: 4},
	}
}

func loudFrame() audio.Frame  { return audio.Frame{8000, -8000, 8000, -8000} }
func quietFrame() audio.Frame { return audio.Frame{5, -5, 5, -5} }

func TestDetector_SilentWindowSkipsTranscription(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	transcriber := &fakeTranscriber{transcript: "hey mars"}
	detector := NewDetector(testConfig(50*time.Millisecond), &fakeSource{frame: quietFrame()}, transcriber, logger)

	matched, err := detector.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}
	if matched {
		t.Error("silent audio must not match the wake phrase")
	}
	if transcriber.calls != 0 {
		t.Errorf("transcriber called %d times on silent windows, expected 0", transcriber.calls)
	}
}

func TestDetector_MatchesPhraseInTranscript(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	transcriber := &fakeTranscriber{transcript: "Hey Mars, what time is it"}
	detector := NewDetector(testConfig(0), &fakeSource{frame: loudFrame()}, transcriber, logger)

	matched, err := detector.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}
	if !matched {
		t.Error("expected a case-insensitive substring match")
	}
	if transcriber.calls != 1 {
		t.Errorf("transcriber calls = %d, expected 1", transcriber.calls)
	}
}

func TestDetector_TimeoutWithoutMatch(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	transcriber := &fakeTranscriber{transcript: "good morning"}
	detector := NewDetector(testConfig(50*time.Millisecond), &fakeSource{frame: loudFrame()}, transcriber, logger)

	matched, err := detector.Listen(context.Background())
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}
	if matched {
		t.Error("expected timeout without a match")
	}
	if transcriber.calls == 0 {
		t.Error("loud windows should have been transcribed")
	}
}

func TestDetector_TranscriptionErrorIsNotFatal(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	transcriber := &fakeTranscriber{err: errors.New("backend unavailable")}
	detector := NewDetector(testConfig(50*time.Millisecond), &fakeSource{frame: loudFrame()}, transcriber, logger)

	matched, err := detector.Listen(context.Background())
	if err != nil {
		t.Fatalf("per-window backend errors must not abort the loop: %v", err)
	}
	if matched {
		t.Error("errored windows must count as no match")
	}
	if transcriber.calls < 2 {
		t.Errorf("loop should keep evaluating after an error, got %d calls", transcriber.calls)
	}
}

func TestDetector_ContextCancellation(t *testing.T) {
	logger := platformtesting.SetupTestLogger(t)
	transcriber := &fakeTranscriber{transcript: ""}
	detector := NewDetector(testConfig(0), &fakeSource{frame: quietFrame()}, transcriber, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matched, err := detector.Listen(ctx)
	if matched {
		t.Error("cancelled listen must not report a match")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
