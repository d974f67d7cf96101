package audio

// Frame is one fixed-size buffer of signed 16-bit mono PCM samples as
// captured from the input device. Frames are not mutated after capture.
type Frame []int16

// Window is an ordered sequence of frames accumulated for one
// VAD/transcription pass.
type Window struct {
	frames []Frame
}

// NewWindow creates an empty window with capacity hints for n frames.
func NewWindow(n int) *Window {
	return &Window{frames: make([]Frame, 0, n)}
}

// Append adds a captured frame to the window.
func (w *Window) Append(f Frame) {
	w.frames = append(w.frames, f)
}

// FrameCount reports the number of accumulated frames.
func (w *Window) FrameCount() int {
	return len(w.frames)
}

// SampleCount reports the total number of samples across all frames.
func (w *Window) SampleCount() int {
	n := 0
	for _, f := range w.frames {
		n += len(f)
	}
	return n
}

// Samples flattens the window into a single contiguous PCM buffer.
func (w *Window) Samples() []int16 {
	out := make([]int16, 0, w.SampleCount())
	for _, f := range w.frames {
		out = append(out, f...)
	}
	return out
}

// SlideHalf drops the older half of the window, keeping the most recent
// frames so an utterance straddling two windows is still seen whole.
func (w *Window) SlideHalf() {
	if len(w.frames) < 2 {
		return
	}
	keep := w.frames[len(w.frames)/2:]
	w.frames = append(w.frames[:0], keep...)
}
