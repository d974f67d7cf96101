package vad

import (
	"math"

	"mars-assistant-go/internal/domain/audio"
)

// Gate classifies frames as silence or voice activity by RMS energy
// against a fixed threshold. Pure computation, no device state.
type Gate struct {
	threshold float64
}

// NewGate creates a gate with the given RMS threshold in int16 sample
// units (0..32767).
func NewGate(threshold float64) *Gate {
	return &Gate{threshold: threshold}
}

// Active reports whether the frame carries voice activity. Empty input is
// inactive.
func (g *Gate) Active(frame audio.Frame) bool {
	if len(frame) == 0 {
		return false
	}
	return RMS(frame) >= g.threshold
}

// Threshold returns the configured RMS threshold.
func (g *Gate) Threshold() float64 {
	return g.threshold
}

// RMS computes the root-mean-square energy of a PCM buffer.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}
