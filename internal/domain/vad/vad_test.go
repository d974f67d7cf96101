package vad

import (
	"math"
	"testing"

	"mars-assistant-go/internal/domain/audio"
)

func TestRMS(t *testing.T) {
	tests := []struct {
		name     string
		samples  []int16
		expected float64
	}{
		{"empty buffer", nil, 0},
		{"all zeros", []int16{0, 0, 0, 0}, 0},
		{"constant amplitude", []int16{1000, 1000, 1000, 1000}, 1000},
		{"alternating sign", []int16{500, -500, 500, -500}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMS(tt.samples)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("RMS() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestGate_Active(t *testing.T) {
	gate := NewGate(500)

	tests := []struct {
		name     string
		frame    audio.Frame
		expected bool
	}{
		{"empty frame inactive", audio.Frame{}, false},
		{"silence below threshold", audio.Frame{10, -10, 10, -10}, false},
		{"speech above threshold", audio.Frame{2000, -2000, 2000, -2000}, true},
		{"exactly at threshold", audio.Frame{500, -500, 500, -500}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Active(tt.frame); got != tt.expected {
				t.Errorf("Active() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
