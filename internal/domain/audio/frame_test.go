package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWindow_SlideHalf(t *testing.T) {
	w := NewWindow(4)
	w.Append(Frame{1})
	w.Append(Frame{2})
	w.Append(Frame{3})
	w.Append(Frame{4})

	w.SlideHalf()

	if w.FrameCount() != 2 {
		t.Fatalf("frame count after slide = %d, expected 2", w.FrameCount())
	}
	samples := w.Samples()
	if samples[0] != 3 || samples[1] != 4 {
		t.Errorf("expected most recent half retained, got %v", samples)
	}
}

func TestWindow_SlideHalf_SingleFrame(t *testing.T) {
	w := NewWindow(1)
	w.Append(Frame{7})
	w.SlideHalf()
	if w.FrameCount() != 1 {
		t.Errorf("sliding a single-frame window should keep it, got %d frames", w.FrameCount())
	}
}

func TestWindow_Samples_Order(t *testing.T) {
	w := NewWindow(2)
	w.Append(Frame{1, 2})
	w.Append(Frame{3, 4})

	got := w.Samples()
	want := []int16{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("samples = %v, expected %v", got, want)
		}
	}
}

func TestEncodeWAV_Header(t *testing.T) {
	samples := []int16{0, 1000, -1000, 0}
	wav := EncodeWAV(samples, 16000)

	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Fatal("missing RIFF header")
	}
	if string(wav[8:12]) != "WAVE" {
		t.Fatal("missing WAVE marker")
	}

	sampleRate := binary.LittleEndian.Uint32(wav[24:28])
	if sampleRate != 16000 {
		t.Errorf("sample rate = %d, expected 16000", sampleRate)
	}

	dataSize := binary.LittleEndian.Uint32(wav[40:44])
	if dataSize != uint32(len(samples)*2) {
		t.Errorf("data size = %d, expected %d", dataSize, len(samples)*2)
	}
	if len(wav) != 44+len(samples)*2 {
		t.Errorf("total size = %d, expected %d", len(wav), 44+len(samples)*2)
	}
}
