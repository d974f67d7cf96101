package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_CreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{Level: "debug", Dir: dir, Filename: "assistant.log"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer logger.Close()

	logger.Info("startup complete")
	logger.InfoTag("WAKE", "listening for %q", "hey mars")

	if _, err := os.Stat(filepath.Join(dir, "assistant.log")); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}

func TestFormatTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		message  string
		expected string
	}{
		{"plain message", "WAKE", "matched", "[WAKE] matched"},
		{"already tagged", "WAKE", "[ASR] transcribed", "[ASR] transcribed"},
		{"empty tag", "", "hello", "hello"},
		{"whitespace trimmed", " TTS ", " speaking ", "[TTS] speaking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTag(tt.tag, tt.message); got != tt.expected {
				t.Errorf("FormatTag(%q, %q) = %q, expected %q", tt.tag, tt.message, got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("DEBUG") != parseLevel("debug") {
		t.Error("level parsing should be case-insensitive")
	}
	if parseLevel("bogus") != parseLevel("info") {
		t.Error("unknown levels should default to info")
	}
}
