package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDuration_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"go syntax", "interval: 1.5s", 1500 * time.Millisecond, false},
		{"minutes", "interval: 2m", 2 * time.Minute, false},
		{"bare integer is seconds", "interval: 3", 3 * time.Second, false},
		{"bare float is seconds", "interval: 0.5", 500 * time.Millisecond, false},
		{"garbage", "interval: soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target struct {
				Interval Duration `yaml:"interval"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%q) error: %v", tt.input, err)
			}
			if target.Interval.Std() != tt.want {
				t.Errorf("parsed %v, want %v", target.Interval.Std(), tt.want)
			}
		})
	}
}
