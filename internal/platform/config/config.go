package config

import (
	"fmt"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Audio   AudioConfig   `yaml:"audio"`
	Wake    WakeConfig    `yaml:"wake"`
	Speaker SpeakerConfig `yaml:"speaker"`
	AI      AIConfig      `yaml:"ai"`
	TTS     TTSConfig     `yaml:"tts"`
	Web     WebConfig     `yaml:"web"`
	Skills  SkillsConfig  `yaml:"skills"`
	System  SystemConfig  `yaml:"system"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

// AudioConfig covers both capture parameters and the command recorder's
// cutoff policy.
type AudioConfig struct {
	SampleRate           int      `yaml:"sample_rate"`
	Channels             int      `yaml:"channels"`
	FrameSize            int      `yaml:"frame_size"`
	SilenceThreshold     float64  `yaml:"silence_threshold"`
	SilenceDuration      Duration `yaml:"silence_duration"`
	MaxRecordingDuration Duration `yaml:"max_recording_duration"`
}

type WakeConfig struct {
	Phrase          string   `yaml:"phrase"`
	WindowDuration  Duration `yaml:"window_duration"`
	EnergyThreshold float64  `yaml:"energy_threshold"`
	Timeout         Duration `yaml:"timeout"` // zero means listen forever
}

type SpeakerConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Threshold   float64 `yaml:"threshold"`
	ProfilePath string  `yaml:"profile_path"`
	FailOpen    bool    `yaml:"fail_open"`
	Provider    string  `yaml:"provider"`
	EndpointURL string  `yaml:"endpoint_url"`
	Dimensions  int     `yaml:"dimensions"`
}

type AIConfig struct {
	Provider      string  `yaml:"provider"`
	ModelName     string  `yaml:"model_name"`
	BaseURL       string  `yaml:"url"`
	APIKey        string  `yaml:"api_key"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	MaxHistory    int     `yaml:"max_history"`
	MaxToolRounds int     `yaml:"max_tool_rounds"`
	SystemPrompt  string  `yaml:"system_prompt"`
	ASRModel      string  `yaml:"asr_model"`
	ASRProvider   string  `yaml:"asr_provider"`
}

type TTSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"`
	Voice    string `yaml:"voice"`
}

type WebConfig struct {
	Enabled bool   `yaml:"enabled"`
	IP      string `yaml:"ip"`
	Port    int    `yaml:"port"`
}

type SkillsConfig struct {
	TodoDSN          string `yaml:"todo_dsn"`
	WeatherBaseURL   string `yaml:"weather_url"`
	GeocodingBaseURL string `yaml:"geocoding_url"`
}

type SystemConfig struct {
	Greeting    string   `yaml:"greeting"`
	ExitPhrases []string `yaml:"exit_phrases"`
}

// Validate rejects values that indicate a deployment defect rather than a
// runtime transient.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels != 1 {
		return fmt.Errorf("audio.channels must be 1 (mono), got %d", c.Audio.Channels)
	}
	if c.Audio.FrameSize <= 0 {
		return fmt.Errorf("audio.frame_size must be positive, got %d", c.Audio.FrameSize)
	}
	if c.Audio.SilenceDuration <= 0 {
		return fmt.Errorf("audio.silence_duration must be positive, got %v", c.Audio.SilenceDuration)
	}
	if c.Audio.MaxRecordingDuration <= 0 {
		return fmt.Errorf("audio.max_recording_duration must be positive, got %v", c.Audio.MaxRecordingDuration)
	}
	if c.Wake.Phrase == "" {
		return fmt.Errorf("wake.phrase must not be empty")
	}
	if c.Wake.WindowDuration <= 0 {
		return fmt.Errorf("wake.window_duration must be positive, got %v", c.Wake.WindowDuration)
	}
	if c.Speaker.Enabled {
		if c.Speaker.Threshold < -1 || c.Speaker.Threshold > 1 {
			return fmt.Errorf("speaker.threshold must be within [-1, 1], got %v", c.Speaker.Threshold)
		}
		if c.Speaker.Dimensions <= 0 {
			return fmt.Errorf("speaker.dimensions must be positive, got %d", c.Speaker.Dimensions)
		}
	}
	if c.AI.ModelName == "" {
		return fmt.Errorf("ai.model_name must not be empty")
	}
	if c.AI.MaxHistory <= 0 {
		return fmt.Errorf("ai.max_history must be positive, got %d", c.AI.MaxHistory)
	}
	if c.AI.MaxToolRounds <= 0 {
		return fmt.Errorf("ai.max_tool_rounds must be positive, got %d", c.AI.MaxToolRounds)
	}
	return nil
}
