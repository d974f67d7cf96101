package config

import "time"

// Default returns the built-in configuration. File and environment values
// are merged on top of it.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			File:  "assistant.log",
		},
		Audio: AudioConfig{
			SampleRate:           16000,
			Channels:             1,
			FrameSize:            1024,
			SilenceThreshold:     500,
			SilenceDuration:      Duration(1500 * time.Millisecond),
			MaxRecordingDuration: Duration(30 * time.Second),
		},
		Wake: WakeConfig{
			Phrase:          "hey mars",
			WindowDuration:  Duration(2 * time.Second),
			EnergyThreshold: 500,
		},
		Speaker: SpeakerConfig{
			Enabled:     false,
			Threshold:   0.75,
			ProfilePath: "voice_profiles/owner_embedding.f32",
			FailOpen:    true,
			Provider:    "http",
			Dimensions:  256,
		},
		AI: AIConfig{
			Provider:      "openai",
			ModelName:     "gpt-4o",
			Temperature:   0.7,
			MaxTokens:     1024,
			MaxHistory:    20,
			MaxToolRounds: 8,
			SystemPrompt:  "You are MARS, a witty and efficient AI assistant. Address your owner as 'sir'.",
			ASRModel:      "whisper-1",
			ASRProvider:   "openai",
		},
		TTS: TTSConfig{
			Enabled:  true,
			Provider: "edge",
			Voice:    "en-US-AriaNeural",
		},
		Web: WebConfig{
			Enabled: false,
			IP:      "127.0.0.1",
			Port:    8987,
		},
		Skills: SkillsConfig{
			TodoDSN:          "data/todos.db",
			WeatherBaseURL:   "https://api.open-meteo.com",
			GeocodingBaseURL: "https://geocoding-api.open-meteo.com",
		},
		System: SystemConfig{
			Greeting:    "MARS is online and ready.",
			ExitPhrases: []string{"goodbye", "shut down", "go to sleep"},
		},
	}
}
