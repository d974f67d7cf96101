package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "mars-assistant-go/internal/platform/errors"
)

// Loader reads configuration from an optional yaml file layered over the
// defaults, with credentials taken from the environment.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader for the given config file path. An empty path
// means defaults plus environment only.
func NewLoader(path string) *Loader {
	return &Loader{
		path:      path,
		useDotEnv: true,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load merges defaults, file values, and environment overrides, then
// validates the result.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			// No .env file is fine; the process environment still applies.
			fmt.Println("no .env file found, using process environment")
		}
	}

	cfg := Default()

	path := l.path
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, platformerrors.Wrap(platformerrors.KindConfig, "load", "read config file", err)
			}
			path = ""
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, platformerrors.Wrap(platformerrors.KindConfig, "load", "parse config file", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "validate", "invalid configuration", err)
	}

	return &Result{Config: cfg, Path: path}, nil
}

// applyEnv lets credentials live outside the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("SPEAKER_ENCODER_URL"); v != "" {
		cfg.Speaker.EndpointURL = v
	}
}
