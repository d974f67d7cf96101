// Package bootstrap loads the configuration, wires every component, and
// runs the assistant until shutdown.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mars-assistant-go/internal/app/assistant"
	"mars-assistant-go/internal/domain/asr"
	"mars-assistant-go/internal/domain/audio"
	"mars-assistant-go/internal/domain/engine"
	"mars-assistant-go/internal/domain/events"
	"mars-assistant-go/internal/domain/listener"
	"mars-assistant-go/internal/domain/llm"
	"mars-assistant-go/internal/domain/memory"
	"mars-assistant-go/internal/domain/skills"
	"mars-assistant-go/internal/domain/skills/builtin"
	"mars-assistant-go/internal/domain/speaker"
	"mars-assistant-go/internal/domain/tts"
	"mars-assistant-go/internal/domain/wake"
	platformconfig "mars-assistant-go/internal/platform/config"
	platformerrors "mars-assistant-go/internal/platform/errors"
	platformlogging "mars-assistant-go/internal/platform/logging"
	httptransport "mars-assistant-go/internal/transport/http"

	// Provider adapters register themselves on import.
	_ "mars-assistant-go/internal/domain/asr/openai"
	_ "mars-assistant-go/internal/domain/llm/openai"
	_ "mars-assistant-go/internal/domain/speaker/httpenc"
	_ "mars-assistant-go/internal/domain/tts/edge"
)

// Run starts the assistant and blocks until the context is cancelled or
// the user ends the session with an exit phrase.
func Run(ctx context.Context, configPath string) error {
	result, err := platformconfig.NewLoader(configPath).Load()
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.config",
			"loading configuration", err)
	}
	config := result.Config

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    config.Log.Level,
		Dir:      config.Log.Dir,
		Filename: config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.logging",
			"initializing logger", err)
	}
	defer logger.Close()

	logger.InfoTag("BOOT", "configuration loaded from %s", result.Path)

	audioConfig := audio.Config{
		SampleRate: config.Audio.SampleRate,
		Channels:   config.Audio.Channels,
		FrameSize:  config.Audio.FrameSize,
	}

	source, err := audio.Create("malgo", audioConfig)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.audio",
			"opening capture device", err)
	}
	defer source.Close()

	transcriber, err := asr.Create(config.AI.ASRProvider, &asr.Config{
		ModelName:  config.AI.ASRModel,
		APIKey:     config.AI.APIKey,
		BaseURL:    config.AI.BaseURL,
		SampleRate: config.Audio.SampleRate,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.asr",
			"creating transcription backend", err)
	}
	defer transcriber.Cleanup()

	chat, err := llm.Create(config.AI.Provider, &llm.Config{
		ModelName:   config.AI.ModelName,
		BaseURL:     config.AI.BaseURL,
		APIKey:      config.AI.APIKey,
		Temperature: config.AI.Temperature,
		MaxTokens:   config.AI.MaxTokens,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.llm",
			"creating chat backend", err)
	}
	defer chat.Cleanup()

	var voice assistant.Voice
	if config.TTS.Enabled {
		synth, err := tts.Create(config.TTS.Provider, &tts.Config{Voice: config.TTS.Voice})
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.tts",
				"creating speech backend", err)
		}
		defer synth.Cleanup()

		player, err := tts.NewPlayer(logger)
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.tts",
				"opening playback device", err)
		}
		defer player.Close()

		voice = tts.NewSpeech(synth, player)
	} else {
		logger.WarnTag("BOOT", "speech output disabled, replies go to the log")
		voice = textVoice{logger: logger}
	}

	sessionID := uuid.NewString()
	logger.InfoTag("BOOT", "starting session %s", sessionID)

	bus := events.New()
	if err := subscribeDebugLog(bus, logger); err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.events",
			"subscribing debug log", err)
	}

	registry := skills.NewRegistry(logger)
	builtin.Register(registry, config.Skills, logger)
	logger.InfoTag("BOOT", "registered skills: %v", registry.Names())

	conversation := memory.New(config.AI.MaxHistory)
	dispatcher := engine.New(engine.Config{
		SystemPrompt:  config.AI.SystemPrompt,
		MaxToolRounds: config.AI.MaxToolRounds,
	}, chat, registry, conversation, logger)

	detector := wake.NewDetector(wake.Config{
		Phrase:          config.Wake.Phrase,
		WindowDuration:  config.Wake.WindowDuration.Std(),
		EnergyThreshold: config.Wake.EnergyThreshold,
		Timeout:         config.Wake.Timeout.Std(),
		Audio:           audioConfig,
	}, source, transcriber, logger)

	recorder := listener.NewRecorder(listener.Config{
		SilenceThreshold: config.Audio.SilenceThreshold,
		SilenceDuration:  config.Audio.SilenceDuration.Std(),
		MaxDuration:      config.Audio.MaxRecordingDuration.Std(),
		Audio:            audioConfig,
	}, source, transcriber, logger)

	var verifier assistant.SpeakerVerifier
	if config.Speaker.Enabled {
		encoder, err := speaker.Create(config.Speaker.Provider, &speaker.Config{
			EndpointURL: config.Speaker.EndpointURL,
			SampleRate:  config.Audio.SampleRate,
			Dimensions:  config.Speaker.Dimensions,
		})
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, "bootstrap.speaker",
				"creating speaker encoder", err)
		}
		defer encoder.Cleanup()

		profile := speaker.NewProfile(config.Speaker.ProfilePath, config.Speaker.Dimensions)
		verifier = speaker.NewVerifier(speaker.VerifierConfig{
			Threshold: config.Speaker.Threshold,
			FailOpen:  config.Speaker.FailOpen,
		}, encoder, profile, logger)
	} else {
		logger.WarnTag("BOOT", "speaker verification disabled")
	}

	loop := assistant.New(assistant.Config{
		Greeting:    config.System.Greeting,
		ExitPhrases: config.System.ExitPhrases,
	}, detector, recorder, verifier, dispatcher, voice, bus, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)

	if config.Web.Enabled {
		server, err := buildWebServer(config, bus, registry, logger)
		if err != nil {
			return err
		}

		group.Go(func() error {
			logger.InfoTag("HTTP", "status API listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return platformerrors.Wrap(platformerrors.KindTransport, "bootstrap.web",
					"status API failed", err)
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	group.Go(func() error {
		defer cancel()
		err := loop.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return group.Wait()
}

// textVoice replaces playback when speech output is disabled.
type textVoice struct {
	logger *platformlogging.Logger
}

func (v textVoice) Say(_ context.Context, text string) error {
	v.logger.InfoTag("TTS", "reply: %s", text)
	return nil
}

// subscribeDebugLog mirrors pipeline events into the debug log.
func subscribeDebugLog(bus *events.Bus, logger *platformlogging.Logger) error {
	if err := bus.SubscribeAsync(events.TopicState, func(state string) {
		logger.DebugTag("BOOT", "state -> %s", state)
	}); err != nil {
		return err
	}
	if err := bus.SubscribeAsync(events.TopicTranscribed, func(command string) {
		logger.DebugTag("ASR", "command: %s", command)
	}); err != nil {
		return err
	}
	return bus.SubscribeAsync(events.TopicReply, func(command, reply string) {
		logger.DebugTag("LLM", "reply to %q: %s", command, reply)
	})
}

func buildWebServer(config *platformconfig.Config, bus *events.Bus, registry *skills.Registry,
	logger *platformlogging.Logger) (*http.Server, error) {
	tracker, err := httptransport.NewTracker(bus)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "bootstrap.web",
			"subscribing status tracker", err)
	}

	router := httptransport.Build(httptransport.Options{
		Debug:  config.Log.Level == "debug",
		Logger: logger,
	})
	httptransport.NewStatusService(tracker, registry).Register(router.API)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Web.IP, config.Web.Port),
		Handler: router.Engine,
	}, nil
}
