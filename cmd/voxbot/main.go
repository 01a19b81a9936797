package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/antoniostano/voxbot/internal/bot"
	"github.com/antoniostano/voxbot/internal/capability"
	"github.com/antoniostano/voxbot/internal/config"
	"github.com/antoniostano/voxbot/internal/httpapi"
	"github.com/antoniostano/voxbot/internal/media"
	"github.com/antoniostano/voxbot/internal/observability"
	"github.com/antoniostano/voxbot/internal/session"
	"github.com/antoniostano/voxbot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	staging, err := media.NewStaging(cfg.StagingRoot)
	if err != nil {
		log.Fatalf("media staging init failed: %v", err)
	}

	sessions := session.NewStore(cfg.SessionCapacity)
	sessions.SetSizeHook(func(n int) {
		metrics.TrackedSessions.Set(float64(n))
	})

	caps := buildCapabilities(cfg)

	labels := telegram.MenuLabels{
		Talk:   cfg.MenuTalkLabel,
		Image:  cfg.MenuImageLabel,
		Avatar: cfg.MenuAvatarLabel,
	}
	transport := telegram.NewClient(telegram.ClientConfig{
		Token:   cfg.BotToken,
		APIURL:  cfg.TelegramAPIURL,
		Labels:  labels,
		Timeout: cfg.CallTimeout,
	})

	orchestrator := bot.NewOrchestrator(
		sessions,
		caps,
		staging,
		media.NewFFmpegTranscoder(cfg.FFmpegPath),
		bot.NewComposer(transport),
		metrics,
		cfg.CallTimeout,
	)

	api := httpapi.New(cfg.WebhookPath(), telegram.NewNormalizer(labels), orchestrator, metrics, 2*cfg.CallTimeout)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	if url := cfg.WebhookURL(); url != "" {
		if err := transport.SetWebhook(startCtx, url); err != nil {
			startCancel()
			log.Fatalf("webhook registration failed: %v", err)
		}
		log.Printf("webhook registered: %s", url)
	} else {
		log.Printf("WEBHOOK_HOST not set; webhook left unregistered")
	}
	startCancel()

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if cfg.WebhookURL() != "" {
		if err := transport.DeleteWebhook(shutdownCtx); err != nil {
			log.Printf("webhook removal failed: %v", err)
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

// buildCapabilities wires each capability to its real client when a key is
// configured and to the mock otherwise, so a keyless checkout still runs.
func buildCapabilities(cfg config.Config) capability.Set {
	caps := capability.MockSet()

	if cfg.OpenRouterAPIKey != "" {
		caps.Completer = capability.NewOpenRouterClient(capability.OpenRouterConfig{
			APIKey:  cfg.OpenRouterAPIKey,
			BaseURL: cfg.OpenRouterBaseURL,
			Model:   cfg.OpenRouterModel,
			Timeout: cfg.CallTimeout,
		})
		log.Printf("completion: openrouter (%s)", cfg.OpenRouterModel)
	} else {
		log.Printf("completion: mock (OPENROUTER_API_KEY not set)")
	}

	if cfg.ImageAPIKey != "" {
		caps.Images = capability.NewImagesClient(capability.ImagesConfig{
			APIKey:  cfg.ImageAPIKey,
			BaseURL: cfg.ImageBaseURL,
			Profiles: map[capability.Variant]capability.ImageProfile{
				capability.VariantImage:  {Model: cfg.ImageModel, Size: cfg.ImageSize},
				capability.VariantAvatar: {Model: cfg.AvatarModel, Size: cfg.AvatarSize},
			},
			Timeout: cfg.CallTimeout,
		})
		log.Printf("image generation: %s / %s", cfg.ImageModel, cfg.AvatarModel)
	} else {
		log.Printf("image generation: mock (OPENAI_API_KEY not set)")
	}

	if cfg.TranscribeAPIKey != "" {
		caps.Transcriber = capability.NewTranscribeClient(capability.TranscribeConfig{
			APIKey:  cfg.TranscribeAPIKey,
			BaseURL: cfg.TranscribeBaseURL,
			Model:   cfg.TranscribeModel,
			Timeout: cfg.CallTimeout,
		})
		log.Printf("transcription: %s", cfg.TranscribeModel)
	} else {
		log.Printf("transcription: mock (OPENAI_API_KEY not set)")
	}

	if cfg.ElevenLabsAPIKey != "" {
		caps.Synthesizer = capability.NewElevenLabsClient(capability.ElevenLabsConfig{
			APIKey:       cfg.ElevenLabsAPIKey,
			WSBaseURL:    cfg.ElevenLabsWSBaseURL,
			VoiceID:      cfg.ElevenLabsVoice,
			ModelID:      cfg.ElevenLabsModel,
			OutputFormat: cfg.ElevenLabsTTSOutputFormat,
			Timeout:      cfg.CallTimeout,
		})
		log.Printf("speech synthesis: elevenlabs voice %s", cfg.ElevenLabsVoice)
	} else {
		log.Printf("speech synthesis: mock (ELEVEN_API_KEY not set)")
	}

	return caps
}
