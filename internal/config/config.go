package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the bot service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	CallTimeout      time.Duration
	MetricsNamespace string

	BotToken       string
	WebhookBaseURL string
	TelegramAPIURL string

	MenuTalkLabel   string
	MenuImageLabel  string
	MenuAvatarLabel string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	ImageAPIKey  string
	ImageBaseURL string
	ImageModel   string
	ImageSize    string
	AvatarModel  string
	AvatarSize   string

	TranscribeAPIKey  string
	TranscribeBaseURL string
	TranscribeModel   string

	ElevenLabsAPIKey          string
	ElevenLabsWSBaseURL       string
	ElevenLabsVoice           string
	ElevenLabsModel           string
	ElevenLabsTTSOutputFormat string

	FFmpegPath  string
	StagingRoot string

	SessionCapacity int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8000"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "voxbot"),
		BotToken:         envTrimmed("BOT_TOKEN"),
		WebhookBaseURL:   envTrimmed("WEBHOOK_HOST"),
		TelegramAPIURL:   envOrDefault("TELEGRAM_API_URL", "https://api.telegram.org"),

		MenuTalkLabel:   envOrDefault("MENU_TALK_LABEL", "🎤 Говори"),
		MenuImageLabel:  envOrDefault("MENU_IMAGE_LABEL", "🖼 Генерировать картинку"),
		MenuAvatarLabel: envOrDefault("MENU_AVATAR_LABEL", "👤 Генерировать аватар"),

		OpenRouterAPIKey:  envTrimmed("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api"),
		OpenRouterModel:   envOrDefault("OPENROUTER_MODEL", "openai/gpt-4o-mini"),

		ImageAPIKey:  envTrimmed("OPENAI_API_KEY"),
		ImageBaseURL: envOrDefault("IMAGE_BASE_URL", "https://api.openai.com"),
		ImageModel:   envOrDefault("IMAGE_MODEL", "dall-e-3"),
		ImageSize:    envOrDefault("IMAGE_SIZE", "1024x1024"),
		AvatarModel:  envOrDefault("AVATAR_MODEL", "dall-e-2"),
		AvatarSize:   envOrDefault("AVATAR_SIZE", "512x512"),

		TranscribeAPIKey:  envTrimmed("OPENAI_API_KEY"),
		TranscribeBaseURL: envOrDefault("TRANSCRIBE_BASE_URL", "https://api.openai.com"),
		TranscribeModel:   envOrDefault("TRANSCRIBE_MODEL", "whisper-1"),

		ElevenLabsAPIKey:    envTrimmed("ELEVEN_API_KEY"),
		ElevenLabsWSBaseURL: envOrDefault("ELEVENLABS_WS_BASE_URL", "wss://api.elevenlabs.io"),
		// Default to the same premade voice the original deployment shipped with.
		ElevenLabsVoice:           envOrDefault("ELEVEN_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		ElevenLabsModel:           envOrDefault("ELEVEN_MODEL_ID", "eleven_multilingual_v2"),
		ElevenLabsTTSOutputFormat: envOrDefault("ELEVEN_TTS_OUTPUT_FORMAT", "mp3_44100_64"),

		FFmpegPath:  envOrDefault("FFMPEG_PATH", "ffmpeg"),
		StagingRoot: envOrDefault("APP_STAGING_ROOT", os.TempDir()),

		ShutdownTimeout: 15 * time.Second,
		CallTimeout:     45 * time.Second,
		SessionCapacity: 10000,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CallTimeout, err = durationFromEnv("APP_CALL_TIMEOUT", cfg.CallTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionCapacity, err = intFromEnv("APP_SESSION_CAPACITY", cfg.SessionCapacity)
	if err != nil {
		return Config{}, err
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.WebhookBaseURL != "" && !strings.HasPrefix(cfg.WebhookBaseURL, "https://") {
		return Config{}, fmt.Errorf("WEBHOOK_HOST must be an https:// URL")
	}
	if cfg.CallTimeout < time.Second {
		return Config{}, fmt.Errorf("APP_CALL_TIMEOUT must be at least 1s")
	}
	if cfg.SessionCapacity <= 0 {
		return Config{}, fmt.Errorf("APP_SESSION_CAPACITY must be positive")
	}

	return cfg, nil
}

// WebhookPath returns the token-scoped webhook route, mirroring the
// path shape the original deployment registered with Telegram.
func (c Config) WebhookPath() string {
	return "/webhook/" + c.BotToken
}

// WebhookURL returns the full public webhook URL, or "" when no public
// host is configured (long-poll or test runs).
func (c Config) WebhookURL() string {
	if c.WebhookBaseURL == "" {
		return ""
	}
	return strings.TrimRight(c.WebhookBaseURL, "/") + c.WebhookPath()
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
