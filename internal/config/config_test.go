package config

import "testing"

func TestLoadRequiresBotToken(t *testing.T) {
	setCoreEnvEmpty(t)

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should fail without BOT_TOKEN")
	}
}

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8000" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8000")
	}
	if cfg.SessionCapacity != 10000 {
		t.Fatalf("SessionCapacity = %d, want 10000", cfg.SessionCapacity)
	}
	if cfg.WebhookURL() != "" {
		t.Fatalf("WebhookURL() = %q, want empty without WEBHOOK_HOST", cfg.WebhookURL())
	}
	if cfg.WebhookPath() != "/webhook/123:abc" {
		t.Fatalf("WebhookPath() = %q", cfg.WebhookPath())
	}
}

func TestLoadWebhookURLJoinsHostAndPath(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_HOST", "https://bot.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := "https://bot.example.com/webhook/123:abc"
	if cfg.WebhookURL() != want {
		t.Fatalf("WebhookURL() = %q, want %q", cfg.WebhookURL(), want)
	}
}

func TestLoadRejectsPlainHTTPWebhookHost(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEBHOOK_HOST", "http://bot.example.com")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject a non-https webhook host")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_CALL_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_SESSION_CAPACITY",
		"APP_STAGING_ROOT",
		"BOT_TOKEN",
		"WEBHOOK_HOST",
		"TELEGRAM_API_URL",
		"MENU_TALK_LABEL",
		"MENU_IMAGE_LABEL",
		"MENU_AVATAR_LABEL",
		"OPENROUTER_API_KEY",
		"OPENROUTER_BASE_URL",
		"OPENROUTER_MODEL",
		"OPENAI_API_KEY",
		"IMAGE_BASE_URL",
		"IMAGE_MODEL",
		"IMAGE_SIZE",
		"AVATAR_MODEL",
		"AVATAR_SIZE",
		"TRANSCRIBE_BASE_URL",
		"TRANSCRIBE_MODEL",
		"ELEVEN_API_KEY",
		"ELEVENLABS_WS_BASE_URL",
		"ELEVEN_VOICE_ID",
		"ELEVEN_MODEL_ID",
		"ELEVEN_TTS_OUTPUT_FORMAT",
		"FFMPEG_PATH",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
