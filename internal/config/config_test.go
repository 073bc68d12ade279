package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set test environment variables (auto-cleaned up after test)
	t.Setenv("LOTTO_API", "test-secret")
	t.Setenv("STATE_FILE", "state.json")
	t.Setenv("PORT", "9090")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://test.webhook/api")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.APIKey != "test-secret" {
		t.Errorf("Expected test-secret, got %s", cfg.APIKey)
	}
	if cfg.StateFile != "state.json" {
		t.Errorf("Expected state.json, got %s", cfg.StateFile)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected 9090, got %s", cfg.Port)
	}
	if cfg.DiscordWebhookURL != "https://test.webhook/api" {
		t.Errorf("Expected webhook URL, got %s", cfg.DiscordWebhookURL)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("Expected default 5m, got %s", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected default 30s, got %s", cfg.HTTPTimeout)
	}
	if cfg.APIBaseURL != defaultBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.StateBackend != StateBackendFile {
		t.Errorf("Expected file backend, got %s", cfg.StateBackend)
	}
	if cfg.PrinterVendorID != 0x0416 || cfg.PrinterProductID != 0x5011 {
		t.Errorf("Expected default printer 0416:5011, got %04x:%04x", cfg.PrinterVendorID, cfg.PrinterProductID)
	}
	if cfg.PrinterProfile != "NT-5890K" {
		t.Errorf("Expected NT-5890K profile, got %s", cfg.PrinterProfile)
	}
	if cfg.PrinterRetries != 2 {
		t.Errorf("Expected default PrinterRetries 2, got %d", cfg.PrinterRetries)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_DefaultGames(t *testing.T) {
	t.Setenv("LOTTO_API", "test-secret")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if len(cfg.Games) != 2 || cfg.Games[0] != "Lotto" || cfg.Games[1] != "MiniLotto" {
		t.Errorf("Expected default games [Lotto MiniLotto], got %v", cfg.Games)
	}
}

func TestLoad_GamesFromArgs(t *testing.T) {
	t.Setenv("LOTTO_API", "test-secret")

	cfg, err := Load([]string{"EuroJackpot"})
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if len(cfg.Games) != 1 || cfg.Games[0] != "EuroJackpot" {
		t.Errorf("Expected [EuroJackpot], got %v", cfg.Games)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("LOTTO_API", "")

	_, err := Load(nil)
	if err == nil {
		t.Error("Load() should return an error when LOTTO_API is not set")
	}
}

func TestLoad_CustomPollInterval(t *testing.T) {
	t.Setenv("LOTTO_API", "test-secret")
	t.Setenv("POLL_INTERVAL", "90s")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.PollInterval != 90*time.Second {
		t.Errorf("Expected 90s, got %s", cfg.PollInterval)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"poll interval", "POLL_INTERVAL", "not-a-duration"},
		{"zero poll interval", "POLL_INTERVAL", "0s"},
		{"rate limit", "API_RATE_LIMIT", "fast"},
		{"vendor id", "PRINTER_VENDOR_ID", "0xZZZZ"},
		{"endpoint", "PRINTER_ENDPOINT", "99"},
		{"retries", "PRINTER_RETRIES", "-1"},
		{"log level", "LOG_LEVEL", "loud"},
		{"backend", "STATE_BACKEND", "redis"},
		{"webhook", "DISCORD_WEBHOOK_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOTTO_API", "test-secret")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(nil); err == nil {
				t.Errorf("Load() should return error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_FirestoreRequiresProject(t *testing.T) {
	t.Setenv("LOTTO_API", "test-secret")
	t.Setenv("STATE_BACKEND", StateBackendFirestore)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	if _, err := Load(nil); err == nil {
		t.Error("Load() should require GOOGLE_CLOUD_PROJECT for the firestore backend")
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.ProjectID != "test-project" {
		t.Errorf("Expected test-project, got %s", cfg.ProjectID)
	}
}

func TestHTTPEnabled(t *testing.T) {
	for port, want := range map[string]bool{"8080": true, "": false, "off": false} {
		cfg := &Config{Port: port}
		if got := cfg.HTTPEnabled(); got != want {
			t.Errorf("HTTPEnabled() with port %q = %v, want %v", port, got, want)
		}
	}
}
