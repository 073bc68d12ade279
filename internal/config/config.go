package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pauljones0/lotto-receipt-bot/internal/util"
	"github.com/pauljones0/lotto-receipt-bot/internal/validator"
)

const (
	StateBackendFile      = "file"
	StateBackendFirestore = "firestore"

	defaultBaseURL   = "https://developers.lotto.pl/api/open/v1"
	defaultUserAgent = "https://github.com/pauljones0/lotto-receipt-bot"
)

// DefaultGames is used when no games are passed on the command line.
var DefaultGames = []string{"Lotto", "MiniLotto"}

type Config struct {
	APIKey       string        `validate:"required"`
	APIBaseURL   string        `validate:"required,url"`
	UserAgent    string        `validate:"required"`
	Games        []string      `validate:"required,min=1,dive,required"`
	PollInterval time.Duration `validate:"gt=0"`
	HTTPTimeout  time.Duration `validate:"gt=0"`
	APIRateLimit float64       `validate:"gt=0"`

	StateBackend       string `validate:"oneof=file firestore"`
	StateFile          string `validate:"required_if=StateBackend file"`
	ProjectID          string `validate:"required_if=StateBackend firestore"`
	FirestoreCredsFile string
	PrinterVendorID    uint16
	PrinterProductID   uint16
	PrinterProfile     string `validate:"required"`
	PrinterEndpoint    int    `validate:"gte=1,lte=15"`
	PrinterDevice      string
	PrinterRetries     int           `validate:"gte=0"`
	PrinterTimeout     time.Duration `validate:"gt=0"`
	DiscordWebhookURL  string        `validate:"omitempty,url"`
	Port               string
	LogLevel           slog.Level
}

// Load builds the configuration from the environment (optionally seeded from
// a .env file) and the positional command-line arguments naming the games.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	apiKey := os.Getenv("LOTTO_API")
	if apiKey == "" {
		return nil, fmt.Errorf("LOTTO_API environment variable is required but not set")
	}

	games := DefaultGames
	if len(args) > 0 {
		games = args
		slog.Info("Using games from arguments", "games", games)
	} else {
		slog.Info("Defaulting to games", "games", games)
	}

	cfg := &Config{
		APIKey:             apiKey,
		APIBaseURL:         strings.TrimSuffix(envOr("LOTTO_API_BASE_URL", defaultBaseURL), "/"),
		UserAgent:          envOr("USER_AGENT", defaultUserAgent),
		Games:              append([]string(nil), games...),
		StateBackend:       envOr("STATE_BACKEND", StateBackendFile),
		StateFile:          envOr("STATE_FILE", "last_printed.json"),
		ProjectID:          os.Getenv("GOOGLE_CLOUD_PROJECT"),
		FirestoreCredsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		PrinterProfile:     envOr("PRINTER_PROFILE", "NT-5890K"),
		PrinterDevice:      os.Getenv("PRINTER_DEVICE"),
		DiscordWebhookURL:  os.Getenv("DISCORD_WEBHOOK_URL"),
		Port:               envOr("PORT", "8080"),
	}

	var err error
	if cfg.PollInterval, err = envDuration("POLL_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = envDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PrinterTimeout, err = envDuration("PRINTER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.APIRateLimit = 2
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if cfg.APIRateLimit, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid API_RATE_LIMIT %q: %w", v, err)
		}
	}

	if cfg.PrinterVendorID, err = util.ParseUSBID(envOr("PRINTER_VENDOR_ID", "0x0416")); err != nil {
		return nil, fmt.Errorf("invalid PRINTER_VENDOR_ID: %w", err)
	}
	if cfg.PrinterProductID, err = util.ParseUSBID(envOr("PRINTER_PRODUCT_ID", "0x5011")); err != nil {
		return nil, fmt.Errorf("invalid PRINTER_PRODUCT_ID: %w", err)
	}
	if cfg.PrinterEndpoint, err = envInt("PRINTER_ENDPOINT", 1); err != nil {
		return nil, err
	}
	if cfg.PrinterRetries, err = envInt("PRINTER_RETRIES", 2); err != nil {
		return nil, err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	if cfg.DiscordWebhookURL == "" {
		slog.Info("DISCORD_WEBHOOK_URL not set, receipts will not be mirrored")
	}

	if err := validator.New().ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// HTTPEnabled reports whether the health/trigger server should run.
func (c *Config) HTTPEnabled() bool {
	return c.Port != "" && c.Port != "off"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
