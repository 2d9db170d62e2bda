package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	RunModeLongpoll      = "longpoll"
	RunModeWebhook       = "webhook"
	RunModeSetWebhook    = "set_webhook"
	RunModeDeleteWebhook = "delete_webhook"
)

const maxLongPollTimeout = 600

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramEndpoint string `env:"TELEGRAM_API_ENDPOINT" envDefault:"https://api.telegram.org/bot{token}/{method}"`

	RunMode string `env:"RUN_MODE" envDefault:"longpoll"`

	// LongPollTimeout is in whole seconds, [0, 600].
	LongPollTimeout int           `env:"LONGPOLL_TIMEOUT" envDefault:"30"`
	PollRetryDelay  time.Duration `env:"POLL_RETRY_DELAY" envDefault:"3s"`

	Port          int    `env:"PORT" envDefault:"8080"`
	WebhookPath   string `env:"WEBHOOK_PATH" envDefault:"/telegram/webhook"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and the process environment. A non-empty
// runMode replaces RUN_MODE.
func Load(runMode string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	return Parse(nil, runMode)
}

// Parse reads the configuration from environment, or from the process
// environment when environment is nil.
func Parse(environment map[string]string, runMode string) (*Config, error) {
	cfg := Config{}
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	if runMode != "" {
		cfg.RunMode = runMode
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}
	}
	return nil
}

// Normalize validates the configuration and canonicalizes the run mode.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if strings.TrimSpace(cfg.TelegramBotToken) == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if !strings.Contains(cfg.TelegramEndpoint, "{token}") || !strings.Contains(cfg.TelegramEndpoint, "{method}") {
		return fmt.Errorf("TELEGRAM_API_ENDPOINT %q must contain {token} and {method}", cfg.TelegramEndpoint)
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.RunMode))
	if rm == "" || rm == "polling" {
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeLongpoll:
		if cfg.LongPollTimeout < 0 || cfg.LongPollTimeout > maxLongPollTimeout {
			return fmt.Errorf("LONGPOLL_TIMEOUT must be in [0, %d], got %d", maxLongPollTimeout, cfg.LongPollTimeout)
		}
		if cfg.PollRetryDelay < 0 {
			return fmt.Errorf("POLL_RETRY_DELAY must not be negative")
		}
	case RunModeWebhook:
		if cfg.Port < 0 || cfg.Port > 65535 {
			return fmt.Errorf("PORT must be in [0, 65535], got %d", cfg.Port)
		}
		if !strings.HasPrefix(cfg.WebhookPath, "/") {
			return fmt.Errorf("WEBHOOK_PATH must start with /, got %q", cfg.WebhookPath)
		}
	case RunModeSetWebhook:
		if strings.TrimSpace(cfg.WebhookURL) == "" {
			return fmt.Errorf("WEBHOOK_URL is required for %s", RunModeSetWebhook)
		}
	case RunModeDeleteWebhook:
	default:
		return fmt.Errorf("invalid run mode %q; allowed: %s, %s, %s, %s",
			cfg.RunMode, RunModeLongpoll, RunModeWebhook, RunModeSetWebhook, RunModeDeleteWebhook)
	}
	cfg.RunMode = rm
	return nil
}

func (c *Config) LongPollTimeoutDuration() time.Duration {
	return time.Duration(c.LongPollTimeout) * time.Second
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogValue keeps the token out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_mode", c.RunMode),
		slog.String("endpoint", c.TelegramEndpoint),
		slog.Int("longpoll_timeout", c.LongPollTimeout),
		slog.Int("port", c.Port),
		slog.String("webhook_path", c.WebhookPath),
		slog.Bool("webhook_secret_set", c.WebhookSecret != ""),
		slog.String("log_level", c.LogLevel),
	)
}
