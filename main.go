package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naseer2426/county-bot/internal/api"
	"github.com/naseer2426/county-bot/internal/config"
	"github.com/naseer2426/county-bot/internal/counter"
	"github.com/naseer2426/county-bot/internal/logger"
	"github.com/naseer2426/county-bot/internal/service"
	"github.com/naseer2426/county-bot/internal/telegram"
)

const usage = `usage: county-bot [longpoll|webhook|set_webhook|delete_webhook]

The mode can also be set with RUN_MODE. See .env.example for all settings.
`

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	var runMode string
	if len(os.Args) > 1 {
		if os.Args[1] == "-h" || os.Args[1] == "--help" {
			fmt.Fprint(os.Stderr, usage)
			return nil
		}
		runMode = os.Args[1]
	}

	cfg, err := config.Load(runMode)
	if err != nil {
		return err
	}
	if err := initLogger(cfg); err != nil {
		return err
	}
	slog.Info("configuration loaded", "config", cfg)

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	telegramAPI := initTelegramAPI(cfg)
	bot := counter.NewBot(telegramAPI, slog.Default())

	switch cfg.RunMode {
	case config.RunModeSetWebhook:
		return setWebhook(ctx, telegramAPI, cfg)
	case config.RunModeDeleteWebhook:
		return deleteWebhook(ctx, telegramAPI)
	}

	return setupServices(cfg, telegramAPI, bot).Run(ctx)
}

func initLogger(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	opts := *logger.DefaultOptions
	opts.Level = level
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))
	return nil
}

func initTelegramAPI(cfg *config.Config) *telegram.TelegramAPI {
	return telegram.NewTelegramAPI(cfg.TelegramBotToken, telegram.WithEndpoint(cfg.TelegramEndpoint))
}

func setupServices(cfg *config.Config, telegramAPI *telegram.TelegramAPI, bot *counter.Bot) service.Group {
	if cfg.RunMode == config.RunModeWebhook {
		router := api.NewRouter(cfg.WebhookPath, &api.TelegramWebhook{
			Bot:    bot,
			Secret: cfg.WebhookSecret,
			Log:    slog.Default().With("component", "webhook"),
		})
		return service.Group{&service.HTTPServer{
			Addr:    cfg.ListenAddr(),
			Handler: router,
		}}
	}

	return service.Group{service.NewLongPoller(
		telegramAPI,
		bot,
		cfg.LongPollTimeoutDuration(),
		cfg.PollRetryDelay,
		slog.Default(),
	)}
}

func setWebhook(ctx context.Context, telegramAPI *telegram.TelegramAPI, cfg *config.Config) error {
	params := telegram.Params{
		"url":             cfg.WebhookURL,
		"allowed_updates": telegram.AllowedUpdates,
	}
	if cfg.WebhookSecret != "" {
		params["secret_token"] = cfg.WebhookSecret
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	resp, err := telegramAPI.Method("setWebhook").Invoke(ctx, params)
	if err != nil {
		return fmt.Errorf("setting webhook: %w", err)
	}
	description, _ := resp.Get("description").AsString()
	slog.Info("webhook set", "url", cfg.WebhookURL, "description", description)
	return nil
}

func deleteWebhook(ctx context.Context, telegramAPI *telegram.TelegramAPI) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := telegramAPI.Invoke(ctx, "deleteWebhook", nil); err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}
	slog.Info("webhook deleted")
	return nil
}
