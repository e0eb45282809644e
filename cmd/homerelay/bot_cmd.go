package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
	"github.com/homerelay/homerelay/internal/frontend/telegram"
	"github.com/homerelay/homerelay/internal/notification"
)

// newBotCmd returns the "bot" subcommand for running the Telegram bot.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long: "Start the HomeRelay Telegram bot. The bot serves home and discovery\n" +
			"sections on demand and accepts media requests through inline buttons.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBot()
		},
	}
}

// runBot initializes services and starts the Telegram bot with an optional webhook server.
func runBot() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Telegram == nil {
		return errors.New(
			"telegram configuration is required: set telegram.bot_token in config or HOMERELAY_TELEGRAM_BOT_TOKEN env var",
		)
	}

	logger := config.SetupLogger(cfg.App.LogLevel)

	loader := initLoader(cfg, logger)
	media := initMediaServer(cfg, logger)

	bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AllowedUserIDs, loader, media, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start the Jellyseerr webhook listener in the background if configured.
	webhookErrCh := startWebhookIfConfigured(ctx, cfg, bot, logger)

	logger.Info("telegram bot starting")
	botErr := bot.Start(ctx)
	cancel() // Unblock the webhook server goroutine waiting on ctx.

	// Surface the webhook error if the bot exited cleanly.
	if webhookErr := <-webhookErrCh; webhookErr != nil && !errors.Is(webhookErr, context.Canceled) {
		if botErr == nil {
			return webhookErr
		}
		logger.Error("webhook server error", slog.String("error", webhookErr.Error()))
	}
	return botErr
}

// startWebhookIfConfigured launches the notification webhook server in the
// background. The returned channel receives the server error, or is closed
// immediately when webhooks are disabled.
func startWebhookIfConfigured(
	ctx context.Context, cfg *config.Config, bot *telegram.Bot, logger *slog.Logger,
) <-chan error {
	errCh := make(chan error, 1)
	if cfg.Webhook == nil {
		close(errCh)
		return errCh
	}

	svc := notification.NewService(bot, cfg.Telegram.AllowedUserIDs, logger)
	handler := notification.NewWebhookHandler(svc, cfg.Webhook.Secret, logger)
	srv := notification.NewServer(cfg.Webhook.Port, handler, logger)

	go func() {
		err := srv.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("webhook server stopped", slog.String("error", err.Error()))
		}
		errCh <- err
	}()
	return errCh
}
