package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"gift_wheel/internal/config"
	"gift_wheel/internal/transport/bot/handler"
	"gift_wheel/pkg/logx"
)

// Bot — админ-бот: управление синхронизацией рынка и просмотр индекса.
type Bot struct {
	bot     *telego.Bot
	adminID int64

	handler *handler.Handler
}

func New(cfg config.Bot, h *handler.Handler) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		bot:     bot,
		adminID: cfg.AdminID,
		handler: h,
	}, nil
}

// Telego отдаёт клиент, чтобы уведомления шли через того же бота.
func (b *Bot) Telego() *telego.Bot {
	return b.bot
}

// Run принимает обновления long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.adminID)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler start", logx.Error(err))
		}
	}()

	logger(ctx).Info("admin bot started")

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("bot handler stop", logx.Error(err))
	}

	return nil
}
