package notifier

import (
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"gift_wheel/internal/domain/entity"
)

// TelegramBot шлёт оператору уведомления о покупках NFT.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return NewTelegramBotFrom(bot, chatID), nil
}

// NewTelegramBotFrom использует уже созданного бота, например общего с админкой.
func NewTelegramBotFrom(bot *telego.Bot, chatID int64) *TelegramBot {
	return &TelegramBot{bot: bot, chatID: chatID}
}

func (b *TelegramBot) PurchaseSubmitted(ctx context.Context, task entity.PurchaseTask, res entity.PurchaseResult) error {
	return b.sendHTML(ctx, PurchaseSubmittedText(task, res))
}

func (b *TelegramBot) PurchaseFailed(ctx context.Context, task entity.PurchaseTask, err error) error {
	return b.sendHTML(ctx, PurchaseFailedText(task, err))
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

func (b *TelegramBot) sendHTML(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func PurchaseSubmittedText(task entity.PurchaseTask, res entity.PurchaseResult) string {
	return fmt.Sprintf(
		"✅ <b>NFT purchase submitted</b>\n\n"+
			"👤 <b>User:</b> %s\n"+
			"🎁 <b>NFT:</b> <code>%s</code>\n"+
			"🏷 <b>Sale:</b> <code>%s</code>\n"+
			"💰 <b>Price:</b> %s nanoTON\n"+
			"📌 <b>Status:</b> %s",
		html.EscapeString(task.UserID),
		html.EscapeString(task.NftAddress),
		html.EscapeString(res.SaleAddress),
		task.PriceNano,
		res.Status,
	)
}

func PurchaseFailedText(task entity.PurchaseTask, err error) string {
	return fmt.Sprintf(
		"❌ <b>NFT purchase failed</b>\n\n"+
			"👤 <b>User:</b> %s\n"+
			"🎁 <b>Gift:</b> <code>%s</code>\n"+
			"🏷 <b>Sale:</b> <code>%s</code>\n"+
			"💰 <b>Price:</b> %s nanoTON\n\n"+
			"<pre>%s</pre>",
		html.EscapeString(task.UserID),
		html.EscapeString(task.UserGiftID),
		html.EscapeString(task.SaleAddress),
		task.PriceNano,
		html.EscapeString(err.Error()),
	)
}
