package handler

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"gift_wheel/internal/transport/bot/view"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	syncStatus := view.SyncStopped
	if h.sync.IsRunning() {
		syncStatus = view.SyncRunning
	}

	scope := view.CollectionsAll
	if n := len(h.sync.Collections().List()); n > 0 {
		scope = fmt.Sprintf("%d выбранных", n)
	}

	count, err := h.index.Count(ctx)
	if err != nil {
		logger(ctx).Error("index.Count", "error", err)
	}

	lastRun := "ещё не было"
	if report, at := h.sync.LastRun(); !at.IsZero() {
		lastRun = fmt.Sprintf("%s, сохранено %d, ошибок %d",
			at.Format(time.DateTime), report.Saved, report.Failed)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.StatusTemplate, syncStatus, scope, count, lastRun))
}

// OnSync запрашивает внеочередной проход у работающего планировщика.
func (h *Handler) OnSync(ctx *th.Context, msg telego.Message) error {
	if !h.sync.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.SyncNotRunning)
	}

	if !h.sync.TriggerNow() {
		return h.send(ctx, msg.Chat.ID, view.SyncAlreadyQueued)
	}

	return h.send(ctx, msg.Chat.ID, view.SyncTriggered)
}

func (h *Handler) OnStartSync(ctx *th.Context, msg telego.Message) error {
	if h.sync.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.SyncAlreadyStarted)
	}

	if err := h.sync.Start(h.baseCtx); err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf("Ошибка запуска: %v", err))
	}

	return h.send(ctx, msg.Chat.ID, view.SyncStarted)
}

func (h *Handler) OnStopSync(ctx *th.Context, msg telego.Message) error {
	if !h.sync.IsRunning() {
		return h.send(ctx, msg.Chat.ID, view.SyncStopped)
	}

	h.sync.Stop()

	return h.send(ctx, msg.Chat.ID, view.SyncStoppedMsg)
}

func (h *Handler) OnCollections(ctx *th.Context, msg telego.Message) error {
	items := h.sync.Collections().List()

	if len(items) == 0 {
		return h.sendHTML(ctx, msg.Chat.ID, view.CollectionsEmpty)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Коллекции (%d):</b>\n\n", len(items)))

	for i, c := range items {
		sb.WriteString(fmt.Sprintf("%d. <code>%s</code>\n", i+1, html.EscapeString(c.Address)))
	}

	sb.WriteString("\n<i>Нажмите на адрес чтобы скопировать</i>")

	return h.sendHTML(ctx, msg.Chat.ID, sb.String())
}

// OnAddCollection добавляет коллекцию в синхронизацию
// Использование: /addcollection EQ...
func (h *Handler) OnAddCollection(ctx *th.Context, msg telego.Message) error {
	addr, ok := commandArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.CollectionAddUsage)
	}

	if h.sync.Collections().Has(addr) {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.CollectionExists, html.EscapeString(addr)))
	}

	h.sync.Collections().Add(addr)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.CollectionAdded, html.EscapeString(addr)))
}

func (h *Handler) OnRemoveCollection(ctx *th.Context, msg telego.Message) error {
	addr, ok := commandArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.CollectionRemoveUsage)
	}

	if !h.sync.Collections().Remove(addr) {
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.CollectionMissing, html.EscapeString(addr)))
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.CollectionRemoved, html.EscapeString(addr)))
}

func (h *Handler) OnMinPrice(ctx *th.Context, msg telego.Message) error {
	mp, err := h.minPrice.MinPrice(ctx)
	if err != nil {
		logger(ctx).Error("minPrice.MinPrice", "error", err)
		return h.send(ctx, msg.Chat.ID, view.MinPriceError)
	}

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.MinPriceTemplate, mp.TON, mp.Stars))
}

func commandArg(text string) (string, bool) {
	args := strings.Fields(text)
	if len(args) < 2 {
		return "", false
	}
	return args[1], true
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}
