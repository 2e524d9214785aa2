package handler

import (
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/transport/bot/view"
)

const (
	listingsPagePrefix = "listings_page"
	listingsPageSize   = 10
	// индекс отдаёт только «N самых дешёвых», поэтому страниц не больше maxListingPages
	maxListingPages = 10
)

func (h *Handler) OnListings(ctx *th.Context, msg telego.Message) error {
	text, keyboard, err := h.listingsPage(ctx, 1)
	if err != nil {
		return h.send(ctx, msg.Chat.ID, view.ListingsError)
	}

	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: msg.Chat.ID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err = ctx.Bot().SendMessage(ctx, params)
	return err
}

func (h *Handler) OnListingsCallback(ctx *th.Context, query telego.CallbackQuery) error {
	var page int
	if _, err := fmt.Sscanf(query.Data, listingsPagePrefix+":%d", &page); err != nil || page < 1 {
		page = 1
	}

	text, keyboard, err := h.listingsPage(ctx, page)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.ListingsError).WithShowAlert())
		return err
	}

	// Telegram отвечает ошибкой, если текст не изменился
	if _, err := ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger(ctx).Debug("EditMessageText", "error", err)
	}

	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return nil
}

func (h *Handler) listingsPage(ctx *th.Context, page int) (string, *telego.InlineKeyboardMarkup, error) {
	total, err := h.index.Count(ctx)
	if err != nil {
		return "", nil, err
	}

	if total == 0 {
		return view.ListingsEmpty, nil, nil
	}

	totalPages := min(int((total+listingsPageSize-1)/listingsPageSize), maxListingPages)
	page = min(max(page, 1), totalPages)

	listings, err := h.index.Cheapest(ctx, page*listingsPageSize)
	if err != nil {
		return "", nil, err
	}

	start := min((page-1)*listingsPageSize, len(listings))

	return renderListings(listings[start:], page, totalPages), createPaginationKeyboard(page, totalPages), nil
}

func renderListings(listings []entity.NftListing, page, totalPages int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(view.ListingsPaginationTemplate, page, totalPages))

	for _, l := range listings {
		sb.WriteString(fmt.Sprintf(view.ListingItemTemplate,
			html.EscapeString(l.Name),
			l.PriceTON.String(),
			html.EscapeString(l.NftAddress),
		))
	}

	return sb.String()
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s:%d", listingsPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s:%d", listingsPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}
