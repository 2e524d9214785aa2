package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"gift_wheel/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))

	adminGroup.HandleMessage(h.OnSync, th.CommandEqual("sync"))
	adminGroup.HandleMessage(h.OnStartSync, th.CommandEqual("startsync"))
	adminGroup.HandleMessage(h.OnStopSync, th.CommandEqual("stopsync"))

	adminGroup.HandleMessage(h.OnCollections, th.CommandEqual("collections"))
	adminGroup.HandleMessage(h.OnAddCollection, th.CommandEqual("addcollection"))
	adminGroup.HandleMessage(h.OnRemoveCollection, th.CommandEqual("removecollection"))

	adminGroup.HandleMessage(h.OnListings, th.CommandEqual("listings"))
	adminGroup.HandleMessage(h.OnMinPrice, th.CommandEqual("minprice"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnListingsCallback, th.CallbackDataPrefix(listingsPagePrefix))
}
