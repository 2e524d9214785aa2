package handler

import (
	"context"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/wheel"
	"gift_wheel/internal/worker"
)

type ListingIndex interface {
	Cheapest(ctx context.Context, n int) ([]entity.NftListing, error)
	Count(ctx context.Context) (int64, error)
}

type MinPricer interface {
	MinPrice(ctx context.Context) (wheel.MinPrice, error)
}

type Handler struct {
	sync     *worker.MarketSync
	index    ListingIndex
	minPrice MinPricer

	// baseCtx — контекст приложения, в нём живёт планировщик.
	baseCtx context.Context //nolint:containedctx
}

func New(baseCtx context.Context, sync *worker.MarketSync, index ListingIndex, minPrice MinPricer) *Handler {
	return &Handler{
		sync:     sync,
		index:    index,
		minPrice: minPrice,
		baseCtx:  baseCtx,
	}
}
