package wheel_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/wheel"
)

type fakeRates struct {
	rates entity.Rates
}

func (f fakeRates) Rates(context.Context) (entity.Rates, error) {
	return f.rates, nil
}

// fakeIndex отдаёт листинги, попадающие в окно ±percent от цели.
type fakeIndex struct {
	listings []entity.NftListing
	calls    int
}

func (f *fakeIndex) ByPriceRange(_ context.Context, target, percent decimal.Decimal) ([]entity.NftListing, error) {
	f.calls++

	delta := target.Mul(percent).Div(decimal.NewFromInt(100))
	lo, hi := target.Sub(delta), target.Add(delta)

	var out []entity.NftListing
	for _, l := range f.listings {
		if l.PriceTON.GreaterThanOrEqual(lo) && l.PriceTON.LessThanOrEqual(hi) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeStore struct {
	saved map[string]entity.Wheel
}

func (f *fakeStore) Save(_ context.Context, userID string, w entity.Wheel) error {
	if f.saved == nil {
		f.saved = make(map[string]entity.Wheel)
	}
	f.saved[userID] = w
	return nil
}

type fakeMinPriceCache struct {
	value decimal.Decimal
	set   bool
	sets  int
}

func (f *fakeMinPriceCache) MinPrice(context.Context) (decimal.Decimal, bool, error) {
	return f.value, f.set, nil
}

func (f *fakeMinPriceCache) SetMinPrice(_ context.Context, price decimal.Decimal) error {
	f.value, f.set = price, true
	f.sets++
	return nil
}

func listing(addr, price string) entity.NftListing {
	return entity.NftListing{
		NftAddress:  addr,
		SaleAddress: "sale-" + addr,
		Name:        addr,
		PriceTON:    decimal.RequireFromString(price),
	}
}

func TestServiceBuildWheel(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	index := &fakeIndex{listings: []entity.NftListing{
		listing("a", "4.6"), listing("b", "5"), listing("c", "5.5"), listing("d", "5.9"), listing("far", "9"),
	}}
	store := &fakeStore{}
	cache := &fakeMinPriceCache{value: decimal.NewFromInt(1), set: true}

	svc := wheel.NewService(newComposer(11), fakeRates{testRates}, index, store, cache)

	w, err := svc.BuildWheel(ctx, "user-1", tonStake(t, "5"))
	rq.NoError(err)
	rq.Equal(entity.TierLow, w.Tier)
	rq.Len(w.Slots, 20)

	stored, ok := store.saved["user-1"]
	rq.True(ok)
	rq.Equal(w.Tier, stored.Tier)

	for _, s := range w.Slots {
		if g, ok := s.(entity.GiftSlot); ok {
			rq.NotEqual("far", g.NftAddress)
			rq.Equal("sale-"+g.NftAddress, g.SaleAddress)
		}
	}

	// повторная сборка полностью заменяет прежний барабан
	w2, err := svc.BuildWheel(ctx, "user-1", tonStake(t, "15"))
	rq.NoError(err)
	rq.Equal(entity.TierMid, store.saved["user-1"].Tier)
	rq.Len(w2.Slots, 8)
}

func TestServiceBuildWheelMidTierSkipsIndex(t *testing.T) {
	rq := require.New(t)

	index := &fakeIndex{}
	svc := wheel.NewService(newComposer(2), fakeRates{testRates}, index, &fakeStore{}, &fakeMinPriceCache{})

	_, err := svc.BuildWheel(context.Background(), "u", tonStake(t, "12"))
	rq.NoError(err)
	rq.Zero(index.calls)
}

func TestServiceMinPrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	index := &fakeIndex{listings: []entity.NftListing{listing("a", "2.3")}}
	cache := &fakeMinPriceCache{}
	rates := entity.Rates{
		TonUSD:   decimal.RequireFromString("3.1"),
		StarsUSD: decimal.RequireFromString("0.015"),
	}

	svc := wheel.NewService(newComposer(1), fakeRates{rates}, index, &fakeStore{}, cache)

	price, err := svc.MinPrice(ctx)
	rq.NoError(err)
	rq.Equal("2", price.TON.String())
	// 2 * 3.1 / 0.015 = 413.33 -> 500
	rq.Equal("500", price.Stars.String())
	rq.Equal(1, cache.sets)

	probes := index.calls

	_, err = svc.MinPrice(ctx)
	rq.NoError(err)
	rq.Equal(probes, index.calls)
}

func TestServiceMinPriceFallback(t *testing.T) {
	rq := require.New(t)

	svc := wheel.NewService(newComposer(1), fakeRates{entity.Rates{TonUSD: decimal.NewFromInt(3)}}, &fakeIndex{}, &fakeStore{}, &fakeMinPriceCache{})

	price, err := svc.MinPrice(context.Background())
	rq.NoError(err)
	rq.Equal("1", price.TON.String())
	// курса звёзд нет: 1 * 10 -> 100
	rq.Equal("100", price.Stars.String())
}
