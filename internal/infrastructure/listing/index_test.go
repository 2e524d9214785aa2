package listing_test

import (
	"context"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/infrastructure/kv"
	"gift_wheel/internal/infrastructure/listing"
	"gift_wheel/pkg/errcodes"
)

func nft(addr, price string) entity.NftListing {
	return entity.NftListing{
		NftAddress:  addr,
		SaleAddress: "sale-" + addr,
		Name:        "Gift " + addr,
		Collection:  entity.CollectionRef{Address: "EQcol", Name: "Caps"},
		PriceTON:    decimal.RequireFromString(price),
	}
}

func seeded(t *testing.T, listings ...entity.NftListing) *listing.Index {
	t.Helper()

	idx := listing.New(kv.NewMemory())
	for _, l := range listings {
		require.NoError(t, idx.Upsert(context.Background(), l))
	}

	return idx
}

func TestIndexByPriceRange(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	idx := seeded(t, nft("a", "3.9"), nft("b", "4"), nft("c", "5"), nft("d", "6"), nft("e", "6.1"))

	got, err := idx.ByPriceRange(ctx, decimal.NewFromInt(5), decimal.NewFromInt(20))
	rq.NoError(err)
	rq.Len(got, 3)
	rq.Equal("b", got[0].NftAddress)
	rq.Equal("c", got[1].NftAddress)
	rq.Equal("d", got[2].NftAddress)
	rq.Equal("sale-c", got[1].SaleAddress)
	rq.Equal("Caps", got[1].Collection.Name)
}

func TestIndexUpsertReprices(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	idx := seeded(t, nft("a", "1"), nft("b", "2"))
	rq.NoError(idx.Upsert(ctx, nft("a", "3")))

	n, err := idx.Count(ctx)
	rq.NoError(err)
	rq.EqualValues(2, n)

	cheapest, err := idx.Cheapest(ctx, 1)
	rq.NoError(err)
	rq.Len(cheapest, 1)
	rq.Equal("b", cheapest[0].NftAddress)

	a, err := idx.Get(ctx, "a")
	rq.NoError(err)
	rq.Equal("3", a.PriceTON.String())
}

func TestIndexGetMissing(t *testing.T) {
	rq := require.New(t)

	_, err := seeded(t).Get(context.Background(), "nope")
	rq.True(failure.IsNotFoundError(err))
	rq.Equal(errcodes.ListingNotFound, failure.Code(err))
}

func TestIndexMinPrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Now()
	idx := listing.New(kv.NewMemory().WithClock(func() time.Time { return now }))

	_, ok, err := idx.MinPrice(ctx)
	rq.NoError(err)
	rq.False(ok)

	rq.NoError(idx.SetMinPrice(ctx, decimal.RequireFromString("2.5")))

	price, ok, err := idx.MinPrice(ctx)
	rq.NoError(err)
	rq.True(ok)
	rq.Equal("2.5", price.String())

	now = now.Add(listing.MinPriceTTL)

	_, ok, err = idx.MinPrice(ctx)
	rq.NoError(err)
	rq.False(ok)
}
