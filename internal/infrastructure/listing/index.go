package listing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/infrastructure/kv"
	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const (
	byPriceKey   = "gifts:nfts:by-price"
	detailPrefix = "gifts:nft:"
	minPriceKey  = "gifts:min_price_ton"

	MinPriceTTL = 5 * time.Minute
)

var hundred = decimal.NewFromInt(100) //nolint:gochecknoglobals

// Index — индекс листингов, отсортированный по цене в TON.
type Index struct {
	kv          kv.Store
	minPriceTTL time.Duration
}

func New(store kv.Store) *Index {
	return &Index{kv: store, minPriceTTL: MinPriceTTL}
}

func detailKey(address string) string { return detailPrefix + address }

// Upsert обновляет цену в ZSET и карточку листинга.
func (i *Index) Upsert(ctx context.Context, l entity.NftListing) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := i.kv.ZAdd(ctx, byPriceKey, l.PriceTON.InexactFloat64(), l.NftAddress); err != nil {
		return fmt.Errorf("kv.ZAdd: %w", err)
	}

	if err := i.kv.Set(ctx, detailKey(l.NftAddress), string(raw), 0); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

// ByPriceRange возвращает листинги с ценой target ± percent%.
// Нижняя граница не опускается ниже нуля.
func (i *Index) ByPriceRange(ctx context.Context, target, percent decimal.Decimal) ([]entity.NftListing, error) {
	delta := target.Mul(percent).Div(hundred)
	lo := decimal.Max(decimal.Zero, target.Sub(delta))
	hi := target.Add(delta)

	addresses, err := i.kv.ZRangeByScore(ctx, byPriceKey, lo.InexactFloat64(), hi.InexactFloat64(), 0)
	if err != nil {
		return nil, fmt.Errorf("kv.ZRangeByScore: %w", err)
	}

	return i.details(ctx, addresses)
}

// Cheapest возвращает n самых дешёвых листингов.
func (i *Index) Cheapest(ctx context.Context, n int) ([]entity.NftListing, error) {
	if n <= 0 {
		return nil, nil
	}

	addresses, err := i.kv.ZRange(ctx, byPriceKey, 0, int64(n-1))
	if err != nil {
		return nil, fmt.Errorf("kv.ZRange: %w", err)
	}

	return i.details(ctx, addresses)
}

func (i *Index) Count(ctx context.Context) (int64, error) {
	n, err := i.kv.ZCard(ctx, byPriceKey)
	if err != nil {
		return 0, fmt.Errorf("kv.ZCard: %w", err)
	}

	return n, nil
}

func (i *Index) Get(ctx context.Context, address string) (entity.NftListing, error) {
	raw, ok, err := i.kv.Get(ctx, detailKey(address))
	if err != nil {
		return entity.NftListing{}, fmt.Errorf("kv.Get: %w", err)
	}
	if !ok {
		return entity.NftListing{}, domain.NewNotFoundError(errcodes.ListingNotFound, "listing not found: "+address)
	}

	var l entity.NftListing
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return entity.NftListing{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return l, nil
}

// details подтягивает карточки; битые и пропавшие пропускаются.
func (i *Index) details(ctx context.Context, addresses []string) ([]entity.NftListing, error) {
	listings := make([]entity.NftListing, 0, len(addresses))

	for _, addr := range addresses {
		l, err := i.Get(ctx, addr)
		if err != nil {
			logger(ctx).Debug("listing detail skipped", slog.String(logx.FieldAddress, addr), logx.Error(err))
			continue
		}
		listings = append(listings, l)
	}

	return listings, nil
}

// MinPrice читает закешированную минимальную цену.
func (i *Index) MinPrice(ctx context.Context) (decimal.Decimal, bool, error) {
	raw, ok, err := i.kv.Get(ctx, minPriceKey)
	if err != nil || !ok {
		return decimal.Zero, false, err
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	return price, true, nil
}

func (i *Index) SetMinPrice(ctx context.Context, price decimal.Decimal) error {
	if err := i.kv.Set(ctx, minPriceKey, price.String(), i.minPriceTTL); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}
