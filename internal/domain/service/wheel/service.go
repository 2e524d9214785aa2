package wheel

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/logx"
	"gift_wheel/pkg/metrics"
)

type RateProvider interface {
	Rates(ctx context.Context) (entity.Rates, error)
}

type ListingIndex interface {
	ByPriceRange(ctx context.Context, target, percent decimal.Decimal) ([]entity.NftListing, error)
}

type WheelStore interface {
	Save(ctx context.Context, userID string, wheel entity.Wheel) error
}

type MinPriceCache interface {
	MinPrice(ctx context.Context) (decimal.Decimal, bool, error)
	SetMinPrice(ctx context.Context, price decimal.Decimal) error
}

// MinPrice — минимальная ставка, на которую в индексе есть подарки.
type MinPrice struct {
	TON   decimal.Decimal
	Stars decimal.Decimal
}

var (
	defaultProbeStep   = decimal.RequireFromString("0.5") //nolint:gochecknoglobals
	defaultProbeMax    = decimal.NewFromInt(100)          //nolint:gochecknoglobals
	defaultMinFallback = decimal.NewFromInt(1)            //nolint:gochecknoglobals
	starsRoundStep     = decimal.NewFromInt(100)          //nolint:gochecknoglobals
	starsPerTonNoRate  = decimal.NewFromInt(10)           //nolint:gochecknoglobals
)

type Service struct {
	composer     *Composer
	rates        RateProvider
	index        ListingIndex
	store        WheelStore
	minPrice     MinPriceCache
	pricePercent decimal.Decimal
	probeStep    decimal.Decimal
	probeMax     decimal.Decimal
}

func NewService(
	composer *Composer,
	rates RateProvider,
	index ListingIndex,
	store WheelStore,
	minPrice MinPriceCache,
) *Service {
	return &Service{
		composer:     composer,
		rates:        rates,
		index:        index,
		store:        store,
		minPrice:     minPrice,
		pricePercent: decimal.NewFromInt(20),
		probeStep:    defaultProbeStep,
		probeMax:     defaultProbeMax,
	}
}

// WithPriceRange задаёт окно поиска подарков, ±percent от цели.
func (s *Service) WithPriceRange(percent decimal.Decimal) *Service {
	s.pricePercent = percent
	return s
}

// BuildWheel собирает барабан под ставку и сохраняет его за пользователем.
func (s *Service) BuildWheel(ctx context.Context, userID string, stake entity.Stake) (entity.Wheel, error) {
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return entity.Wheel{}, fmt.Errorf("rates.Rates: %w", err)
	}

	stakeTON := rates.ToTON(stake.Amount, stake.Currency)
	tier := s.composer.Tier(stakeTON)

	var gifts []entity.GiftSlot

	if tier != entity.TierMid {
		gifts, err = s.giftCandidates(ctx, stakeTON)
		if err != nil {
			return entity.Wheel{}, err
		}
	}

	wheel, err := s.composer.Compose(stake, rates, gifts)
	if err != nil {
		return entity.Wheel{}, fmt.Errorf("composer.Compose: %w", err)
	}

	if err := s.store.Save(ctx, userID, wheel); err != nil {
		return entity.Wheel{}, fmt.Errorf("store.Save: %w", err)
	}

	metrics.WheelsBuilt.WithLabelValues(string(wheel.Tier)).Inc()

	logger(ctx).Debug("wheel built",
		slog.String(logx.FieldUserID, userID),
		slog.String("tier", string(wheel.Tier)),
		slog.Int("slots", len(wheel.Slots)),
		slog.String("stake-ton", stakeTON.String()),
	)

	return wheel, nil
}

// giftCandidates ищет листинги в окне вокруг max(ставка, мин. цена).
func (s *Service) giftCandidates(ctx context.Context, stakeTON decimal.Decimal) ([]entity.GiftSlot, error) {
	minPrice, err := s.minPriceTON(ctx)
	if err != nil {
		return nil, err
	}

	target := decimal.Max(stakeTON, minPrice)

	listings, err := s.index.ByPriceRange(ctx, target, s.pricePercent)
	if err != nil {
		return nil, fmt.Errorf("index.ByPriceRange: %w", err)
	}

	limit := max(s.composer.cfg.LowTierGifts, s.composer.cfg.SecretSlots)
	if len(listings) > limit {
		listings = listings[:limit]
	}

	gifts := make([]entity.GiftSlot, 0, len(listings))
	for _, l := range listings {
		gifts = append(gifts, l.GiftSlot())
	}

	return gifts, nil
}

// MinPrice возвращает минимальную ставку в TON и Stars.
func (s *Service) MinPrice(ctx context.Context) (MinPrice, error) {
	minTON, err := s.minPriceTON(ctx)
	if err != nil {
		return MinPrice{}, err
	}

	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return MinPrice{}, fmt.Errorf("rates.Rates: %w", err)
	}

	stars := minTON.Mul(starsPerTonNoRate)
	if rates.StarsUSD.IsPositive() {
		stars = minTON.Mul(rates.TonUSD).Div(rates.StarsUSD)
	}

	return MinPrice{
		TON:   minTON.Round(2),
		Stars: stars.Div(starsRoundStep).Ceil().Mul(starsRoundStep),
	}, nil
}

// minPriceTON перебирает цены с шагом probeStep, пока индекс не вернёт
// хоть один листинг. Результат кешируется.
func (s *Service) minPriceTON(ctx context.Context) (decimal.Decimal, error) {
	cached, ok, err := s.minPrice.MinPrice(ctx)
	if err != nil {
		logger(ctx).Warn("min price cache read failed", logx.Error(err))
	}
	if ok {
		return cached, nil
	}

	found := defaultMinFallback

	for price := s.probeStep; price.LessThanOrEqual(s.probeMax); price = price.Add(s.probeStep) {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, err
		}

		listings, err := s.index.ByPriceRange(ctx, price, s.pricePercent)
		if err != nil {
			logger(ctx).Warn("min price probe failed", slog.String(logx.FieldPrice, price.String()), logx.Error(err))
			continue
		}
		if len(listings) > 0 {
			found = price
			break
		}
	}

	if err := s.minPrice.SetMinPrice(ctx, found); err != nil {
		logger(ctx).Warn("min price cache write failed", logx.Error(err))
	}

	return found, nil
}
