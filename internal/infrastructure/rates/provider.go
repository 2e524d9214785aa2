package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

var errNoPrice = errors.New("rates: no positive TON/USD price in response")

const (
	DefaultURL = "https://tonapi.io/v2/rates?tokens=ton&currencies=usd"
	cacheTTL   = 5 * time.Minute
	ratesKey   = "rates"
)

// tonapiRates — ответ /v2/rates: {"rates":{"TON":{"prices":{"USD":3.1}}}}.
type tonapiRates struct {
	Rates map[string]struct {
		Prices map[string]decimal.Decimal `json:"prices"`
	} `json:"rates"`
}

type Config struct {
	URL string
	// StarsUSD — цена одной звезды в USD, задаётся конфигом.
	StarsUSD decimal.Decimal
	// FallbackTonUSD используется, если курс получить не удалось. Ноль — вернуть ошибку.
	FallbackTonUSD decimal.Decimal
}

// Provider отдаёт курсы TON/USD и Stars/USD, кеширует их на 5 минут.
type Provider struct {
	client *http.Client
	cfg    Config
	cache  *cache.Cache
}

func NewProvider(client *http.Client, cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}

	return &Provider{
		client: client,
		cfg:    cfg,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (p *Provider) Rates(ctx context.Context) (entity.Rates, error) {
	if cached, found := p.cache.Get(ratesKey); found {
		if r, ok := cached.(entity.Rates); ok {
			return r, nil
		}
	}

	tonUSD, err := p.fetchTonUSD(ctx)
	if err != nil {
		if !p.cfg.FallbackTonUSD.IsPositive() {
			return entity.Rates{}, err
		}

		logger(ctx).Warn("ton rate fetch failed, using fallback",
			logx.Error(err),
			"fallback", p.cfg.FallbackTonUSD.String(),
		)

		return entity.Rates{TonUSD: p.cfg.FallbackTonUSD, StarsUSD: p.cfg.StarsUSD}, nil
	}

	r := entity.Rates{TonUSD: tonUSD, StarsUSD: p.cfg.StarsUSD}
	p.cache.Set(ratesKey, r, cache.DefaultExpiration)

	return r, nil
}

func (p *Provider) fetchTonUSD(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rates: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("io.ReadAll: %w", err)
	}

	var payload tonapiRates
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("json.Unmarshal: %w", err)
	}

	price := payload.Rates["TON"].Prices["USD"]
	if !price.IsPositive() {
		return decimal.Zero, errNoPrice
	}

	return price, nil
}
