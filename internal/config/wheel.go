package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type Wheel struct {
	// ConsumeOnce: барабан удаляется при спине, повторный спин требует нового барабана.
	ConsumeOnce bool            `env:"WHEEL_CONSUME_ONCE" envDefault:"true"`
	TTL         time.Duration   `env:"WHEEL_TTL" envDefault:"10m"`
	RTP         decimal.Decimal `env:"WHEEL_RTP" envDefault:"0.6"`
	// PriceRangePercent — окно поиска подарков вокруг ставки, ±%.
	PriceRangePercent decimal.Decimal `env:"WHEEL_PRICE_RANGE_PERCENT" envDefault:"20"`
}
