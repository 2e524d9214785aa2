package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type TON struct {
	ConfigURL string `env:"TON_CONFIG_URL" envDefault:"https://ton.org/global.config.json"`
	Mnemonic  string `env:"TON_WALLET_MNEMONIC" json:"-"`

	MaxRetries int           `env:"TON_MAX_RETRIES" envDefault:"3"`
	BaseDelay  time.Duration `env:"TON_RETRY_BASE_DELAY" envDefault:"2s"`
}

type Rates struct {
	URL            string          `env:"RATES_URL" envDefault:"https://tonapi.io/v2/rates?tokens=ton&currencies=usd"`
	APIKey         string          `env:"RATES_API_KEY" json:"-"`
	StarsUSD       decimal.Decimal `env:"RATES_STARS_USD" envDefault:"0.015"`
	FallbackTonUSD decimal.Decimal `env:"RATES_FALLBACK_TON_USD" envDefault:"0"`
}
