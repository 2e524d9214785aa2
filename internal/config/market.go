package config

import "time"

type Market struct {
	// Collections — адреса коллекций. Пусто — берём список у маркетплейса.
	Collections []string `env:"MARKET_COLLECTIONS" envSeparator:","`
	// SaleCodeHashes — hex хэши кода допустимых контрактов продажи (fix-price getgems).
	SaleCodeHashes []string      `env:"MARKET_SALE_CODE_HASHES,notEmpty" envSeparator:","`
	GetgemsURL     string        `env:"GETGEMS_API_URL" envDefault:"https://api.getgems.io/public-api"`
	GetgemsAPIKey  string        `env:"GETGEMS_API_KEY" json:"-"`
	SyncInterval   time.Duration `env:"MARKET_SYNC_INTERVAL" envDefault:"10m"`
	// SyncOnStart — проход сразу при старте. Периодическая синхронизация идёт всегда.
	SyncOnStart    bool          `env:"MARKET_SYNC_ON_START" envDefault:"true"`
	RequestTimeout time.Duration `env:"MARKET_REQUEST_TIMEOUT" envDefault:"30s"`
}
