package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gift_wheel/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		rq := require.New(t)
		t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/wheel")
		t.Setenv("MARKET_COLLECTIONS", "EQa,EQb")
		t.Setenv("MARKET_SALE_CODE_HASHES", "aa11,bb22")
		t.Setenv("TON_WALLET_MNEMONIC", `"word1 word2"`)

		cfg, err := config.Load()
		rq.NoError(err)

		rq.True(cfg.Wheel.ConsumeOnce)
		rq.Equal(10*time.Minute, cfg.Wheel.TTL)
		rq.Equal("0.6", cfg.Wheel.RTP.String())
		rq.Equal("20", cfg.Wheel.PriceRangePercent.String())
		rq.Equal([]string{"EQa", "EQb"}, cfg.Market.Collections)
		rq.Equal([]string{"aa11", "bb22"}, cfg.Market.SaleCodeHashes)
		rq.Equal(10*time.Minute, cfg.Market.SyncInterval)
		rq.Equal("word1 word2", cfg.TON.Mnemonic)
		rq.Equal("0.015", cfg.Rates.StarsUSD.String())
		rq.False(cfg.Bot.Enabled())
	})

	t.Run("missing sale code hashes", func(t *testing.T) {
		t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/wheel")
		t.Setenv("MARKET_SALE_CODE_HASHES", "")

		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("missing dsn", func(t *testing.T) {
		t.Setenv("PG_DSN", "")
		t.Setenv("MARKET_SALE_CODE_HASHES", "aa11")

		_, err := config.Load()
		require.Error(t, err)
	})
}
