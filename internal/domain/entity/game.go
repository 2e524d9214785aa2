package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameRecord — запись о сыгранной игре. Только добавляется.
type GameRecord struct {
	ID        uuid.UUID
	UserID    string
	Amount    decimal.Decimal
	Currency  Currency
	CreatedAt time.Time
}

// UserGift — выигранный пользователем подарок.
type UserGift struct {
	ID                uuid.UUID
	UserID            string
	Name              string
	NftAddress        string
	CollectionAddress string
	Image             string
	Price             decimal.Decimal // TON
	IsOut             bool
	CreatedAt         time.Time
}

// BuyBackShare — доля цены, которую возвращаем при выкупе подарка.
var BuyBackShare = decimal.RequireFromString("0.8") //nolint:gochecknoglobals

// BuyBackAmount — сумма выкупа в TON, округлённая до сотых.
func (g UserGift) BuyBackAmount() decimal.Decimal {
	return g.Price.Mul(BuyBackShare).Round(2)
}
