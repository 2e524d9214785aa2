package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
)

// gameSchema — строка таблицы games.
type gameSchema struct {
	ID        uuid.UUID       `db:"id"`
	UserID    string          `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	Currency  string          `db:"currency"`
	CreatedAt time.Time       `db:"created_at"`
}

func fromGameRecord(r entity.GameRecord) gameSchema {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return gameSchema{
		ID:        r.ID,
		UserID:    r.UserID,
		Amount:    r.Amount,
		Currency:  string(r.Currency),
		CreatedAt: createdAt,
	}
}

func (s gameSchema) toDomain() entity.GameRecord {
	return entity.GameRecord{
		ID:        s.ID,
		UserID:    s.UserID,
		Amount:    s.Amount,
		Currency:  entity.Currency(s.Currency),
		CreatedAt: s.CreatedAt,
	}
}

// userGiftSchema — строка таблицы user_gifts.
type userGiftSchema struct {
	ID                uuid.UUID       `db:"id"`
	UserID            string          `db:"user_id"`
	Name              string          `db:"name"`
	NftAddress        string          `db:"nft_address"`
	CollectionAddress string          `db:"collection_address"`
	Image             string          `db:"image"`
	Price             decimal.Decimal `db:"price"`
	IsOut             bool            `db:"is_out"`
	CreatedAt         time.Time       `db:"created_at"`
}

func fromUserGift(g *entity.UserGift) userGiftSchema {
	createdAt := g.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return userGiftSchema{
		ID:                g.ID,
		UserID:            g.UserID,
		Name:              g.Name,
		NftAddress:        g.NftAddress,
		CollectionAddress: g.CollectionAddress,
		Image:             g.Image,
		Price:             g.Price,
		IsOut:             g.IsOut,
		CreatedAt:         createdAt,
	}
}

func (s userGiftSchema) toDomain() entity.UserGift {
	return entity.UserGift{
		ID:                s.ID,
		UserID:            s.UserID,
		Name:              s.Name,
		NftAddress:        s.NftAddress,
		CollectionAddress: s.CollectionAddress,
		Image:             s.Image,
		Price:             s.Price,
		IsOut:             s.IsOut,
		CreatedAt:         s.CreatedAt,
	}
}
