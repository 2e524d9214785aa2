package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/lox"
)

type UserGiftRepository struct {
	db *sqlx.DB
}

func NewUserGiftRepository(db *sqlx.DB) *UserGiftRepository {
	return &UserGiftRepository{db: db}
}

// Create сохраняет выигранный подарок.
func (r *UserGiftRepository) Create(ctx context.Context, gift *entity.UserGift) error {
	if gift.ID == uuid.Nil {
		gift.ID = uuid.New()
	}

	query := `
		INSERT INTO user_gifts (id, user_id, name, nft_address, collection_address, image, price, is_out, created_at)
		VALUES (:id, :user_id, :name, :nft_address, :collection_address, :image, :price, :is_out, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, fromUserGift(gift)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert user gift")
	}

	return nil
}

// Get возвращает подарок пользователя. Чужой подарок не отличим от отсутствующего.
func (r *UserGiftRepository) Get(ctx context.Context, userID string, id uuid.UUID) (entity.UserGift, error) {
	query := `
		SELECT id, user_id, name, nft_address, collection_address, image, price, is_out, created_at
		FROM user_gifts
		WHERE id = $1 AND user_id = $2`

	var schema userGiftSchema
	if err := r.db.GetContext(ctx, &schema, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.UserGift{}, domain.NewNotFoundError(errcodes.GiftNotFound, "gift not found")
		}
		return entity.UserGift{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get user gift")
	}

	return schema.toDomain(), nil
}

// ListByUser возвращает подарки пользователя, новые первыми.
func (r *UserGiftRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.UserGift, error) {
	query := `
		SELECT id, user_id, name, nft_address, collection_address, image, price, is_out, created_at
		FROM user_gifts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var schemas []userGiftSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list user gifts")
	}

	return lox.Map(schemas, userGiftSchema.toDomain), nil
}
