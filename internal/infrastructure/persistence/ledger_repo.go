package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/lox"
)

// LedgerRepository хранит балансы пользователей и журнал игр.
// Любое изменение баланса проходит здесь одним SQL-выражением.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Balance возвращает баланс в валюте. Нет строки — нулевой баланс.
func (r *LedgerRepository) Balance(ctx context.Context, userID string, currency entity.Currency) (decimal.Decimal, error) {
	query := `SELECT amount FROM balances WHERE user_id = $1 AND currency = $2`

	var amount decimal.Decimal
	if err := r.db.GetContext(ctx, &amount, query, userID, string(currency)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, domain.WrapError(err, errcodes.InternalServerError, "failed to get balance")
	}

	return amount, nil
}

// Balances возвращает все балансы пользователя.
func (r *LedgerRepository) Balances(ctx context.Context, userID string) (map[entity.Currency]decimal.Decimal, error) {
	query := `SELECT currency, amount FROM balances WHERE user_id = $1`

	var rows []struct {
		Currency string          `db:"currency"`
		Amount   decimal.Decimal `db:"amount"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list balances")
	}

	out := map[entity.Currency]decimal.Decimal{
		entity.CurrencyTON:   decimal.Zero,
		entity.CurrencyStars: decimal.Zero,
	}
	for _, row := range rows {
		out[entity.Currency(row.Currency)] = row.Amount
	}

	return out, nil
}

// DebitStake списывает ставку и пишет запись об игре в одной транзакции.
// Списание условное: при нехватке средств ничего не меняется.
func (r *LedgerRepository) DebitStake(ctx context.Context, record entity.GameRecord) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE balances
			SET amount = amount - $1, updated_at = $2
			WHERE user_id = $3 AND currency = $4 AND amount >= $1`

		res, err := tx.ExecContext(ctx, query, record.Amount, time.Now(), record.UserID, string(record.Currency))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to debit stake")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			return domain.NewInsufficientFundsError(fmt.Sprintf(
				"insufficient balance: required %s %s", record.Amount, record.Currency,
			))
		}

		insert := `
			INSERT INTO games (id, user_id, amount, currency, created_at)
			VALUES (:id, :user_id, :amount, :currency, :created_at)`

		if _, err := tx.NamedExecContext(ctx, insert, fromGameRecord(record)); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert game")
		}

		return nil
	})
}

// Credit начисляет сумму, создавая строку баланса при необходимости.
func (r *LedgerRepository) Credit(ctx context.Context, userID string, currency entity.Currency, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidationError(errcodes.InvalidAmount, "credit amount must be positive")
	}

	return r.credit(ctx, r.db, userID, currency, amount)
}

// BuyBack помечает подарок выданным и начисляет amount в TON.
func (r *LedgerRepository) BuyBack(ctx context.Context, userID string, giftID uuid.UUID, amount decimal.Decimal) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE user_gifts SET is_out = TRUE WHERE id = $1 AND user_id = $2 AND NOT is_out`

		res, err := tx.ExecContext(ctx, query, giftID, userID)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to mark gift out")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		if rows == 0 {
			// Уточняем причину: подарка нет или он уже выдан
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				`SELECT EXISTS(SELECT 1 FROM user_gifts WHERE id = $1 AND user_id = $2)`, giftID, userID,
			); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to check gift existence")
			}
			if !exists {
				return domain.NewNotFoundError(errcodes.GiftNotFound, "gift not found")
			}
			return domain.NewValidationError(errcodes.GiftAlreadyOut, "gift is already sold")
		}

		if !amount.IsPositive() {
			return nil
		}

		return r.credit(ctx, tx, userID, entity.CurrencyTON, amount)
	})
}

// Games возвращает последние игры пользователя.
func (r *LedgerRepository) Games(ctx context.Context, userID string, limit int) ([]entity.GameRecord, error) {
	query := `
		SELECT id, user_id, amount, currency, created_at
		FROM games
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	var schemas []gameSchema
	if err := r.db.SelectContext(ctx, &schemas, query, userID, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list games")
	}

	return lox.Map(schemas, gameSchema.toDomain), nil
}

func (r *LedgerRepository) credit(
	ctx context.Context,
	exec sqlx.ExecerContext,
	userID string,
	currency entity.Currency,
	amount decimal.Decimal,
) error {
	query := `
		INSERT INTO balances (user_id, currency, amount, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, currency)
		DO UPDATE SET amount = balances.amount + EXCLUDED.amount, updated_at = EXCLUDED.updated_at`

	if _, err := exec.ExecContext(ctx, query, userID, string(currency), amount, time.Now()); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to credit balance")
	}

	return nil
}
