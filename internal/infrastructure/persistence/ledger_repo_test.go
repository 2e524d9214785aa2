package persistence_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/infrastructure/persistence"
	"gift_wheel/pkg/dbtest"
	"gift_wheel/pkg/errcodes"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_init.sql"))

	return db
}

func TestLedgerRepository(t *testing.T) {
	db := openDB(t)
	ledger := persistence.NewLedgerRepository(db)
	gifts := persistence.NewUserGiftRepository(db)
	ctx := context.Background()

	userID := "test-" + uuid.NewString()

	t.Run("empty balance is zero", func(t *testing.T) {
		rq := require.New(t)

		b, err := ledger.Balance(ctx, userID, entity.CurrencyTON)
		rq.NoError(err)
		rq.True(b.IsZero())
	})

	t.Run("debit without funds changes nothing", func(t *testing.T) {
		rq := require.New(t)

		err := ledger.DebitStake(ctx, entity.GameRecord{
			ID: uuid.New(), UserID: userID, Amount: decimal.NewFromInt(1), Currency: entity.CurrencyTON,
		})
		rq.True(failure.HasCode(err, errcodes.InsufficientFunds))

		games, err := ledger.Games(ctx, userID, 10)
		rq.NoError(err)
		rq.Empty(games)
	})

	t.Run("credit then debit writes a game", func(t *testing.T) {
		rq := require.New(t)

		rq.NoError(ledger.Credit(ctx, userID, entity.CurrencyTON, decimal.RequireFromString("5.5")))
		rq.NoError(ledger.DebitStake(ctx, entity.GameRecord{
			ID: uuid.New(), UserID: userID, Amount: decimal.NewFromInt(2), Currency: entity.CurrencyTON,
			CreatedAt: time.Now(),
		}))

		b, err := ledger.Balance(ctx, userID, entity.CurrencyTON)
		rq.NoError(err)
		rq.True(b.Equal(decimal.RequireFromString("3.5")))

		games, err := ledger.Games(ctx, userID, 10)
		rq.NoError(err)
		rq.Len(games, 1)
	})

	t.Run("concurrent debits never overdraw", func(t *testing.T) {
		rq := require.New(t)

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = ledger.DebitStake(ctx, entity.GameRecord{
					ID: uuid.New(), UserID: userID, Amount: decimal.NewFromInt(1), Currency: entity.CurrencyTON,
				})
			}()
		}
		wg.Wait()

		b, err := ledger.Balance(ctx, userID, entity.CurrencyTON)
		rq.NoError(err)
		rq.True(b.Equal(decimal.RequireFromString("0.5")))

		games, err := ledger.Games(ctx, userID, 10)
		rq.NoError(err)
		rq.Len(games, 4)
	})

	t.Run("buy back once", func(t *testing.T) {
		rq := require.New(t)

		gift := &entity.UserGift{
			UserID: userID, Name: "Plush Pepe", NftAddress: "0:aa", Price: decimal.NewFromInt(2),
		}
		rq.NoError(gifts.Create(ctx, gift))

		rq.NoError(ledger.BuyBack(ctx, userID, gift.ID, decimal.RequireFromString("1.6")))

		got, err := gifts.Get(ctx, userID, gift.ID)
		rq.NoError(err)
		rq.True(got.IsOut)

		err = ledger.BuyBack(ctx, userID, gift.ID, decimal.RequireFromString("1.6"))
		rq.True(failure.IsInvalidArgumentError(err))

		err = ledger.BuyBack(ctx, userID, uuid.New(), decimal.RequireFromString("1.6"))
		rq.True(failure.IsNotFoundError(err))

		b, err := ledger.Balance(ctx, userID, entity.CurrencyTON)
		rq.NoError(err)
		rq.True(b.Equal(decimal.RequireFromString("2.1")))
	})

	t.Run("foreign gift is not found", func(t *testing.T) {
		rq := require.New(t)

		gift := &entity.UserGift{UserID: userID, Name: "Cap", NftAddress: "0:bb", Price: decimal.NewFromInt(1)}
		rq.NoError(gifts.Create(ctx, gift))

		_, err := gifts.Get(ctx, "someone-else", gift.ID)
		rq.True(failure.IsNotFoundError(err))

		list, err := gifts.ListByUser(ctx, userID, 10, 0)
		rq.NoError(err)
		rq.Len(list, 2)
	})
}
