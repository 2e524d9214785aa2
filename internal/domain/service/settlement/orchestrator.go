package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/logx"
	"gift_wheel/pkg/metrics"
)

type WheelStore interface {
	Load(ctx context.Context, userID string) (entity.Wheel, error)
	Consume(ctx context.Context, userID string) (entity.Wheel, error)
}

// Ledger — единственный источник правды о балансах.
type Ledger interface {
	Balance(ctx context.Context, userID string, currency entity.Currency) (decimal.Decimal, error)
	// DebitStake списывает ставку и пишет GameRecord в одной транзакции.
	// Если средств не хватает, ничего не меняет и возвращает InsufficientFunds.
	DebitStake(ctx context.Context, record entity.GameRecord) error
	Credit(ctx context.Context, userID string, currency entity.Currency, amount decimal.Decimal) error
	// BuyBack помечает подарок выданным и начисляет amount в TON.
	BuyBack(ctx context.Context, userID string, giftID uuid.UUID, amount decimal.Decimal) error
}

type GiftRepository interface {
	Create(ctx context.Context, gift *entity.UserGift) error
	Get(ctx context.Context, userID string, id uuid.UUID) (entity.UserGift, error)
}

type AcquisitionQueue interface {
	EnqueuePurchase(ctx context.Context, task entity.PurchaseTask) error
}

type Random interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() } //nolint:gosec

// PurchaseFeeNano — запас на комиссию сети при покупке, 0.3 TON.
const PurchaseFeeNano = 300_000_000

var nanoPerTON = decimal.NewFromInt(1_000_000_000) //nolint:gochecknoglobals

type Orchestrator struct {
	wheels      WheelStore
	ledger      Ledger
	gifts       GiftRepository
	queue       AcquisitionQueue
	rnd         Random
	now         func() time.Time
	consumeOnce bool
}

func NewOrchestrator(wheels WheelStore, ledger Ledger, gifts GiftRepository, queue AcquisitionQueue) *Orchestrator {
	return &Orchestrator{
		wheels:      wheels,
		ledger:      ledger,
		gifts:       gifts,
		queue:       queue,
		rnd:         globalRandom{},
		now:         time.Now,
		consumeOnce: true,
	}
}

func (o *Orchestrator) WithRandom(rnd Random) *Orchestrator {
	o.rnd = rnd
	return o
}

func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// WithConsumeOnce включает или выключает одноразовость барабана.
// При false барабан можно крутить повторно, пока не истёк TTL.
func (o *Orchestrator) WithConsumeOnce(on bool) *Orchestrator {
	o.consumeOnce = on
	return o
}

// Spin проводит один спин: загрузка барабана, проверка баланса, списание
// ставки вместе с GameRecord, выбор сектора и выдача приза.
func (o *Orchestrator) Spin(ctx context.Context, userID string) (entity.Prize, error) {
	log := logger(ctx).With(slog.String(logx.FieldUserID, userID))

	wheel, err := o.wheels.Load(ctx, userID)
	if err != nil {
		return entity.Prize{}, o.reject(ctx, "wheel_not_found", err)
	}

	if err := o.validate(ctx, wheel); err != nil {
		return entity.Prize{}, err
	}

	log.Debug("spin", slog.String(logx.FieldSpinState, StateWheelLoaded.String()))

	// ранний отказ: барабан остаётся в хранилище
	balance, err := o.ledger.Balance(ctx, userID, wheel.Stake.Currency)
	if err != nil {
		return entity.Prize{}, fmt.Errorf("ledger.Balance: %w", err)
	}

	if balance.LessThan(wheel.Stake.Amount) {
		return entity.Prize{}, o.reject(ctx, "insufficient_funds", domain.NewInsufficientFundsError(fmt.Sprintf(
			"insufficient balance: required %s %s, available %s", wheel.Stake.Amount, wheel.Stake.Currency, balance,
		)))
	}

	log.Debug("spin", slog.String(logx.FieldSpinState, StateBalanceVerified.String()))

	// между Load и Consume барабан мог быть пересобран: ставка и сектора
	// берутся только из забранного, DebitStake перепроверяет баланс
	if o.consumeOnce {
		if wheel, err = o.wheels.Consume(ctx, userID); err != nil {
			return entity.Prize{}, o.reject(ctx, "wheel_consumed", err)
		}

		if err := o.validate(ctx, wheel); err != nil {
			return entity.Prize{}, err
		}
	}

	stake := wheel.Stake

	record := entity.GameRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    stake.Amount,
		Currency:  stake.Currency,
		CreatedAt: o.now(),
	}

	if err := o.ledger.DebitStake(ctx, record); err != nil {
		return entity.Prize{}, o.reject(ctx, "debit_failed", fmt.Errorf("ledger.DebitStake: %w", err))
	}

	log.Debug("spin",
		slog.String(logx.FieldSpinState, StateStakeDebited.String()),
		slog.String("game-id", record.ID.String()),
	)

	idx := int(o.rnd.Float64() * float64(len(wheel.Slots)))
	idx = min(max(idx, 0), len(wheel.Slots)-1)
	slot := wheel.Slots[idx]

	log.Debug("spin",
		slog.String(logx.FieldSpinState, StatePrizeResolved.String()),
		slog.Int("index", idx),
		slog.String("slot", string(slot.Kind())),
	)

	// ставка уже списана и не возвращается, даже если выдача приза упала
	if err := o.award(ctx, userID, slot); err != nil {
		log.Error("prize award failed after stake debit",
			slog.String("game-id", record.ID.String()),
			logx.Error(err),
		)
		return entity.Prize{}, err
	}

	metrics.SpinsSettled.WithLabelValues(string(slot.Kind()), string(stake.Currency)).Inc()

	log.Info("spin settled",
		slog.String(logx.FieldSpinState, StateSettled.String()),
		slog.String("slot", string(slot.Kind())),
	)

	return entity.PrizeFromSlot(slot), nil
}

func (o *Orchestrator) validate(ctx context.Context, wheel entity.Wheel) error {
	if len(wheel.Slots) == 0 {
		return o.reject(ctx, "empty_wheel",
			domain.NewValidationError(errcodes.ValidationError, "wheel is empty, build a new one"))
	}

	if !wheel.Stake.Amount.IsPositive() {
		return o.reject(ctx, "invalid_stake",
			domain.NewValidationError(errcodes.InvalidAmount, "invalid game amount"))
	}

	return nil
}

func (o *Orchestrator) reject(ctx context.Context, reason string, err error) error {
	metrics.SpinsRejected.WithLabelValues(reason).Inc()

	logger(ctx).Info("spin rejected",
		slog.String(logx.FieldSpinState, StateRejected.String()),
		slog.String("reason", reason),
		logx.Error(err),
	)

	return err
}

func (o *Orchestrator) award(ctx context.Context, userID string, slot entity.WheelSlot) error {
	switch v := slot.(type) {
	case entity.NoLootSlot:
		return nil
	case entity.MoneySlot:
		return o.credit(ctx, userID, v)
	case entity.GiftSlot:
		return o.grantGift(ctx, userID, v)
	case entity.SecretSlot:
		switch inner := v.Real.(type) {
		case entity.MoneySlot:
			return o.credit(ctx, userID, inner)
		case entity.GiftSlot:
			return o.grantGift(ctx, userID, inner)
		default:
			return fmt.Errorf("secret slot holds %T", v.Real)
		}
	default:
		return fmt.Errorf("unknown slot %T", slot)
	}
}

func (o *Orchestrator) credit(ctx context.Context, userID string, m entity.MoneySlot) error {
	if err := o.ledger.Credit(ctx, userID, m.Currency, m.Amount); err != nil {
		return fmt.Errorf("ledger.Credit: %w", err)
	}

	return nil
}

// grantGift записывает подарок за пользователем и ставит покупку NFT в
// очередь. Ошибка постановки в очередь спин не роняет.
func (o *Orchestrator) grantGift(ctx context.Context, userID string, g entity.GiftSlot) error {
	gift := &entity.UserGift{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              g.Name,
		NftAddress:        g.NftAddress,
		CollectionAddress: g.Collection.Address,
		Image:             g.Image,
		Price:             g.Price,
		CreatedAt:         o.now(),
	}

	if err := o.gifts.Create(ctx, gift); err != nil {
		return fmt.Errorf("gifts.Create: %w", err)
	}

	if g.SaleAddress == "" {
		logger(ctx).Warn("gift has no sale address, purchase skipped", slog.String(logx.FieldAddress, g.NftAddress))
		return nil
	}

	task := entity.PurchaseTask{
		UserGiftID:  gift.ID.String(),
		UserID:      userID,
		SaleAddress: g.SaleAddress,
		NftAddress:  g.NftAddress,
		PriceNano:   PurchasePriceNano(g.Price).String(),
	}

	if err := o.queue.EnqueuePurchase(ctx, task); err != nil {
		logger(ctx).Error("purchase enqueue failed",
			slog.String(logx.FieldUserID, userID),
			slog.String(logx.FieldAddress, g.SaleAddress),
			logx.Error(err),
		)
	}

	return nil
}

// PurchasePriceNano — цена в нанотонах плюс 0.3 TON на комиссию.
func PurchasePriceNano(priceTON decimal.Decimal) *big.Int {
	nano := priceTON.Mul(nanoPerTON).Round(0).BigInt()
	return nano.Add(nano, big.NewInt(PurchaseFeeNano))
}

type BuyBackResult struct {
	GiftID   uuid.UUID
	GiftName string
	Amount   decimal.Decimal
}

// BuyBack выкупает выигранный подарок за 80% цены в TON.
func (o *Orchestrator) BuyBack(ctx context.Context, userID string, giftID uuid.UUID) (BuyBackResult, error) {
	gift, err := o.gifts.Get(ctx, userID, giftID)
	if err != nil {
		return BuyBackResult{}, fmt.Errorf("gifts.Get: %w", err)
	}

	if gift.IsOut {
		return BuyBackResult{}, domain.NewValidationError(errcodes.GiftAlreadyOut, "gift is already sold")
	}

	amount := gift.BuyBackAmount()

	if err := o.ledger.BuyBack(ctx, userID, giftID, amount); err != nil {
		return BuyBackResult{}, fmt.Errorf("ledger.BuyBack: %w", err)
	}

	logger(ctx).Info("gift bought back",
		slog.String(logx.FieldUserID, userID),
		slog.String("gift-id", giftID.String()),
		slog.String("amount", amount.String()),
	)

	return BuyBackResult{GiftID: gift.ID, GiftName: gift.Name, Amount: amount}, nil
}
