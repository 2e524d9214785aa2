package wheelstore

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/infrastructure/kv"
	"gift_wheel/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const DefaultTTL = 10 * time.Minute

type stakeRecord struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyType string          `json:"currencyType"`
	Tier         entity.Tier     `json:"tier,omitempty"`
}

// Store хранит последний собранный барабан пользователя и его ставку.
type Store struct {
	kv  kv.Store
	ttl time.Duration
}

func New(store kv.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Store{kv: store, ttl: ttl}
}

func slotsKey(userID string) string  { return "wheel:" + userID }
func amountKey(userID string) string { return "wheel:amount:" + userID }

// Save перезаписывает барабан пользователя, TTL отсчитывается заново.
func (s *Store) Save(ctx context.Context, userID string, wheel entity.Wheel) error {
	slots, err := json.Marshal(wheel.Slots)
	if err != nil {
		return fmt.Errorf("json.Marshal slots: %w", err)
	}

	stake, err := json.Marshal(stakeRecord{
		Amount:       wheel.Stake.Amount,
		CurrencyType: wheel.Stake.Currency.WheelCode(),
		Tier:         wheel.Tier,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal stake: %w", err)
	}

	values := map[string]string{
		slotsKey(userID):  string(slots),
		amountKey(userID): string(stake),
	}

	if err := s.kv.SetMany(ctx, values, s.ttl); err != nil {
		return fmt.Errorf("kv.SetMany: %w", err)
	}

	return nil
}

// Load читает барабан, не удаляя его.
func (s *Store) Load(ctx context.Context, userID string) (entity.Wheel, error) {
	values, err := s.kv.GetMany(ctx, slotsKey(userID), amountKey(userID))
	if err != nil {
		return entity.Wheel{}, fmt.Errorf("kv.GetMany: %w", err)
	}

	return s.fromValues(userID, values)
}

// Consume атомарно забирает барабан вместе со ставкой: второй вызов вернёт NotFound.
func (s *Store) Consume(ctx context.Context, userID string) (entity.Wheel, error) {
	values, err := s.kv.GetDelMany(ctx, slotsKey(userID), amountKey(userID))
	if err != nil {
		return entity.Wheel{}, fmt.Errorf("kv.GetDelMany: %w", err)
	}

	return s.fromValues(userID, values)
}

func (s *Store) fromValues(userID string, values map[string]string) (entity.Wheel, error) {
	slots, ok := values[slotsKey(userID)]
	if !ok {
		return entity.Wheel{}, wheelNotFound(userID)
	}

	stake, ok := values[amountKey(userID)]
	if !ok {
		return entity.Wheel{}, wheelNotFound(userID)
	}

	return decode(slots, stake)
}

func decode(rawSlots, rawStake string) (entity.Wheel, error) {
	var wheel entity.Wheel

	if err := json.Unmarshal([]byte(rawSlots), &wheel.Slots); err != nil {
		return entity.Wheel{}, fmt.Errorf("json.Unmarshal slots: %w", err)
	}

	var rec stakeRecord
	if err := json.Unmarshal([]byte(rawStake), &rec); err != nil {
		return entity.Wheel{}, fmt.Errorf("json.Unmarshal stake: %w", err)
	}

	currency, err := entity.ParseCurrency(rec.CurrencyType)
	if err != nil {
		return entity.Wheel{}, fmt.Errorf("entity.ParseCurrency: %w", err)
	}

	wheel.Stake = entity.Stake{Amount: rec.Amount, Currency: currency}
	wheel.Tier = rec.Tier

	return wheel, nil
}

func wheelNotFound(userID string) error {
	return domain.NewNotFoundError(errcodes.WheelNotFound, "wheel not found for user "+userID)
}
