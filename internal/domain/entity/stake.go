package entity

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNonPositiveStake = errors.New("stake amount must be positive")

// Stake — ставка пользователя.
type Stake struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currencyType"`
}

func NewStake(amount decimal.Decimal, currency Currency) (Stake, error) {
	if !amount.IsPositive() {
		return Stake{}, ErrNonPositiveStake
	}
	return Stake{Amount: amount, Currency: currency}, nil
}
