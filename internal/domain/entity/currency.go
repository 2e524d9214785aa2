package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency — валюта ставки или выплаты.
type Currency string

const (
	CurrencyTON   Currency = "ton"
	CurrencyStars Currency = "stars"
)

// ParseCurrency принимает "ton", "stars" и "star" в любом регистре.
// Пустая строка трактуется как TON.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ton":
		return CurrencyTON, nil
	case "stars", "star":
		return CurrencyStars, nil
	default:
		return "", fmt.Errorf("unknown currency %q", s)
	}
}

func (c Currency) String() string {
	return string(c)
}

// WheelCode — код валюты в формате барабана ("ton" / "star").
func (c Currency) WheelCode() string {
	if c == CurrencyStars {
		return "star"
	}
	return "ton"
}

// DisplayName — имя денежного приза для клиента.
func (c Currency) DisplayName() string {
	if c == CurrencyStars {
		return "STARS"
	}
	return "TON"
}

// Rates — цены валют в USD.
type Rates struct {
	TonUSD   decimal.Decimal
	StarsUSD decimal.Decimal
}

// TonToStars — сколько звёзд стоит один TON.
func (r Rates) TonToStars() decimal.Decimal {
	if !r.StarsUSD.IsPositive() {
		return decimal.Zero
	}
	return r.TonUSD.Div(r.StarsUSD)
}

// ToTON переводит сумму в TON с округлением до сотых.
// Если курс TON неизвестен, сумма возвращается как есть.
func (r Rates) ToTON(amount decimal.Decimal, c Currency) decimal.Decimal {
	if c == CurrencyTON {
		return amount
	}
	if !r.TonUSD.IsPositive() {
		return amount
	}
	return amount.Mul(r.StarsUSD).Div(r.TonUSD).Round(2)
}
