package wheel

import (
	"errors"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
)

var ErrNoCandidates = errors.New("no slots to compose")

// Random — источник случайности. *rand.Rand из math/rand/v2 подходит.
type Random interface {
	Float64() float64
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() } //nolint:gosec
func (globalRandom) IntN(n int) int   { return rand.IntN(n) }   //nolint:gosec

// LadderStep — фиксированная ступень денежной лестницы. Вес указан
// без учёта RTP.
type LadderStep struct {
	Currency   entity.Currency
	Multiplier decimal.Decimal
	Weight     decimal.Decimal
}

// DefaultLadder: джекпот TON 5x, джекпот Stars 3x, возврат TON и Stars 1x.
func DefaultLadder() []LadderStep {
	return []LadderStep{
		{Currency: entity.CurrencyTON, Multiplier: decimal.NewFromInt(5), Weight: decimal.RequireFromString("0.022")},
		{Currency: entity.CurrencyStars, Multiplier: decimal.NewFromInt(3), Weight: decimal.RequireFromString("0.056")},
		{Currency: entity.CurrencyTON, Multiplier: decimal.NewFromInt(1), Weight: decimal.RequireFromString("0.111")},
		{Currency: entity.CurrencyStars, Multiplier: decimal.NewFromInt(1), Weight: decimal.RequireFromString("0.111")},
	}
}

type Config struct {
	RTP decimal.Decimal
	// Ставка в TON ниже LowTierMax — низкий уровень, ниже MidTierMax — средний.
	LowTierMax decimal.Decimal
	MidTierMax decimal.Decimal

	LowTierSlots   int
	LowTierGifts   int
	NoLootShare    decimal.Decimal
	SecretSlots    int
	Ladder         []LadderStep
	VariableSlots  int
	VariableMinK   float64
	VariableSpread float64
}

func DefaultConfig() Config {
	return Config{
		RTP:            decimal.RequireFromString("0.6"),
		LowTierMax:     decimal.NewFromInt(10),
		MidTierMax:     decimal.NewFromInt(20),
		LowTierSlots:   20,
		LowTierGifts:   4,
		NoLootShare:    decimal.RequireFromString("0.6"),
		SecretSlots:    8,
		Ladder:         DefaultLadder(),
		VariableSlots:  4,
		VariableMinK:   0.1,
		VariableSpread: 0.1,
	}
}

// Composer собирает барабан по ставке. Чистая функция от входа и Random.
type Composer struct {
	cfg Config
	rnd Random
}

func NewComposer(cfg Config) *Composer {
	return &Composer{cfg: cfg, rnd: globalRandom{}}
}

func (c *Composer) WithRandom(rnd Random) *Composer {
	c.rnd = rnd
	return c
}

func (c *Composer) Config() Config {
	return c.cfg
}

// Tier выбирает тип барабана по ставке в TON.
func (c *Composer) Tier(stakeTON decimal.Decimal) entity.Tier {
	switch {
	case stakeTON.LessThan(c.cfg.LowTierMax):
		return entity.TierLow
	case stakeTON.LessThan(c.cfg.MidTierMax):
		return entity.TierMid
	default:
		return entity.TierSecret
	}
}

// Compose строит барабан. gifts — кандидаты из индекса листингов,
// для среднего уровня не используются.
func (c *Composer) Compose(stake entity.Stake, rates entity.Rates, gifts []entity.GiftSlot) (entity.Wheel, error) {
	stakeTON := rates.ToTON(stake.Amount, stake.Currency)
	tier := c.Tier(stakeTON)

	var slots entity.Slots

	switch tier {
	case entity.TierLow:
		slots = c.lowTier(gifts)
	case entity.TierMid:
		for _, m := range c.MoneyLadder(stakeTON, rates) {
			slots = append(slots, m)
		}
	case entity.TierSecret:
		slots = c.secretTier(gifts, c.MoneyLadder(stakeTON, rates))
	}

	if len(slots) == 0 {
		return entity.Wheel{}, ErrNoCandidates
	}

	return entity.Wheel{Slots: slots, Tier: tier, Stake: stake}, nil
}

// MoneyLadder строит денежную лестницу. Сумма multiplier*weight по всем
// ступеням равна RTP: у переменных ступеней multiplier = c/k, weight = k*rtp.
func (c *Composer) MoneyLadder(stakeTON decimal.Decimal, rates entity.Rates) []entity.MoneySlot {
	rtp := c.cfg.RTP
	tonToStars := rates.TonToStars()

	ladder := make([]entity.MoneySlot, 0, len(c.cfg.Ladder)+c.cfg.VariableSlots)
	used := decimal.Zero

	for _, step := range c.cfg.Ladder {
		ladder = append(ladder, c.moneySlot(stakeTON, tonToStars, step.Currency, step.Multiplier, step.Weight.Mul(rtp)))
		used = used.Add(step.Multiplier.Mul(step.Weight))
	}

	if c.cfg.VariableSlots <= 0 {
		return ladder
	}

	share := decimal.NewFromInt(1).Sub(used).Div(decimal.NewFromInt(int64(c.cfg.VariableSlots)))
	if !share.IsPositive() {
		return ladder
	}

	for i := range c.cfg.VariableSlots {
		k := decimal.NewFromFloat(c.cfg.VariableMinK + c.rnd.Float64()*c.cfg.VariableSpread)

		currency := entity.CurrencyTON
		if i%2 == 1 {
			currency = entity.CurrencyStars
		}

		ladder = append(ladder, c.moneySlot(stakeTON, tonToStars, currency, share.Div(k), k.Mul(rtp)))
	}

	return ladder
}

func (c *Composer) moneySlot(
	stakeTON, tonToStars decimal.Decimal,
	currency entity.Currency,
	multiplier, weight decimal.Decimal,
) entity.MoneySlot {
	amount := stakeTON.Mul(multiplier)
	if currency == entity.CurrencyStars {
		amount = amount.Mul(tonToStars)
	}

	return entity.MoneySlot{
		Amount:     amount.Round(2),
		Currency:   currency,
		Multiplier: multiplier,
		Weight:     weight,
	}
}

// lowTier: доля NoLootShare слотов пустые, остальные делятся между
// первыми LowTierGifts кандидатами, остаток раздаётся по кругу.
func (c *Composer) lowTier(gifts []entity.GiftSlot) entity.Slots {
	total := c.cfg.LowTierSlots
	noLoot := int(decimal.NewFromInt(int64(total)).Mul(c.cfg.NoLootShare).Round(0).IntPart())

	if len(gifts) > c.cfg.LowTierGifts {
		gifts = gifts[:c.cfg.LowTierGifts]
	}

	slots := make(entity.Slots, 0, total)

	if len(gifts) == 0 {
		for range total {
			slots = append(slots, entity.NoLootSlot{})
		}
		return slots
	}

	toDistribute := max(0, total-noLoot)
	base := toDistribute / len(gifts)
	extra := toDistribute % len(gifts)

	for _, g := range gifts {
		n := base
		if extra > 0 {
			n++
			extra--
		}
		for range n {
			slots = append(slots, g)
		}
	}

	for range noLoot {
		slots = append(slots, entity.NoLootSlot{})
	}

	return slots
}

// secretTier смешивает подарки и деньги: случайное число каждого вида,
// минимум по одному при наличии, затем общий Fisher–Yates.
func (c *Composer) secretTier(gifts []entity.GiftSlot, money []entity.MoneySlot) entity.Slots {
	total := c.cfg.SecretSlots

	minGifts := min(1, len(gifts))
	minMoney := min(1, len(money))
	maxGifts := min(len(gifts), total-minMoney)
	maxMoney := min(len(money), total-minGifts)

	giftCount := minGifts
	if maxGifts > minGifts {
		giftCount += c.rnd.IntN(maxGifts - minGifts + 1)
	}
	moneyCount := max(0, min(total-giftCount, maxMoney))

	gifts = shuffle(c.rnd, gifts)
	money = shuffle(c.rnd, money)

	combined := make([]entity.WheelSlot, 0, giftCount+moneyCount)
	for _, g := range gifts[:giftCount] {
		combined = append(combined, g)
	}
	for _, m := range money[:moneyCount] {
		combined = append(combined, m)
	}

	combined = shuffle(c.rnd, combined)

	slots := make(entity.Slots, 0, len(combined))
	for _, s := range combined {
		slots = append(slots, entity.SecretSlot{Real: s})
	}

	return slots
}

func shuffle[T any](rnd Random, in []T) []T {
	out := make([]T, len(in))
	copy(out, in)

	for i := len(out) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// LadderEV — сумма multiplier*weight по денежным секторам барабана.
func LadderEV(slots entity.Slots) decimal.Decimal {
	ev := decimal.Zero

	for _, s := range slots {
		var m entity.MoneySlot

		switch v := s.(type) {
		case entity.MoneySlot:
			m = v
		case entity.SecretSlot:
			inner, ok := v.Real.(entity.MoneySlot)
			if !ok {
				continue
			}
			m = inner
		case entity.GiftSlot, entity.NoLootSlot:
			continue
		}

		ev = ev.Add(m.Multiplier.Mul(m.Weight))
	}

	return ev
}
