package entity

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type SlotKind string

const (
	SlotGift   SlotKind = "gift"
	SlotMoney  SlotKind = "money"
	SlotSecret SlotKind = "secret"
	SlotNoLoot SlotKind = "no-loot"
)

// WheelSlot — один сектор барабана. Реализации: GiftSlot, MoneySlot,
// SecretSlot, NoLootSlot. Других быть не может.
type WheelSlot interface {
	Kind() SlotKind
	wheelSlot()
}

type CollectionRef struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// GiftSlot — NFT, выставленный на продажу. SaleAddress указывает на
// контракт продажи, через который NFT будет куплен.
type GiftSlot struct {
	NftAddress         string
	Name               string
	Price              decimal.Decimal // TON
	Image              string
	SaleAddress        string
	ActualOwnerAddress string
	Collection         CollectionRef
}

type MoneySlot struct {
	Amount     decimal.Decimal
	Currency   Currency
	Multiplier decimal.Decimal
	// Weight — вероятностный вес сектора в денежной лестнице.
	Weight decimal.Decimal
}

// SecretSlot скрывает подарок или деньги до вращения.
type SecretSlot struct {
	Real WheelSlot
}

type NoLootSlot struct{}

func (GiftSlot) Kind() SlotKind   { return SlotGift }
func (MoneySlot) Kind() SlotKind  { return SlotMoney }
func (SecretSlot) Kind() SlotKind { return SlotSecret }
func (NoLootSlot) Kind() SlotKind { return SlotNoLoot }

func (GiftSlot) wheelSlot()   {}
func (MoneySlot) wheelSlot()  {}
func (SecretSlot) wheelSlot() {}
func (NoLootSlot) wheelSlot() {}

// NewSecretSlot оборачивает подарок или деньги.
func NewSecretSlot(inner WheelSlot) (SecretSlot, error) {
	switch inner.(type) {
	case GiftSlot, MoneySlot:
		return SecretSlot{Real: inner}, nil
	default:
		return SecretSlot{}, fmt.Errorf("secret slot cannot hold %T", inner)
	}
}

// Slots — последовательность секторов с JSON-кодеком по полю type.
type Slots []WheelSlot

type slotDTO struct {
	Type               SlotKind         `json:"type"`
	RealType           SlotKind         `json:"realType,omitempty"`
	Address            string           `json:"address,omitempty"`
	Name               string           `json:"name,omitempty"`
	Collection         *CollectionRef   `json:"collection,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Image              string           `json:"image,omitempty"`
	OwnerAddress       string           `json:"ownerAddress,omitempty"`
	ActualOwnerAddress string           `json:"actualOwnerAddress,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	CurrencyType       string           `json:"currencyType,omitempty"`
	Multiplier         *decimal.Decimal `json:"multiplier,omitempty"`
	Weight             *decimal.Decimal `json:"weight,omitempty"`
}

func (s Slots) MarshalJSON() ([]byte, error) {
	dtos := make([]slotDTO, 0, len(s))

	for i, slot := range s {
		dto, err := toSlotDTO(slot)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		dtos = append(dtos, dto)
	}

	return json.Marshal(dtos)
}

func (s *Slots) UnmarshalJSON(data []byte) error {
	var dtos []slotDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	slots := make(Slots, 0, len(dtos))

	for i, dto := range dtos {
		slot, err := dto.toSlot()
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		slots = append(slots, slot)
	}

	*s = slots

	return nil
}

func toSlotDTO(slot WheelSlot) (slotDTO, error) {
	switch v := slot.(type) {
	case GiftSlot:
		dto := slotDTO{Type: SlotGift}
		fillGift(&dto, v)
		return dto, nil
	case MoneySlot:
		dto := slotDTO{Type: SlotMoney}
		fillMoney(&dto, v)
		return dto, nil
	case SecretSlot:
		dto := slotDTO{Type: SlotSecret}
		switch inner := v.Real.(type) {
		case GiftSlot:
			dto.RealType = SlotGift
			fillGift(&dto, inner)
		case MoneySlot:
			dto.RealType = SlotMoney
			fillMoney(&dto, inner)
		default:
			return slotDTO{}, fmt.Errorf("secret slot holds %T", v.Real)
		}
		return dto, nil
	case NoLootSlot:
		return slotDTO{Type: SlotNoLoot}, nil
	default:
		return slotDTO{}, fmt.Errorf("unknown slot %T", slot)
	}
}

func fillGift(dto *slotDTO, g GiftSlot) {
	price := g.Price
	collection := g.Collection

	dto.Address = g.NftAddress
	dto.Name = g.Name
	dto.Price = &price
	dto.Image = g.Image
	dto.OwnerAddress = g.SaleAddress
	dto.ActualOwnerAddress = g.ActualOwnerAddress
	dto.Collection = &collection
}

func fillMoney(dto *slotDTO, m MoneySlot) {
	amount, multiplier, weight := m.Amount, m.Multiplier, m.Weight

	dto.Amount = &amount
	dto.CurrencyType = m.Currency.WheelCode()
	dto.Multiplier = &multiplier
	dto.Weight = &weight
}

func (dto slotDTO) toSlot() (WheelSlot, error) {
	switch dto.Type {
	case SlotGift:
		return dto.gift(), nil
	case SlotMoney:
		return dto.money()
	case SlotSecret:
		switch dto.RealType {
		case SlotGift:
			return SecretSlot{Real: dto.gift()}, nil
		case SlotMoney:
			m, err := dto.money()
			if err != nil {
				return nil, err
			}
			return SecretSlot{Real: m}, nil
		default:
			return nil, fmt.Errorf("unknown secret real type %q", dto.RealType)
		}
	case SlotNoLoot:
		return NoLootSlot{}, nil
	default:
		return nil, fmt.Errorf("unknown slot type %q", dto.Type)
	}
}

func (dto slotDTO) gift() GiftSlot {
	g := GiftSlot{
		NftAddress:         dto.Address,
		Name:               dto.Name,
		Image:              dto.Image,
		SaleAddress:        dto.OwnerAddress,
		ActualOwnerAddress: dto.ActualOwnerAddress,
	}
	if dto.Price != nil {
		g.Price = *dto.Price
	}
	if dto.Collection != nil {
		g.Collection = *dto.Collection
	}
	return g
}

func (dto slotDTO) money() (MoneySlot, error) {
	currency, err := ParseCurrency(dto.CurrencyType)
	if err != nil {
		return MoneySlot{}, err
	}

	m := MoneySlot{Currency: currency}
	if dto.Amount != nil {
		m.Amount = *dto.Amount
	}
	if dto.Multiplier != nil {
		m.Multiplier = *dto.Multiplier
	}
	if dto.Weight != nil {
		m.Weight = *dto.Weight
	}
	return m, nil
}
