package entity

import "github.com/shopspring/decimal"

const NoLootName = "No loot"

// Prize — минимальное описание выигрыша для клиента.
type Prize struct {
	Type              SlotKind
	RealType          SlotKind
	Name              string
	Price             decimal.Decimal
	Image             string
	Address           string
	CollectionAddress string
	Amount            *decimal.Decimal
	Currency          Currency
}

// PrizeFromSlot строит описание выигрыша по сектору.
func PrizeFromSlot(slot WheelSlot) Prize {
	switch v := slot.(type) {
	case GiftSlot:
		return giftPrize(SlotGift, v)
	case MoneySlot:
		return moneyPrize(SlotMoney, v)
	case SecretSlot:
		var p Prize
		switch inner := v.Real.(type) {
		case GiftSlot:
			p = giftPrize(SlotSecret, inner)
			if p.Name == "" {
				p.Name = "Secret Gift"
			}
		case MoneySlot:
			p = moneyPrize(SlotSecret, inner)
		}
		if v.Real != nil {
			p.RealType = v.Real.Kind()
		}
		return p
	default:
		// no-loot отдаётся клиенту как подарок с нулевой ценой
		return Prize{Type: SlotGift, Name: NoLootName, Price: decimal.Zero}
	}
}

func giftPrize(kind SlotKind, g GiftSlot) Prize {
	return Prize{
		Type:              kind,
		Name:              g.Name,
		Price:             g.Price,
		Image:             g.Image,
		Address:           g.NftAddress,
		CollectionAddress: g.Collection.Address,
	}
}

func moneyPrize(kind SlotKind, m MoneySlot) Prize {
	amount := m.Amount

	return Prize{
		Type:     kind,
		Name:     m.Currency.DisplayName(),
		Price:    m.Amount,
		Amount:   &amount,
		Currency: m.Currency,
	}
}
