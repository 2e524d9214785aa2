package server

import (
	"encoding/json"
	"math/big"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/settlement"
	"gift_wheel/internal/domain/service/wheel"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/rest"
)

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func nanoString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func newDomainStake(request rest.WheelRequest) (entity.Stake, error) {
	currency, err := entity.ParseCurrency(request.Type)
	if err != nil {
		return entity.Stake{}, failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidCurrency))
	}

	amount, err := decimal.NewFromString(request.Amount.String())
	if err != nil {
		return entity.Stake{}, failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidAmount))
	}

	stake, err := entity.NewStake(amount, currency)
	if err != nil {
		return entity.Stake{}, failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(errcodes.InvalidAmount))
	}

	return stake, nil
}

func newRESTMinPrice(p wheel.MinPrice) rest.MinPrice {
	return rest.MinPrice{
		Ton:   number(p.TON),
		Stars: number(p.Stars),
	}
}

func newRESTWheel(slots entity.Slots) []rest.WheelSlot {
	return lo.Map(slots, func(slot entity.WheelSlot, _ int) rest.WheelSlot {
		return newRESTWheelSlot(slot)
	})
}

func newRESTWheelSlot(slot entity.WheelSlot) rest.WheelSlot {
	out := rest.WheelSlot{Type: string(slot.Kind())}

	switch v := slot.(type) {
	case entity.GiftSlot:
		out.Name = v.Name
		out.Price = lo.ToPtr(number(v.Price))
		out.Image = v.Image
	case entity.MoneySlot:
		out.Amount = lo.ToPtr(number(v.Amount))
		out.CurrencyType = v.Currency.WheelCode()
	}

	return out
}

func newRESTPrize(p entity.Prize) rest.Prize {
	prize := rest.Prize{
		Type:              string(p.Type),
		RealType:          string(p.RealType),
		Name:              p.Name,
		Price:             number(p.Price),
		Image:             p.Image,
		Address:           p.Address,
		CollectionAddress: p.CollectionAddress,
	}

	if p.Amount != nil {
		prize.Amount = lo.ToPtr(number(*p.Amount))
		prize.CurrencyType = p.Currency.WheelCode()
	}

	return prize
}

func newRESTBuyBack(r settlement.BuyBackResult) rest.BuyBackResponse {
	return rest.BuyBackResponse{
		GiftID:   r.GiftID.String(),
		GiftName: r.GiftName,
		Amount:   number(r.Amount),
		Currency: entity.CurrencyTON.String(),
	}
}

func newRESTListings(listings []entity.NftListing) []rest.Listing {
	return lo.Map(listings, func(l entity.NftListing, _ int) rest.Listing {
		return rest.Listing{
			Address:           l.NftAddress,
			SaleAddress:       l.SaleAddress,
			Name:              l.Name,
			Image:             l.Image,
			CollectionAddress: l.Collection.Address,
			CollectionName:    l.Collection.Name,
			PriceTon:          number(l.PriceTON),
		}
	})
}

func newRESTUserGifts(gifts []entity.UserGift) []rest.UserGift {
	return lo.Map(gifts, func(g entity.UserGift, _ int) rest.UserGift {
		return rest.UserGift{
			ID:                g.ID.String(),
			Name:              g.Name,
			NftAddress:        g.NftAddress,
			CollectionAddress: g.CollectionAddress,
			Image:             g.Image,
			Price:             number(g.Price),
			BuyBackAmount:     number(g.BuyBackAmount()),
			IsOut:             g.IsOut,
			CreatedAt:         g.CreatedAt,
		}
	})
}

func newRESTBalance(balances map[entity.Currency]decimal.Decimal, games []entity.GameRecord) rest.Balance {
	return rest.Balance{
		Ton:   number(balances[entity.CurrencyTON]),
		Stars: number(balances[entity.CurrencyStars]),
		Games: lo.Map(games, func(g entity.GameRecord, _ int) rest.Game {
			return rest.Game{
				ID:           g.ID.String(),
				Amount:       number(g.Amount),
				CurrencyType: g.Currency.String(),
				CreatedAt:    g.CreatedAt,
			}
		}),
	}
}

func newRESTPurchase(r entity.PurchaseResult) rest.PurchaseResponse {
	return rest.PurchaseResponse{
		SaleAddress:   r.SaleAddress,
		NftAddress:    r.NftAddress,
		WalletAddress: r.WalletAddress,
		Price:         nanoString(r.PriceNano),
		Status:        string(r.Status),
	}
}

func newRESTTransfer(r entity.TransferResult) rest.TransferResponse {
	return rest.TransferResponse{
		NftAddress:      r.NftAddress,
		NewOwnerAddress: r.NewOwnerAddress,
		WalletAddress:   r.WalletAddress,
		QueryID:         r.QueryID,
		Amount:          nanoString(r.AmountNano),
		Status:          string(r.Status),
	}
}

func newRESTSendTon(r entity.SendResult) rest.SendTonResponse {
	return rest.SendTonResponse{
		ToAddress:     r.ToAddress,
		WalletAddress: r.WalletAddress,
		Amount:        nanoString(r.AmountNano),
		Status:        string(r.Status),
	}
}

func newRESTSaleVerification(sale string, d entity.SaleData) rest.SaleVerification {
	return rest.SaleVerification{
		SaleAddress:  sale,
		NftAddress:   d.NftAddress,
		OwnerAddress: d.OwnerAddress,
		FullPrice:    nanoString(d.FullPrice),
		IsComplete:   d.IsComplete,
		Verified:     true,
	}
}
