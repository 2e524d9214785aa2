package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// NftListing — NFT, выставленный на продажу через проверенный контракт.
type NftListing struct {
	NftAddress         string          `json:"address"`
	SaleAddress        string          `json:"saleAddress"`
	OwnerAddress       string          `json:"ownerAddress"`
	ActualOwnerAddress string          `json:"actualOwnerAddress"`
	Collection         CollectionRef   `json:"collection"`
	Name               string          `json:"name"`
	Image              string          `json:"image"`
	Description        string          `json:"description"`
	FullPriceNano      string          `json:"fullPrice"`
	PriceTON           decimal.Decimal `json:"priceTon"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// GiftSlot превращает листинг в сектор барабана.
func (l NftListing) GiftSlot() GiftSlot {
	return GiftSlot{
		NftAddress:         l.NftAddress,
		Name:               l.Name,
		Price:              l.PriceTON,
		Image:              l.Image,
		SaleAddress:        l.SaleAddress,
		ActualOwnerAddress: l.ActualOwnerAddress,
		Collection:         l.Collection,
	}
}

// Collection — коллекция NFT на маркетплейсе.
type Collection struct {
	Address string
	Name    string
}
