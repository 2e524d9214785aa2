package getgems

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
)

const nanoExp = -9

// Listing переводит элемент маркетплейса в листинг индекса. Цена
// считается из fullPrice в нанотонах. Пустой SaleAddress означает,
// что контракта продажи нет.
func (n NftOnSale) Listing(collectionName string, now time.Time) entity.NftListing {
	l := entity.NftListing{
		NftAddress:         n.Address,
		OwnerAddress:       n.OwnerAddress,
		ActualOwnerAddress: n.ActualOwnerAddress,
		Collection:         entity.CollectionRef{Address: n.CollectionAddress, Name: collectionName},
		Name:               n.Name,
		Image:              n.Image,
		Description:        n.Description,
		FullPriceNano:      "0",
		PriceTON:           decimal.Zero,
		UpdatedAt:          now,
	}

	if n.Sale == nil {
		return l
	}

	l.SaleAddress = n.Sale.ContractAddress

	if nano, err := decimal.NewFromString(n.Sale.FullPrice); err == nil {
		l.FullPriceNano = n.Sale.FullPrice
		l.PriceTON = nano.Shift(nanoExp)
	}

	return l
}

func (c Collection) Entity() entity.Collection {
	return entity.Collection{Address: c.Address, Name: c.Name}
}

// Listings — листинги коллекции в терминах индекса.
func (c *Client) Listings(ctx context.Context, collection entity.Collection) ([]entity.NftListing, error) {
	items, err := c.NftsOnSale(ctx, collection.Address)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listings := make([]entity.NftListing, 0, len(items))
	for _, item := range items {
		listings = append(listings, item.Listing(collection.Name, now))
	}

	return listings, nil
}

// Collections — коллекции подарков, известные маркетплейсу.
func (c *Client) Collections(ctx context.Context) ([]entity.Collection, error) {
	items, err := c.GiftCollections(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]entity.Collection, 0, len(items))
	for _, item := range items {
		out = append(out, item.Entity())
	}

	return out, nil
}
