package ton

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	tonlib "github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"gift_wheel/internal/domain/entity"
)

const (
	// OpNftTransfer — op-код transfer из стандарта NFT (TEP-62).
	OpNftTransfer = 0x5fcc3d14
	// fixPriceMagic — "FIXP", первое значение get_sale_data у fix-price
	// контрактов getgems v3 и новее.
	fixPriceMagic = 0x46495850
)

// TransferBody собирает тело transfer: op, query_id, new_owner,
// response_destination=none, custom_payload=none, forward_amount,
// forward_payload=none.
func TransferBody(newOwner *address.Address, queryID uint64, forward *big.Int) *cell.Cell {
	if forward == nil {
		forward = big.NewInt(0)
	}

	return cell.BeginCell().
		MustStoreUInt(OpNftTransfer, 32).
		MustStoreUInt(queryID, 64).
		MustStoreAddr(newOwner).
		MustStoreAddr(nil).
		MustStoreBoolBit(false).
		MustStoreBigCoins(forward).
		MustStoreBoolBit(false).
		EndCell()
}

// parseSaleData разбирает стек get_sale_data. Контракты с магией FIXP
// отдают (magic, is_complete, created_at, marketplace, nft, owner, full_price, ...),
// старые — то же самое без магии.
func parseSaleData(res *tonlib.ExecutionResult) (entity.SaleData, error) {
	var offset uint

	first, err := res.Int(0)
	if err != nil {
		return entity.SaleData{}, fmt.Errorf("get_sale_data[0]: %w", err)
	}
	if first.Cmp(big.NewInt(fixPriceMagic)) == 0 {
		offset = 1
	}

	isComplete, err := res.Int(offset)
	if err != nil {
		return entity.SaleData{}, fmt.Errorf("get_sale_data is_complete: %w", err)
	}

	createdAt, err := res.Int(offset + 1)
	if err != nil {
		return entity.SaleData{}, fmt.Errorf("get_sale_data created_at: %w", err)
	}

	var addrs [3]string
	for i := range addrs {
		s, err := res.Slice(offset + 2 + uint(i))
		if err != nil {
			return entity.SaleData{}, fmt.Errorf("get_sale_data address %d: %w", i, err)
		}

		a, err := s.LoadAddr()
		if err != nil {
			return entity.SaleData{}, fmt.Errorf("get_sale_data address %d: %w", i, err)
		}
		addrs[i] = rawAddress(a)
	}

	fullPrice, err := res.Int(offset + 5)
	if err != nil {
		return entity.SaleData{}, fmt.Errorf("get_sale_data full_price: %w", err)
	}

	return entity.SaleData{
		IsComplete:         isComplete.Sign() != 0,
		CreatedAt:          createdAt.Uint64(),
		MarketplaceAddress: addrs[0],
		NftAddress:         addrs[1],
		OwnerAddress:       addrs[2],
		FullPrice:          fullPrice,
	}, nil
}
