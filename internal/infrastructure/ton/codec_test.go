package ton

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xssnick/tonutils-go/address"
	tonlib "github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

func testAddr(b byte) *address.Address {
	return address.NewAddress(0, 0, bytes.Repeat([]byte{b}, 32))
}

func addrSlice(a *address.Address) *cell.Slice {
	return cell.BeginCell().MustStoreAddr(a).EndCell().BeginParse()
}

func TestTransferBody(t *testing.T) {
	rq := require.New(t)

	owner := testAddr(7)
	body := TransferBody(owner, 42, big.NewInt(1000)).BeginParse()

	op, err := body.LoadUInt(32)
	rq.NoError(err)
	rq.EqualValues(OpNftTransfer, op)

	queryID, err := body.LoadUInt(64)
	rq.NoError(err)
	rq.EqualValues(42, queryID)

	newOwner, err := body.LoadAddr()
	rq.NoError(err)
	rq.True(newOwner.Equals(owner))

	response, err := body.LoadAddr()
	rq.NoError(err)
	rq.True(response.IsAddrNone())

	hasCustom, err := body.LoadBoolBit()
	rq.NoError(err)
	rq.False(hasCustom)

	forward, err := body.LoadBigCoins()
	rq.NoError(err)
	rq.Equal(int64(1000), forward.Int64())

	inlinePayload, err := body.LoadBoolBit()
	rq.NoError(err)
	rq.False(inlinePayload)
}

func TestParseSaleData(t *testing.T) {
	marketplace, item, owner := testAddr(1), testAddr(2), testAddr(3)

	// слайсы вычитываются при разборе, поэтому стек собирается заново
	stack := func(withMagic bool) []any {
		out := []any{
			big.NewInt(0),
			big.NewInt(1700000000),
			addrSlice(marketplace),
			addrSlice(item),
			addrSlice(owner),
			big.NewInt(2_500_000_000),
		}
		if withMagic {
			out = append([]any{big.NewInt(fixPriceMagic)}, out...)
		}
		return out
	}

	testCases := []struct {
		name      string
		withMagic bool
	}{
		{name: "with magic", withMagic: true},
		{name: "without magic", withMagic: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			data, err := parseSaleData(tonlib.NewExecutionResult(stack(tc.withMagic)))
			rq.NoError(err)
			rq.False(data.IsComplete)
			rq.EqualValues(1700000000, data.CreatedAt)
			rq.Equal(rawAddress(marketplace), data.MarketplaceAddress)
			rq.Equal(rawAddress(item), data.NftAddress)
			rq.Equal(rawAddress(owner), data.OwnerAddress)
			rq.Equal("2500000000", data.FullPrice.String())
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	rq := require.New(t)

	a := testAddr(9)
	c := &Client{}

	fromFriendly, err := c.NormalizeAddress(a.String())
	rq.NoError(err)

	fromRaw, err := c.NormalizeAddress(fromFriendly)
	rq.NoError(err)

	rq.Equal(fromFriendly, fromRaw)
	rq.Equal("0:0909090909090909090909090909090909090909090909090909090909090909", fromRaw)

	_, err = c.NormalizeAddress("not-an-address")
	rq.Error(err)
}
