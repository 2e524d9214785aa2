package server_test

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/settlement"
	"gift_wheel/internal/domain/service/wheel"
	"gift_wheel/internal/server"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/middlewarex"
	"gift_wheel/pkg/rest"
	"gift_wheel/pkg/tests"
)

type fakeWheels struct {
	built map[string]entity.Stake
	slots entity.Slots
}

func (f *fakeWheels) BuildWheel(_ context.Context, userID string, stake entity.Stake) (entity.Wheel, error) {
	f.built[userID] = stake

	if f.slots != nil {
		return entity.Wheel{Tier: entity.TierMid, Stake: stake, Slots: f.slots}, nil
	}

	return entity.Wheel{
		Tier:  entity.TierMid,
		Stake: stake,
		Slots: entity.Slots{
			entity.MoneySlot{Amount: decimal.NewFromInt(2), Currency: entity.CurrencyTON},
			entity.NoLootSlot{},
		},
	}, nil
}

func (f *fakeWheels) MinPrice(context.Context) (wheel.MinPrice, error) {
	return wheel.MinPrice{TON: decimal.RequireFromString("1.5"), Stars: decimal.NewFromInt(300)}, nil
}

type fakeSpins struct {
	prize  entity.Prize
	err    error
	giftID uuid.UUID
}

func (f *fakeSpins) Spin(context.Context, string) (entity.Prize, error) {
	return f.prize, f.err
}

func (f *fakeSpins) BuyBack(_ context.Context, _ string, giftID uuid.UUID) (settlement.BuyBackResult, error) {
	if giftID != f.giftID {
		return settlement.BuyBackResult{}, domain.NewNotFoundError(errcodes.GiftNotFound, "gift not found")
	}

	return settlement.BuyBackResult{GiftID: giftID, GiftName: "Plush Pepe", Amount: decimal.NewFromInt(8)}, nil
}

type fakeListings struct {
	listings []entity.NftListing
	target   decimal.Decimal
	percent  decimal.Decimal
}

func (f *fakeListings) ByPriceRange(_ context.Context, target, percent decimal.Decimal) ([]entity.NftListing, error) {
	f.target, f.percent = target, percent
	return f.listings, nil
}

func (f *fakeListings) Cheapest(_ context.Context, n int) ([]entity.NftListing, error) {
	if n < len(f.listings) {
		return f.listings[:n], nil
	}
	return f.listings, nil
}

type fakeInventory struct{}

func (fakeInventory) ListByUser(_ context.Context, userID string, _, _ int) ([]entity.UserGift, error) {
	return []entity.UserGift{{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Lol Pop",
		Price:  decimal.NewFromInt(5),
	}}, nil
}

type fakeLedger struct{}

func (fakeLedger) Balances(context.Context, string) (map[entity.Currency]decimal.Decimal, error) {
	return map[entity.Currency]decimal.Decimal{entity.CurrencyTON: decimal.RequireFromString("3.25")}, nil
}

func (fakeLedger) Games(_ context.Context, userID string, _ int) ([]entity.GameRecord, error) {
	return []entity.GameRecord{{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    decimal.NewFromInt(1),
		Currency:  entity.CurrencyTON,
		CreatedAt: time.Now(),
	}}, nil
}

type fakePipeline struct {
	purchasePrice *big.Int
	verifyErr     error
}

func (f *fakePipeline) Purchase(_ context.Context, sale string, price *big.Int) (entity.PurchaseResult, error) {
	f.purchasePrice = price

	if price == nil {
		price = big.NewInt(1_000_000_000)
	}

	return entity.PurchaseResult{
		SaleAddress:   sale,
		NftAddress:    "EQnft",
		WalletAddress: "UQwallet",
		PriceNano:     price,
		Status:        entity.StatusSubmitted,
	}, nil
}

func (f *fakePipeline) Transfer(
	_ context.Context, nft, newOwner string, queryID uint64, forward *big.Int,
) (entity.TransferResult, error) {
	return entity.TransferResult{
		NftAddress:      nft,
		NewOwnerAddress: newOwner,
		QueryID:         queryID,
		AmountNano:      forward,
		Status:          entity.StatusSubmitted,
	}, nil
}

func (f *fakePipeline) SendTon(_ context.Context, to string, amount *big.Int) (entity.SendResult, error) {
	return entity.SendResult{ToAddress: to, AmountNano: amount, Status: entity.StatusSubmitted}, nil
}

func (f *fakePipeline) CheckSaleContract(_ context.Context, sale string) (entity.SaleData, error) {
	if f.verifyErr != nil {
		return entity.SaleData{}, f.verifyErr
	}
	return entity.SaleData{NftAddress: "EQnft", FullPrice: big.NewInt(42)}, nil
}

type env struct {
	client   tests.APIClient
	wheels   *fakeWheels
	spins    *fakeSpins
	listings *fakeListings
	pipeline *fakePipeline
}

func newEnv(t *testing.T) env {
	t.Helper()

	e := env{
		wheels:   &fakeWheels{built: map[string]entity.Stake{}},
		spins:    &fakeSpins{giftID: uuid.New()},
		listings: &fakeListings{},
		pipeline: &fakePipeline{},
	}

	srv := server.NewServer(
		server.NewGiftServer(e.wheels, e.spins, e.listings, fakeInventory{}, fakeLedger{}),
		server.NewNftServer(e.pipeline),
	)

	r := chi.NewRouter()
	r.Use(middlewarex.TraceID)
	srv.RegisterRoutes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	e.client = tests.NewAPIClient(ts.URL, ts.Client())

	return e
}

func TestMinPrice(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t)

	var got rest.MinPrice
	resp, err := e.client.Get(context.Background(), "/gifts/min-price", nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("1.5", got.Ton.String())
	rq.Equal("300", got.Stars.String())
}

func TestBuildWheel(t *testing.T) {
	t.Run("Without user header", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.PostJSON(context.Background(), "/gifts/by-price", nil,
			`{"amount": 2, "type": "ton"}`, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusUnauthorized, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.InvalidUserID), errResp.Code)
		rq.NotEmpty(errResp.SupportID)
	})

	t.Run("Unknown currency", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.PostJSON(context.Background(), "/gifts/by-price", tests.UserHeaders("42"),
			`{"amount": 2, "type": "usd"}`, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.ValidationError), errResp.Code)
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.PostJSON(context.Background(), "/gifts/by-price", tests.UserHeaders("42"),
			`{"amount": -1, "type": "ton"}`, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.InvalidAmount), errResp.Code)
	})

	t.Run("Success", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var slots []map[string]any
		resp, err := e.client.PostJSON(context.Background(), "/gifts/by-price", tests.UserHeaders("42"),
			`{"amount": 250, "type": "stars"}`, &slots, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Len(slots, 2)
		rq.Equal("money", slots[0]["type"])

		stake := e.wheels.built["42"]
		rq.Equal(entity.CurrencyStars, stake.Currency)
		rq.True(stake.Amount.Equal(decimal.NewFromInt(250)))
	})
	t.Run("Secret slots are hidden", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)
		e.wheels.slots = entity.Slots{
			entity.SecretSlot{Real: entity.GiftSlot{
				NftAddress:  "EQnft",
				Name:        "Plush Pepe #1",
				Price:       decimal.NewFromInt(40),
				Image:       "https://img/pepe.png",
				SaleAddress: "EQsale",
			}},
			entity.SecretSlot{Real: entity.MoneySlot{
				Amount:     decimal.NewFromInt(125),
				Currency:   entity.CurrencyTON,
				Multiplier: decimal.NewFromInt(5),
				Weight:     decimal.RequireFromString("0.0132"),
			}},
			entity.GiftSlot{
				NftAddress:  "EQother",
				Name:        "Lol Pop",
				Price:       decimal.NewFromInt(3),
				Image:       "https://img/pop.png",
				SaleAddress: "EQsale2",
			},
			entity.MoneySlot{Amount: decimal.NewFromInt(2), Currency: entity.CurrencyTON, Weight: decimal.NewFromInt(1)},
		}

		var slots []map[string]any
		resp, err := e.client.PostJSON(context.Background(), "/gifts/by-price", tests.UserHeaders("42"),
			`{"amount": 25, "type": "ton"}`, &slots, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Len(slots, 4)

		rq.Equal(map[string]any{"type": "secret"}, slots[0])
		rq.Equal(map[string]any{"type": "secret"}, slots[1])

		rq.Equal("gift", slots[2]["type"])
		rq.Equal("Lol Pop", slots[2]["name"])
		rq.NotContains(slots[2], "address")
		rq.NotContains(slots[2], "ownerAddress")

		rq.Equal("money", slots[3]["type"])
		rq.Equal("ton", slots[3]["currencyType"])
		rq.NotContains(slots[3], "weight")
		rq.NotContains(slots[3], "multiplier")
	})
}

func TestStartGame(t *testing.T) {
	t.Run("Insufficient funds", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)
		e.spins.err = domain.NewInsufficientFundsError("not enough ton")

		var errResp rest.Error
		resp, err := e.client.Post(context.Background(), "/gifts/start-game", tests.UserHeaders("42"),
			struct{}{}, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusPaymentRequired, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.InsufficientFunds), errResp.Code)
	})

	t.Run("Secret money prize", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)
		e.spins.prize = entity.PrizeFromSlot(entity.SecretSlot{
			Real: entity.MoneySlot{Amount: decimal.NewFromInt(500), Currency: entity.CurrencyStars},
		})

		var prize rest.Prize
		resp, err := e.client.Post(context.Background(), "/gifts/start-game", tests.UserHeaders("42"),
			struct{}{}, &prize, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal("secret", prize.Type)
		rq.Equal("money", prize.RealType)
		rq.Equal("STARS", prize.Name)
		rq.NotNil(prize.Amount)
		rq.Equal("500", prize.Amount.String())
		rq.Equal("star", prize.CurrencyType)
	})
}

func TestBuyBack(t *testing.T) {
	t.Run("Invalid gift id", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.Post(context.Background(), "/gifts/buy-back", tests.UserHeaders("42"),
			rest.BuyBackRequest{GiftID: "not-a-uuid"}, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown gift", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.Post(context.Background(), "/gifts/buy-back", tests.UserHeaders("42"),
			rest.BuyBackRequest{GiftID: uuid.NewString()}, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusNotFound, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.GiftNotFound), errResp.Code)
	})

	t.Run("Success", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var got rest.BuyBackResponse
		resp, err := e.client.Post(context.Background(), "/gifts/buy-back", tests.UserHeaders("42"),
			rest.BuyBackRequest{GiftID: e.spins.giftID.String()}, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal(e.spins.giftID.String(), got.GiftID)
		rq.Equal("8", got.Amount.String())
		rq.Equal("ton", got.Currency)
	})
}

func TestListings(t *testing.T) {
	listings := []entity.NftListing{
		{NftAddress: "EQ1", SaleAddress: "EQs1", Name: "A", PriceTON: decimal.NewFromInt(1)},
		{NftAddress: "EQ2", SaleAddress: "EQs2", Name: "B", PriceTON: decimal.NewFromInt(2)},
	}

	t.Run("Cheapest", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)
		e.listings.listings = listings

		var got []rest.Listing
		resp, err := e.client.Get(context.Background(), "/gifts/listings?cheapest=1", nil, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Len(got, 1)
		rq.Equal("EQ1", got[0].Address)
	})

	t.Run("Price range with default percent", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)
		e.listings.listings = listings

		var got []rest.Listing
		resp, err := e.client.Get(context.Background(), "/gifts/listings?price=1.5", nil, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Len(got, 2)
		rq.True(e.listings.target.Equal(decimal.RequireFromString("1.5")))
		rq.True(e.listings.percent.Equal(decimal.NewFromInt(20)))
	})

	t.Run("Missing price", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.Get(context.Background(), "/gifts/listings", nil, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.InvalidAmount), errResp.Code)
	})
}

func TestInventoryAndBalance(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t)

	var gifts []rest.UserGift
	resp, err := e.client.Get(context.Background(), "/gifts/inventory", tests.UserHeaders("42"), &gifts, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(gifts, 1)
	rq.Equal("4", gifts[0].BuyBackAmount.String())

	var balance rest.Balance
	resp, err = e.client.Get(context.Background(), "/balance", tests.UserHeaders("42"), &balance, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("3.25", balance.Ton.String())
	rq.Equal("0", balance.Stars.String())
	rq.Len(balance.Games, 1)
}

func TestNft(t *testing.T) {
	t.Run("Purchase uses contract price when omitted", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var got rest.PurchaseResponse
		resp, err := e.client.Post(context.Background(), "/nft/purchase", nil,
			rest.PurchaseRequest{SaleAddress: "EQsale"}, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Nil(e.pipeline.purchasePrice)
		rq.Equal("1000000000", got.Price)
		rq.Equal("submitted", got.Status)
	})

	t.Run("Purchase with fractional nanotons", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var errResp rest.Error
		resp, err := e.client.Post(context.Background(), "/nft/purchase", nil,
			rest.PurchaseRequest{SaleAddress: "EQsale", Price: "1.5"}, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.InvalidAmount), errResp.Code)
	})

	t.Run("Send ton", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var got rest.SendTonResponse
		resp, err := e.client.Post(context.Background(), "/nft/send-ton", nil,
			rest.SendTonRequest{ToAddress: "UQto", Amount: "500000000"}, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal("500000000", got.Amount)
	})

	t.Run("Transfer", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var got rest.TransferResponse
		resp, err := e.client.Post(context.Background(), "/nft/transfer", nil,
			rest.TransferRequest{NftAddress: "EQnft", NewOwnerAddress: "UQowner", QueryID: 7}, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.Equal(uint64(7), got.QueryID)
		rq.Equal("0", got.Amount)
	})

	t.Run("Verify failed", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)
		e.pipeline.verifyErr = &domain.ContractVerificationError{SaleAddress: "EQsale", Reason: "not active"}

		var errResp rest.Error
		resp, err := e.client.Get(context.Background(), "/nft/verify/EQsale", nil, nil, &errResp)
		rq.NoError(err)
		rq.Equal(http.StatusConflict, resp.StatusCode)
		rq.Equal(rest.ErrorCode(errcodes.ContractVerificationFailed), errResp.Code)
	})

	t.Run("Verify ok", func(t *testing.T) {
		rq := require.New(t)
		e := newEnv(t)

		var got rest.SaleVerification
		resp, err := e.client.Get(context.Background(), "/nft/verify/EQsale", nil, &got, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.StatusCode)
		rq.True(got.Verified)
		rq.Equal("EQsale", got.SaleAddress)
		rq.Equal("42", got.FullPrice)
	})
}
