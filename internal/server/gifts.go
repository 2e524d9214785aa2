package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/settlement"
	"gift_wheel/internal/domain/service/wheel"
	"gift_wheel/pkg/contextx"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/httpx/reply"
	"gift_wheel/pkg/httpx/req"
	"gift_wheel/pkg/rest"
)

const (
	defaultListingPercent = 20
	maxCheapest           = 100
	inventoryPageSize     = 50
	balanceGamesLimit     = 20
)

type wheelService interface {
	BuildWheel(ctx context.Context, userID string, stake entity.Stake) (entity.Wheel, error)
	MinPrice(ctx context.Context) (wheel.MinPrice, error)
}

type spinService interface {
	Spin(ctx context.Context, userID string) (entity.Prize, error)
	BuyBack(ctx context.Context, userID string, giftID uuid.UUID) (settlement.BuyBackResult, error)
}

type listingIndex interface {
	ByPriceRange(ctx context.Context, target, percent decimal.Decimal) ([]entity.NftListing, error)
	Cheapest(ctx context.Context, n int) ([]entity.NftListing, error)
}

type giftInventory interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.UserGift, error)
}

type balanceLedger interface {
	Balances(ctx context.Context, userID string) (map[entity.Currency]decimal.Decimal, error)
	Games(ctx context.Context, userID string, limit int) ([]entity.GameRecord, error)
}

type GiftServer struct {
	wheels    wheelService
	spins     spinService
	listings  listingIndex
	inventory giftInventory
	ledger    balanceLedger
}

func NewGiftServer(
	wheels wheelService,
	spins spinService,
	listings listingIndex,
	inventory giftInventory,
	ledger balanceLedger,
) GiftServer {
	return GiftServer{
		wheels:    wheels,
		spins:     spins,
		listings:  listings,
		inventory: inventory,
		ledger:    ledger,
	}
}

func (s GiftServer) getMinPrice(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	minPrice, err := s.wheels.MinPrice(ctx)
	if err != nil {
		return fmt.Errorf("wheels.MinPrice: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTMinPrice(minPrice))

	return nil
}

func (s GiftServer) postWheel(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.WheelRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	stake, err := newDomainStake(request)
	if err != nil {
		return err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	built, err := s.wheels.BuildWheel(ctx, userID, stake)
	if err != nil {
		return fmt.Errorf("wheels.BuildWheel: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTWheel(built.Slots))

	return nil
}

func (s GiftServer) postStartGame(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	prize, err := s.spins.Spin(ctx, userID)
	if err != nil {
		return fmt.Errorf("spins.Spin: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPrize(prize))

	return nil
}

func (s GiftServer) postBuyBack(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.BuyBackRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	giftID, err := uuid.Parse(request.GiftID)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("uuid.Parse: %w", err),
			failure.WithCode(errcodes.InvalidGiftID),
		)
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	result, err := s.spins.BuyBack(ctx, userID, giftID)
	if err != nil {
		return fmt.Errorf("spins.BuyBack: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBuyBack(result))

	return nil
}

// getListings отдаёт листинги из индекса: ?cheapest=n или ?price=&percent=.
func (s GiftServer) getListings(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		listings []entity.NftListing
		err      error
	)

	if raw := query.Get("cheapest"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n <= 0 || n > maxCheapest {
			return failure.NewInvalidArgumentError(
				"cheapest must be in 1.."+strconv.Itoa(maxCheapest),
				failure.WithCode(errcodes.ValidationError),
			)
		}

		listings, err = s.listings.Cheapest(ctx, n)
		if err != nil {
			return fmt.Errorf("listings.Cheapest: %w", err)
		}
	} else {
		price, parseErr := decimal.NewFromString(query.Get("price"))
		if parseErr != nil || !price.IsPositive() {
			return failure.NewInvalidArgumentError(
				"price must be a positive number",
				failure.WithCode(errcodes.InvalidAmount),
			)
		}

		percent := decimal.NewFromInt(defaultListingPercent)
		if raw := query.Get("percent"); raw != "" {
			percent, parseErr = decimal.NewFromString(raw)
			if parseErr != nil || percent.IsNegative() {
				return failure.NewInvalidArgumentError(
					"percent must be a non-negative number",
					failure.WithCode(errcodes.ValidationError),
				)
			}
		}

		listings, err = s.listings.ByPriceRange(ctx, price, percent)
		if err != nil {
			return fmt.Errorf("listings.ByPriceRange: %w", err)
		}
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTListings(listings))

	return nil
}

func (s GiftServer) getInventory(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return failure.NewInvalidArgumentError("offset must be a non-negative integer",
				failure.WithCode(errcodes.ValidationError))
		}
	}

	gifts, err := s.inventory.ListByUser(ctx, userID, inventoryPageSize, offset)
	if err != nil {
		return fmt.Errorf("inventory.ListByUser: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTUserGifts(gifts))

	return nil
}

func (s GiftServer) getBalance(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	balances, err := s.ledger.Balances(ctx, userID)
	if err != nil {
		return fmt.Errorf("ledger.Balances: %w", err)
	}

	games, err := s.ledger.Games(ctx, userID, balanceGamesLimit)
	if err != nil {
		return fmt.Errorf("ledger.Games: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTBalance(balances, games))

	return nil
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return "", failure.NewUnauthorizedError(
			fmt.Errorf("contextx.UserIDFromContext: %w", err).Error(),
			failure.WithCode(errcodes.InvalidUserID),
		)
	}

	return userID.String(), nil
}
