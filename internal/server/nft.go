package server

import (
	"context"
	"fmt"
	"math/big"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/httpx/reply"
	"gift_wheel/pkg/httpx/req"
	"gift_wheel/pkg/rest"
)

type acquisitionPipeline interface {
	Purchase(ctx context.Context, sale string, price *big.Int) (entity.PurchaseResult, error)
	Transfer(ctx context.Context, nft, newOwner string, queryID uint64, forward *big.Int) (entity.TransferResult, error)
	SendTon(ctx context.Context, to string, amount *big.Int) (entity.SendResult, error)
	CheckSaleContract(ctx context.Context, sale string) (entity.SaleData, error)
}

type NftServer struct {
	pipeline acquisitionPipeline
}

func NewNftServer(pipeline acquisitionPipeline) NftServer {
	return NftServer{
		pipeline: pipeline,
	}
}

func (s NftServer) postPurchase(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PurchaseRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	price, err := parseNano(request.Price, "price")
	if err != nil {
		return err
	}

	result, err := s.pipeline.Purchase(ctx, request.SaleAddress, price)
	if err != nil {
		return fmt.Errorf("pipeline.Purchase: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPurchase(result))

	return nil
}

func (s NftServer) postTransfer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.TransferRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	forward, err := parseNano(request.ForwardAmount, "forwardAmount")
	if err != nil {
		return err
	}

	result, err := s.pipeline.Transfer(ctx, request.NftAddress, request.NewOwnerAddress, request.QueryID, forward)
	if err != nil {
		return fmt.Errorf("pipeline.Transfer: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTransfer(result))

	return nil
}

func (s NftServer) postSendTon(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.SendTonRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	amount, err := parseNano(request.Amount, "amount")
	if err != nil {
		return err
	}

	result, err := s.pipeline.SendTon(ctx, request.ToAddress, amount)
	if err != nil {
		return fmt.Errorf("pipeline.SendTon: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSendTon(result))

	return nil
}

// getVerify проверяет контракт продажи. Непрошедшая проверка отдаётся как 409.
func (s NftServer) getVerify(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	sale := chi.URLParam(r, "saleAddress")

	data, err := s.pipeline.CheckSaleContract(ctx, sale)
	if err != nil {
		return fmt.Errorf("pipeline.CheckSaleContract: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSaleVerification(sale, data))

	return nil
}

// parseNano разбирает сумму в нанотонах. Пустая строка — nil.
func parseNano(raw, field string) (*big.Int, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	v, ok := new(big.Int).SetString(raw, 10) //nolint:mnd
	if !ok || v.Sign() < 0 {
		return nil, failure.NewInvalidArgumentError(
			field+" must be a non-negative integer in nanotons",
			failure.WithCode(errcodes.InvalidAmount),
		)
	}

	return v, nil
}
