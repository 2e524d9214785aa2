package acquisition

import (
	"context"
	"errors"
	"log/slog"
	"math/big"
	"regexp"
	"time"

	"git.appkode.ru/pub/go/failure"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/errcodes"
	"gift_wheel/pkg/logx"
	"gift_wheel/pkg/metrics"
	"gift_wheel/pkg/retry"
)

type Blockchain interface {
	NormalizeAddress(s string) (string, error)
	SaleData(ctx context.Context, sale string) (entity.SaleData, error)
	NftData(ctx context.Context, nft string) (entity.NftData, error)
	AccountState(ctx context.Context, account string) (entity.AccountState, error)
	WalletAddress() (string, error)
	Send(ctx context.Context, t entity.Transfer) error
	SendNftTransfer(ctx context.Context, t entity.NftTransfer) error
}

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 2 * time.Second
)

const (
	opSaleData     = "get_sale_data"
	opNftData      = "get_nft_data"
	opAccountState = "account_state"
	opPurchase     = "purchase"
	opTransfer     = "transfer"
	opSendTon      = "send_ton"
)

// DefaultTransferValueNano — 0.05 TON на газ transfer, если forward не задан.
const DefaultTransferValueNano = 50_000_000

// Pipeline проверяет контракты продажи, покупает и переводит NFT.
// Все вызовы сети идут через retry с паузой base*2^attempt при rate limit.
type Pipeline struct {
	chain  Blockchain
	policy retry.Policy
	now    func() time.Time
}

func NewPipeline(chain Blockchain) *Pipeline {
	return &Pipeline{
		chain: chain,
		policy: retry.Policy{
			MaxRetries: DefaultMaxRetries,
			BaseDelay:  DefaultBaseDelay,
			Retryable:  retryableRateLimit,
		},
		now: time.Now,
	}
}

// WithRetryPolicy заменяет политику повторов. Предикат по умолчанию — IsRateLimited.
func (p *Pipeline) WithRetryPolicy(policy retry.Policy) *Pipeline {
	if policy.Retryable == nil {
		policy.Retryable = retryableRateLimit
	}
	p.policy = policy
	return p
}

func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// 429 считается только как HTTP-статус, а не как любая подстрока.
var rateLimitPattern = regexp.MustCompile( //nolint:gochecknoglobals
	`(?i)\b(?:status|code|http)(?:\s+code)?[\s:=]*429\b|\b429\s+too many requests|rate[\s_-]?limit|too many requests`,
)

// IsRateLimited распознаёт ответы о превышении лимита запросов.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		return true
	}

	return rateLimitPattern.MatchString(err.Error())
}

func retryableRateLimit(err error) bool {
	if !IsRateLimited(err) {
		return false
	}
	metrics.RateLimitRetries.Inc()
	return true
}

// call оборачивает RPC в retry и переводит ошибки в доменные типы.
func call[T any](ctx context.Context, p *Pipeline, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	res, err := retry.Do(ctx, p.policy, fn)
	if err == nil {
		metrics.AcquisitionCalls.WithLabelValues(op, "ok").Inc()
		return res, nil
	}

	var zero T

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		metrics.AcquisitionCalls.WithLabelValues(op, "rate_limited").Inc()
		return zero, &domain.RateLimitError{Op: op, Attempts: exhausted.Attempts, Err: exhausted.Err}
	}

	metrics.AcquisitionCalls.WithLabelValues(op, "error").Inc()

	return zero, &domain.AcquisitionError{Op: op, Err: err}
}

func (p *Pipeline) normalize(addr, field string) (string, error) {
	norm, err := p.chain.NormalizeAddress(addr)
	if err != nil {
		return "", domain.NewValidationError(errcodes.InvalidAddress, "invalid "+field+": "+addr)
	}
	return norm, nil
}

// CheckSaleContract проверяет контракт продажи по данным сети:
// NFT из get_sale_data должен принадлежать самому контракту, а контракт
// должен быть активен. Несоответствие — ContractVerificationError,
// сбой RPC — RateLimitError или AcquisitionError.
func (p *Pipeline) CheckSaleContract(ctx context.Context, sale string) (entity.SaleData, error) {
	sale, err := p.normalize(sale, "sale address")
	if err != nil {
		return entity.SaleData{}, err
	}

	data, err := call(ctx, p, opSaleData, func(ctx context.Context) (entity.SaleData, error) {
		return p.chain.SaleData(ctx, sale)
	})
	if err != nil {
		return entity.SaleData{}, err
	}

	if data.IsComplete {
		logger(ctx).Warn("sale contract is marked complete", slog.String(logx.FieldAddress, sale))
	}

	item, err := call(ctx, p, opNftData, func(ctx context.Context) (entity.NftData, error) {
		return p.chain.NftData(ctx, data.NftAddress)
	})
	if err != nil {
		return data, err
	}

	if item.OwnerAddress != sale {
		return data, &domain.ContractVerificationError{
			SaleAddress: sale,
			Reason:      "nft owner " + item.OwnerAddress + " is not the sale contract",
		}
	}

	state, err := call(ctx, p, opAccountState, func(ctx context.Context) (entity.AccountState, error) {
		return p.chain.AccountState(ctx, sale)
	})
	if err != nil {
		return data, err
	}

	if !state.IsActive {
		return data, &domain.ContractVerificationError{SaleAddress: sale, Reason: "sale contract is not active"}
	}

	return data, nil
}

// VerifySaleContract — рекомендательная проверка, причина отказа только логируется.
func (p *Pipeline) VerifySaleContract(ctx context.Context, sale string) bool {
	if _, err := p.CheckSaleContract(ctx, sale); err != nil {
		logger(ctx).Warn("sale contract verification failed",
			slog.String(logx.FieldAddress, sale),
			logx.Error(err),
		)
		return false
	}

	return true
}

// Purchase покупает NFT: переводит price (или full_price контракта) на
// адрес продажи с bounce=true. Подтверждение не ждём.
func (p *Pipeline) Purchase(ctx context.Context, sale string, price *big.Int) (entity.PurchaseResult, error) {
	sale, err := p.normalize(sale, "sale address")
	if err != nil {
		return entity.PurchaseResult{}, err
	}

	if price != nil && price.Sign() <= 0 {
		return entity.PurchaseResult{}, domain.NewValidationError(errcodes.InvalidAmount, "price must be positive")
	}

	walletAddr, err := p.chain.WalletAddress()
	if err != nil {
		return entity.PurchaseResult{}, &domain.AcquisitionError{Op: opPurchase, Err: err}
	}

	data, verifyErr := p.CheckSaleContract(ctx, sale)
	if verifyErr != nil {
		logger(ctx).Warn("sale contract verification failed, proceeding with purchase",
			slog.String(logx.FieldAddress, sale),
			logx.Error(verifyErr),
		)
	}

	if price == nil {
		if data.FullPrice == nil {
			data, err = call(ctx, p, opSaleData, func(ctx context.Context) (entity.SaleData, error) {
				return p.chain.SaleData(ctx, sale)
			})
			if err != nil {
				return entity.PurchaseResult{}, err
			}
		}
		price = data.FullPrice
	}

	if price == nil || price.Sign() <= 0 {
		return entity.PurchaseResult{}, &domain.AcquisitionError{Op: opPurchase, Err: errors.New("sale contract has no price")}
	}

	transfer := entity.Transfer{To: sale, AmountNano: price, Bounce: true}

	if _, err := call(ctx, p, opPurchase, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.chain.Send(ctx, transfer)
	}); err != nil {
		return entity.PurchaseResult{}, err
	}

	logger(ctx).Info("nft purchase submitted",
		slog.String(logx.FieldAddress, sale),
		slog.String("nft", data.NftAddress),
		slog.String(logx.FieldPrice, price.String()),
	)

	return entity.PurchaseResult{
		SaleAddress:   sale,
		NftAddress:    data.NftAddress,
		WalletAddress: walletAddr,
		PriceNano:     new(big.Int).Set(price),
		Status:        entity.StatusSubmitted,
	}, nil
}

// Transfer переводит NFT с кошелька сервиса на newOwner. queryID == 0 —
// текущее время в миллисекундах.
func (p *Pipeline) Transfer(
	ctx context.Context,
	nft, newOwner string,
	queryID uint64,
	forward *big.Int,
) (entity.TransferResult, error) {
	nft, err := p.normalize(nft, "nft address")
	if err != nil {
		return entity.TransferResult{}, err
	}

	newOwner, err = p.normalize(newOwner, "new owner address")
	if err != nil {
		return entity.TransferResult{}, err
	}

	if forward == nil {
		forward = new(big.Int)
	}
	if forward.Sign() < 0 {
		return entity.TransferResult{}, domain.NewValidationError(errcodes.InvalidAmount, "forward amount must not be negative")
	}

	walletAddr, err := p.chain.WalletAddress()
	if err != nil {
		return entity.TransferResult{}, &domain.AcquisitionError{Op: opTransfer, Err: err}
	}

	if queryID == 0 {
		queryID = uint64(p.now().UnixMilli()) //nolint:gosec
	}

	// владелец проверяется по возможности: сбой RPC перевод не блокирует
	item, err := call(ctx, p, opNftData, func(ctx context.Context) (entity.NftData, error) {
		return p.chain.NftData(ctx, nft)
	})
	switch {
	case err != nil:
		logger(ctx).Warn("nft ownership check failed", slog.String(logx.FieldAddress, nft), logx.Error(err))
	case item.OwnerAddress != walletAddr:
		return entity.TransferResult{}, failure.NewForbiddenError(
			"wallet is not the owner of nft "+nft,
			failure.WithCode(errcodes.Forbidden),
			failure.WithDescription("current wallet is not the owner of this NFT"),
		)
	}

	value := big.NewInt(DefaultTransferValueNano)
	if forward.Sign() > 0 {
		value = new(big.Int).Set(forward)
	}

	msg := entity.NftTransfer{
		NftAddress:  nft,
		NewOwner:    newOwner,
		QueryID:     queryID,
		ForwardNano: forward,
		ValueNano:   value,
	}

	if _, err := call(ctx, p, opTransfer, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.chain.SendNftTransfer(ctx, msg)
	}); err != nil {
		return entity.TransferResult{}, err
	}

	logger(ctx).Info("nft transfer submitted",
		slog.String(logx.FieldAddress, nft),
		slog.String("new-owner", newOwner),
		slog.Uint64("query-id", queryID),
	)

	return entity.TransferResult{
		NftAddress:      nft,
		NewOwnerAddress: newOwner,
		WalletAddress:   walletAddr,
		QueryID:         queryID,
		AmountNano:      value,
		Status:          entity.StatusSubmitted,
	}, nil
}

// SendTon — обычный перевод TON, bounce=false.
func (p *Pipeline) SendTon(ctx context.Context, to string, amount *big.Int) (entity.SendResult, error) {
	to, err := p.normalize(to, "recipient address")
	if err != nil {
		return entity.SendResult{}, err
	}

	if amount == nil || amount.Sign() <= 0 {
		return entity.SendResult{}, domain.NewValidationError(errcodes.InvalidAmount, "amount must be greater than 0")
	}

	walletAddr, err := p.chain.WalletAddress()
	if err != nil {
		return entity.SendResult{}, &domain.AcquisitionError{Op: opSendTon, Err: err}
	}

	transfer := entity.Transfer{To: to, AmountNano: amount, Bounce: false}

	if _, err := call(ctx, p, opSendTon, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.chain.Send(ctx, transfer)
	}); err != nil {
		return entity.SendResult{}, err
	}

	logger(ctx).Info("ton transfer submitted",
		slog.String(logx.FieldAddress, to),
		slog.String("amount-nano", amount.String()),
	)

	return entity.SendResult{
		ToAddress:     to,
		WalletAddress: walletAddr,
		AmountNano:    new(big.Int).Set(amount),
		Status:        entity.StatusSubmitted,
	}, nil
}
