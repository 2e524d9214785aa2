package acquisition_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/acquisition"
	"gift_wheel/pkg/retry"
)

const (
	saleAddr   = "0:sale"
	nftAddr    = "0:nft"
	walletAddr = "0:wallet"
	buyerAddr  = "0:buyer"
)

type fakeChain struct {
	sale       entity.SaleData
	nft        entity.NftData
	state      entity.AccountState
	saleErrs   []error
	saleCalls  int
	sent       []entity.Transfer
	nftSent    []entity.NftTransfer
	sendErr    error
	noWallet   bool
	nftDataErr error
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		sale: entity.SaleData{
			NftAddress:   nftAddr,
			OwnerAddress: "0:seller",
			FullPrice:    big.NewInt(2_500_000_000),
		},
		nft:   entity.NftData{Initialized: true, OwnerAddress: saleAddr},
		state: entity.AccountState{IsActive: true},
	}
}

func (f *fakeChain) NormalizeAddress(s string) (string, error) {
	if s == "" || s == "bad" {
		return "", errors.New("invalid address")
	}
	return s, nil
}

func (f *fakeChain) SaleData(context.Context, string) (entity.SaleData, error) {
	f.saleCalls++
	if len(f.saleErrs) > 0 {
		err := f.saleErrs[0]
		f.saleErrs = f.saleErrs[1:]
		return entity.SaleData{}, err
	}
	return f.sale, nil
}

func (f *fakeChain) NftData(context.Context, string) (entity.NftData, error) {
	return f.nft, f.nftDataErr
}

func (f *fakeChain) AccountState(context.Context, string) (entity.AccountState, error) {
	return f.state, nil
}

func (f *fakeChain) WalletAddress() (string, error) {
	if f.noWallet {
		return "", errors.New("no wallet")
	}
	return walletAddr, nil
}

func (f *fakeChain) Send(_ context.Context, t entity.Transfer) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, t)
	return nil
}

func (f *fakeChain) SendNftTransfer(_ context.Context, t entity.NftTransfer) error {
	f.nftSent = append(f.nftSent, t)
	return nil
}

// newPipeline подменяет ожидание, паузы копятся в sleeps.
func newPipeline(chain *fakeChain) (*acquisition.Pipeline, *[]time.Duration) {
	var sleeps []time.Duration

	p := acquisition.NewPipeline(chain).WithRetryPolicy(retry.Policy{
		MaxRetries: acquisition.DefaultMaxRetries,
		BaseDelay:  acquisition.DefaultBaseDelay,
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	})

	return p, &sleeps
}

func TestIsRateLimited(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		err  error
		want bool
	}{
		{errors.New("status 429"), true},
		{errors.New("unexpected http code: 429"), true},
		{errors.New("HTTP 429"), true},
		{errors.New("Rate limit exceeded"), true},
		{errors.New("Too Many Requests"), true},
		{errors.New("liteserver ratelimit"), true},
		{fmt.Errorf("wrapped: %w", &domain.RateLimitError{Op: "x"}), true},
		{errors.New("connection reset"), false},
		{errors.New("account 0:a429f not found"), false},
		{errors.New("exit code 4290"), false},
		{errors.New("seqno 1429 already used"), false},
		{nil, false},
	}

	for _, tc := range testCases {
		rq.Equal(tc.want, acquisition.IsRateLimited(tc.err), "%v", tc.err)
	}
}

func TestCheckSaleContract(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *fakeChain)
		wantErr bool
	}{
		{name: "valid", mutate: func(*fakeChain) {}},
		{name: "nft owned by someone else", mutate: func(c *fakeChain) { c.nft.OwnerAddress = "0:other" }, wantErr: true},
		{name: "inactive contract", mutate: func(c *fakeChain) { c.state.IsActive = false }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			chain := newFakeChain()
			tc.mutate(chain)
			p, _ := newPipeline(chain)

			data, err := p.CheckSaleContract(context.Background(), saleAddr)
			rq.Equal(nftAddr, data.NftAddress)

			if !tc.wantErr {
				rq.NoError(err)
				rq.True(p.VerifySaleContract(context.Background(), saleAddr))
				return
			}

			var cve *domain.ContractVerificationError
			rq.True(errors.As(err, &cve))
			rq.Equal(saleAddr, cve.SaleAddress)
			rq.False(p.VerifySaleContract(context.Background(), saleAddr))
		})
	}
}

func TestRetryOnRateLimit(t *testing.T) {
	rq := require.New(t)

	chain := newFakeChain()
	chain.saleErrs = []error{errors.New("429 Too Many Requests"), errors.New("rate limit")}
	p, sleeps := newPipeline(chain)

	_, err := p.CheckSaleContract(context.Background(), saleAddr)
	rq.NoError(err)
	rq.Equal(3, chain.saleCalls)
	rq.Equal([]time.Duration{2 * time.Second, 4 * time.Second}, *sleeps)
}

func TestRetryExhausted(t *testing.T) {
	rq := require.New(t)

	chain := newFakeChain()
	for range 10 {
		chain.saleErrs = append(chain.saleErrs, errors.New("status 429"))
	}
	p, sleeps := newPipeline(chain)

	_, err := p.CheckSaleContract(context.Background(), saleAddr)

	var rl *domain.RateLimitError
	rq.True(errors.As(err, &rl))
	rq.Equal(4, rl.Attempts)
	rq.Equal(4, chain.saleCalls)
	rq.Equal([]time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *sleeps)
}

func TestNonRateLimitErrorIsNotRetried(t *testing.T) {
	rq := require.New(t)

	chain := newFakeChain()
	chain.saleErrs = []error{errors.New("contract exit code 11")}
	p, sleeps := newPipeline(chain)

	_, err := p.CheckSaleContract(context.Background(), saleAddr)

	var acqErr *domain.AcquisitionError
	rq.True(errors.As(err, &acqErr))
	rq.Equal(1, chain.saleCalls)
	rq.Empty(*sleeps)
}

func TestPurchase(t *testing.T) {
	t.Run("full price from contract", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		p, _ := newPipeline(chain)

		res, err := p.Purchase(context.Background(), saleAddr, nil)
		rq.NoError(err)
		rq.Equal(entity.StatusSubmitted, res.Status)
		rq.Equal(nftAddr, res.NftAddress)
		rq.Equal(walletAddr, res.WalletAddress)
		rq.Equal("2500000000", res.PriceNano.String())

		rq.Len(chain.sent, 1)
		rq.Equal(saleAddr, chain.sent[0].To)
		rq.True(chain.sent[0].Bounce)
	})

	t.Run("explicit price, failed verification does not block", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.nft.OwnerAddress = "0:other"
		p, _ := newPipeline(chain)

		res, err := p.Purchase(context.Background(), saleAddr, big.NewInt(2_800_000_000))
		rq.NoError(err)
		rq.Equal("2800000000", res.PriceNano.String())
		rq.Equal("2800000000", chain.sent[0].AmountNano.String())
	})

	t.Run("invalid address", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		p, _ := newPipeline(chain)

		_, err := p.Purchase(context.Background(), "bad", nil)
		rq.True(failure.IsInvalidArgumentError(err))
		rq.Empty(chain.sent)
	})

	t.Run("send failure is acquisition error", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.sendErr = errors.New("external message rejected")
		p, _ := newPipeline(chain)

		_, err := p.Purchase(context.Background(), saleAddr, nil)

		var acqErr *domain.AcquisitionError
		rq.True(errors.As(err, &acqErr))
		rq.Equal("purchase", acqErr.Op)
	})

	t.Run("no wallet", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.noWallet = true
		p, _ := newPipeline(chain)

		_, err := p.Purchase(context.Background(), saleAddr, nil)

		var acqErr *domain.AcquisitionError
		rq.True(errors.As(err, &acqErr))
		rq.Equal(0, chain.saleCalls)
	})
}

func TestTransfer(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)

	t.Run("defaults", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.nft.OwnerAddress = walletAddr
		p, _ := newPipeline(chain)
		p.WithClock(func() time.Time { return now })

		res, err := p.Transfer(context.Background(), nftAddr, buyerAddr, 0, nil)
		rq.NoError(err)
		rq.EqualValues(1_700_000_000_123, res.QueryID)
		rq.Equal(entity.StatusSubmitted, res.Status)

		rq.Len(chain.nftSent, 1)
		msg := chain.nftSent[0]
		rq.Equal(nftAddr, msg.NftAddress)
		rq.Equal(buyerAddr, msg.NewOwner)
		rq.EqualValues(acquisition.DefaultTransferValueNano, msg.ValueNano.Int64())
		rq.Zero(msg.ForwardNano.Sign())
	})

	t.Run("forward amount pays the message", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.nft.OwnerAddress = walletAddr
		p, _ := newPipeline(chain)

		res, err := p.Transfer(context.Background(), nftAddr, buyerAddr, 7, big.NewInt(100_000_000))
		rq.NoError(err)
		rq.EqualValues(7, res.QueryID)
		rq.Equal("100000000", chain.nftSent[0].ValueNano.String())
	})

	t.Run("wallet is not the owner", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.nft.OwnerAddress = "0:stranger"
		p, _ := newPipeline(chain)

		_, err := p.Transfer(context.Background(), nftAddr, buyerAddr, 0, nil)
		rq.True(failure.IsForbiddenError(err))
		rq.Empty(chain.nftSent)
	})

	t.Run("ownership check failure does not block", func(t *testing.T) {
		rq := require.New(t)

		chain := newFakeChain()
		chain.nftDataErr = errors.New("liteserver timeout")
		p, _ := newPipeline(chain)

		_, err := p.Transfer(context.Background(), nftAddr, buyerAddr, 1, nil)
		rq.NoError(err)
		rq.Len(chain.nftSent, 1)
	})
}

func TestSendTon(t *testing.T) {
	rq := require.New(t)

	chain := newFakeChain()
	p, _ := newPipeline(chain)

	res, err := p.SendTon(context.Background(), buyerAddr, big.NewInt(1_000_000_000))
	rq.NoError(err)
	rq.Equal(entity.StatusSubmitted, res.Status)
	rq.Len(chain.sent, 1)
	rq.False(chain.sent[0].Bounce)

	_, err = p.SendTon(context.Background(), buyerAddr, big.NewInt(0))
	rq.True(failure.IsInvalidArgumentError(err))
	rq.Len(chain.sent, 1)
}
