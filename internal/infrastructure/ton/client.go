package ton

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/tlb"
	tonlib "github.com/xssnick/tonutils-go/ton"
	"github.com/xssnick/tonutils-go/ton/nft"
	"github.com/xssnick/tonutils-go/ton/wallet"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var ErrNoWallet = errors.New("ton: wallet is not configured")

const DefaultConfigURL = "https://ton.org/global.config.json"

type Config struct {
	ConfigURL string
	Mnemonic  string
}

// Client — адаптер к сети TON поверх lite-серверов.
type Client struct {
	api    tonlib.APIClientWrapped
	wallet *wallet.Wallet
}

// Connect подключается к lite-серверам из глобального конфига и
// поднимает кошелёк V4R2 из мнемоники, если она задана.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ConfigURL == "" {
		cfg.ConfigURL = DefaultConfigURL
	}

	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, cfg.ConfigURL); err != nil {
		return nil, fmt.Errorf("pool.AddConnectionsFromConfigUrl: %w", err)
	}

	api := tonlib.NewAPIClient(pool).WithRetry()

	c := &Client{api: api}

	words := strings.Fields(cfg.Mnemonic)
	if len(words) == 0 {
		logger(ctx).Warn("ton wallet mnemonic is empty, sending is disabled")
		return c, nil
	}

	w, err := wallet.FromSeed(api, words, wallet.V4R2)
	if err != nil {
		return nil, fmt.Errorf("wallet.FromSeed: %w", err)
	}
	c.wallet = w

	logger(ctx).Info("ton wallet loaded", slog.String("address", w.WalletAddress().String()))

	return c, nil
}

// NormalizeAddress приводит адрес к виду workchain:hex, принимает
// user-friendly и raw формы.
func (c *Client) NormalizeAddress(s string) (string, error) {
	a, err := parseAddress(s)
	if err != nil {
		return "", err
	}

	return rawAddress(a), nil
}

func (c *Client) SaleData(ctx context.Context, sale string) (entity.SaleData, error) {
	res, err := c.runGetMethod(ctx, sale, "get_sale_data")
	if err != nil {
		return entity.SaleData{}, err
	}

	return parseSaleData(res)
}

func (c *Client) NftData(ctx context.Context, nftAddress string) (entity.NftData, error) {
	addr, err := parseAddress(nftAddress)
	if err != nil {
		return entity.NftData{}, err
	}

	data, err := nft.NewItemClient(c.api, addr).GetNFTData(ctx)
	if err != nil {
		return entity.NftData{}, fmt.Errorf("itemClient.GetNFTData: %w", err)
	}

	return entity.NftData{
		Initialized:       data.Initialized,
		Index:             data.Index,
		CollectionAddress: rawAddress(data.CollectionAddress),
		OwnerAddress:      rawAddress(data.OwnerAddress),
	}, nil
}

func (c *Client) AccountState(ctx context.Context, account string) (entity.AccountState, error) {
	addr, err := parseAddress(account)
	if err != nil {
		return entity.AccountState{}, err
	}

	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return entity.AccountState{}, fmt.Errorf("api.CurrentMasterchainInfo: %w", err)
	}

	acc, err := c.api.GetAccount(ctx, block, addr)
	if err != nil {
		return entity.AccountState{}, fmt.Errorf("api.GetAccount: %w", err)
	}

	state := entity.AccountState{IsActive: acc.IsActive}
	if acc.Code != nil {
		state.CodeHash = acc.Code.Hash()
	}

	return state, nil
}

func (c *Client) WalletAddress() (string, error) {
	if c.wallet == nil {
		return "", ErrNoWallet
	}

	return rawAddress(c.wallet.WalletAddress()), nil
}

// Send отправляет TON без ожидания подтверждения.
func (c *Client) Send(ctx context.Context, t entity.Transfer) error {
	if c.wallet == nil {
		return ErrNoWallet
	}

	to, err := parseAddress(t.To)
	if err != nil {
		return err
	}

	msg := wallet.SimpleMessage(to, tlb.FromNanoTON(t.AmountNano), nil)
	msg.InternalMessage.Bounce = t.Bounce

	if err := c.wallet.Send(ctx, msg, false); err != nil {
		return fmt.Errorf("wallet.Send: %w", err)
	}

	return nil
}

// SendNftTransfer отправляет на контракт NFT сообщение transfer.
func (c *Client) SendNftTransfer(ctx context.Context, t entity.NftTransfer) error {
	if c.wallet == nil {
		return ErrNoWallet
	}

	item, err := parseAddress(t.NftAddress)
	if err != nil {
		return err
	}

	newOwner, err := parseAddress(t.NewOwner)
	if err != nil {
		return err
	}

	body := TransferBody(newOwner, t.QueryID, t.ForwardNano)

	if err := c.wallet.Send(ctx, wallet.SimpleMessage(item, tlb.FromNanoTON(t.ValueNano), body), false); err != nil {
		return fmt.Errorf("wallet.Send: %w", err)
	}

	return nil
}

func (c *Client) runGetMethod(ctx context.Context, account, method string) (*tonlib.ExecutionResult, error) {
	addr, err := parseAddress(account)
	if err != nil {
		return nil, err
	}

	block, err := c.api.CurrentMasterchainInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("api.CurrentMasterchainInfo: %w", err)
	}

	res, err := c.api.WaitForBlock(block.SeqNo).RunGetMethod(ctx, block, addr, method)
	if err != nil {
		return nil, fmt.Errorf("api.RunGetMethod %s: %w", method, err)
	}

	return res, nil
}

func parseAddress(s string) (*address.Address, error) {
	if strings.Contains(s, ":") {
		a, err := address.ParseRawAddr(s)
		if err != nil {
			return nil, fmt.Errorf("address.ParseRawAddr %q: %w", s, err)
		}
		return a, nil
	}

	a, err := address.ParseAddr(s)
	if err != nil {
		return nil, fmt.Errorf("address.ParseAddr %q: %w", s, err)
	}

	return a, nil
}

func rawAddress(a *address.Address) string {
	if a == nil || a.IsAddrNone() {
		return ""
	}

	return fmt.Sprintf("%d:%s", a.Workchain(), hex.EncodeToString(a.Data()))
}
