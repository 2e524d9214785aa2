package entity

import "math/big"

// SubmissionStatus — фаза отправки транзакции. Сервис гарантирует только
// submitted, confirmed выставляется внешней сверкой.
type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusConfirmed SubmissionStatus = "confirmed"
)

type PurchaseResult struct {
	SaleAddress   string
	NftAddress    string
	WalletAddress string
	PriceNano     *big.Int
	Status        SubmissionStatus
}

type TransferResult struct {
	NftAddress      string
	NewOwnerAddress string
	WalletAddress   string
	QueryID         uint64
	AmountNano      *big.Int
	Status          SubmissionStatus
}

type SendResult struct {
	ToAddress     string
	WalletAddress string
	AmountNano    *big.Int
	Status        SubmissionStatus
}

// SaleData — данные контракта продажи (get_sale_data).
type SaleData struct {
	IsComplete         bool
	CreatedAt          uint64
	MarketplaceAddress string
	NftAddress         string
	OwnerAddress       string
	FullPrice          *big.Int
}

// NftData — данные NFT (get_nft_data).
type NftData struct {
	Initialized       bool
	Index             *big.Int
	CollectionAddress string
	OwnerAddress      string
}

// AccountState — состояние аккаунта в сети.
type AccountState struct {
	IsActive bool
	CodeHash []byte
}

// Transfer — исходящий перевод TON с кошелька сервиса.
type Transfer struct {
	To         string
	AmountNano *big.Int
	Bounce     bool
}

// NftTransfer — сообщение transfer (op 0x5fcc3d14) на контракт NFT.
type NftTransfer struct {
	NftAddress  string
	NewOwner    string
	QueryID     uint64
	ForwardNano *big.Int
	// ValueNano — сколько TON приложить к сообщению для оплаты газа.
	ValueNano *big.Int
}

// PurchaseTask — задача на покупку выигранного NFT, уходит в очередь.
type PurchaseTask struct {
	UserGiftID  string `json:"userGiftId"`
	UserID      string `json:"userId"`
	SaleAddress string `json:"saleAddress"`
	NftAddress  string `json:"nftAddress"`
	// PriceNano — цена листинга плюс комиссия, в нанотонах.
	PriceNano string `json:"priceNano"`
}
