// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import (
	"encoding/json"
	"time"
)

// MinPrice Минимальная ставка, на которую в индексе есть подарки
type MinPrice struct {
	Ton   json.Number `json:"ton"`
	Stars json.Number `json:"stars"`
}

// WheelRequest Ставка пользователя
type WheelRequest struct {
	// Amount Сумма ставки
	Amount json.Number `json:"amount" validate:"required"`

	// Type Валюта ставки: ton или stars
	Type string `json:"type" validate:"required,oneof=ton stars"`
}

// WheelSlot Сектор барабана, каким его видит игрок. У секретного сектора
// заполнен только type.
type WheelSlot struct {
	Type         string       `json:"type"`
	Name         string       `json:"name,omitempty"`
	Price        *json.Number `json:"price,omitempty"`
	Image        string       `json:"image,omitempty"`
	Amount       *json.Number `json:"amount,omitempty"`
	CurrencyType string       `json:"currencyType,omitempty"`
}

// Prize Выигрыш спина
type Prize struct {
	Type              string       `json:"type"`
	RealType          string       `json:"realType,omitempty"`
	Name              string       `json:"name"`
	Price             json.Number  `json:"price"`
	Image             string       `json:"image,omitempty"`
	Address           string       `json:"address,omitempty"`
	CollectionAddress string       `json:"collectionAddress,omitempty"`
	Amount            *json.Number `json:"amount,omitempty"`
	CurrencyType      string       `json:"currencyType,omitempty"`
}

type BuyBackRequest struct {
	GiftID string `json:"giftId" validate:"required,uuid"`
}

type BuyBackResponse struct {
	GiftID   string      `json:"giftId"`
	GiftName string      `json:"giftName"`
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currencyType"`
}

// UserGift Подарок из инвентаря пользователя
type UserGift struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	NftAddress        string      `json:"nftAddress,omitempty"`
	CollectionAddress string      `json:"collectionAddress,omitempty"`
	Image             string      `json:"image,omitempty"`
	Price             json.Number `json:"price"`
	BuyBackAmount     json.Number `json:"buyBackAmount"`
	IsOut             bool        `json:"isOut"`
	CreatedAt         time.Time   `json:"createdAt"`
}

type Balance struct {
	Ton   json.Number `json:"ton"`
	Stars json.Number `json:"stars"`
	Games []Game      `json:"games"`
}

type Game struct {
	ID           string      `json:"id"`
	Amount       json.Number `json:"amount"`
	CurrencyType string      `json:"currencyType"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Listing NFT на продаже из индекса
type Listing struct {
	Address           string      `json:"address"`
	SaleAddress       string      `json:"saleAddress"`
	Name              string      `json:"name"`
	Image             string      `json:"image,omitempty"`
	CollectionAddress string      `json:"collectionAddress"`
	CollectionName    string      `json:"collectionName,omitempty"`
	PriceTon          json.Number `json:"priceTon"`
}

type PurchaseRequest struct {
	SaleAddress string `json:"saleAddress" validate:"required"`

	// Price Цена в нанотонах, по умолчанию full_price контракта
	Price string `json:"price,omitempty" validate:"omitempty,numeric"`
}

type PurchaseResponse struct {
	SaleAddress   string `json:"saleAddress"`
	NftAddress    string `json:"nftAddress"`
	WalletAddress string `json:"walletAddress"`
	Price         string `json:"price"`
	Status        string `json:"status"`
}

type TransferRequest struct {
	NftAddress      string `json:"nftAddress" validate:"required"`
	NewOwnerAddress string `json:"newOwnerAddress" validate:"required"`
	QueryID         uint64 `json:"queryId,omitempty"`
	ForwardAmount   string `json:"forwardAmount,omitempty" validate:"omitempty,numeric"`
}

type TransferResponse struct {
	NftAddress      string `json:"nftAddress"`
	NewOwnerAddress string `json:"newOwnerAddress"`
	WalletAddress   string `json:"walletAddress"`
	QueryID         uint64 `json:"queryId"`
	Amount          string `json:"amount"`
	Status          string `json:"status"`
}

type SendTonRequest struct {
	ToAddress string `json:"toAddress" validate:"required"`

	// Amount Сумма в нанотонах
	Amount string `json:"amount" validate:"required,numeric"`
}

type SendTonResponse struct {
	ToAddress     string `json:"toAddress"`
	WalletAddress string `json:"walletAddress"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
}

type SaleVerification struct {
	SaleAddress  string `json:"saleAddress"`
	NftAddress   string `json:"nftAddress"`
	OwnerAddress string `json:"ownerAddress"`
	FullPrice    string `json:"fullPrice"`
	IsComplete   bool   `json:"isComplete"`
	Verified     bool   `json:"verified"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
