package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidUserID       failure.ErrorCode = "InvalidUserID"
	InvalidAddress      failure.ErrorCode = "InvalidAddress"
	InvalidAmount       failure.ErrorCode = "InvalidAmount"
	InvalidCurrency     failure.ErrorCode = "InvalidCurrency"

	// Колесо и расчёт спина
	WheelNotFound     failure.ErrorCode = "WheelNotFound"
	InsufficientFunds failure.ErrorCode = "InsufficientFunds"
	BalanceNotFound   failure.ErrorCode = "BalanceNotFound"

	// Подарки
	GiftNotFound   failure.ErrorCode = "GiftNotFound"
	GiftAlreadyOut failure.ErrorCode = "GiftAlreadyOut"
	InvalidGiftID  failure.ErrorCode = "InvalidGiftID"

	// Блокчейн и маркетплейс
	RateLimited                failure.ErrorCode = "RateLimited"
	AcquisitionFailed          failure.ErrorCode = "AcquisitionFailed"
	ContractVerificationFailed failure.ErrorCode = "ContractVerificationFailed"
	ListingNotFound            failure.ErrorCode = "ListingNotFound"
)
