package domain

import (
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"gift_wheel/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// StatusCode сопоставляет код ошибки с HTTP-статусом.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case errcodes.NotFound, errcodes.GiftNotFound, errcodes.WheelNotFound,
		errcodes.BalanceNotFound, errcodes.ListingNotFound:
		return http.StatusNotFound
	case errcodes.ValidationError, errcodes.GiftAlreadyOut:
		return http.StatusBadRequest
	case errcodes.InsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode нужен reply.Error для тела ответа.
func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// NewValidationError формирует ошибку некорректного ввода (400).
func NewValidationError(code failure.ErrorCode, message string) error {
	return failure.NewInvalidArgumentError(message, failure.WithCode(code), failure.WithDescription(message))
}

// NewNotFoundError формирует ошибку отсутствующей сущности (404).
func NewNotFoundError(code failure.ErrorCode, message string) error {
	return failure.NewNotFoundError(message, failure.WithCode(code), failure.WithDescription(message))
}

// NewInsufficientFundsError: баланс меньше ставки. Отдаётся клиенту как 402.
func NewInsufficientFundsError(message string) error {
	return failure.NewUnprocessableEntityError(
		message,
		failure.WithCode(errcodes.InsufficientFunds),
		failure.WithDescription(message),
	)
}

// RateLimitError: узел TON отвечал 429, попытки закончились.
type RateLimitError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

func (e *RateLimitError) StatusCode() int { return http.StatusTooManyRequests }

func (e *RateLimitError) ErrorCode() failure.ErrorCode { return errcodes.RateLimited }

// AcquisitionError: прочие ошибки цепочки при покупке или переводе NFT.
type AcquisitionError struct {
	Op  string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

func (e *AcquisitionError) StatusCode() int { return http.StatusBadGateway }

func (e *AcquisitionError) ErrorCode() failure.ErrorCode { return errcodes.AcquisitionFailed }

// ContractVerificationError описывает, почему контракт продажи не прошёл проверку.
type ContractVerificationError struct {
	SaleAddress string
	Reason      string
}

func (e *ContractVerificationError) Error() string {
	return fmt.Sprintf("sale contract %s: %s", e.SaleAddress, e.Reason)
}

func (e *ContractVerificationError) StatusCode() int { return http.StatusConflict }

func (e *ContractVerificationError) ErrorCode() failure.ErrorCode {
	return errcodes.ContractVerificationFailed
}
