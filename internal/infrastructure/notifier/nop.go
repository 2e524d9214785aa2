package notifier

import (
	"context"
	"log/slog"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/logx"
)

// Nop пишет уведомления в лог, когда бот не настроен.
type Nop struct{}

func (Nop) PurchaseSubmitted(ctx context.Context, task entity.PurchaseTask, _ entity.PurchaseResult) error {
	logger(ctx).Debug("purchase submitted", slog.String(logx.FieldAddress, task.SaleAddress))
	return nil
}

func (Nop) PurchaseFailed(ctx context.Context, task entity.PurchaseTask, err error) error {
	logger(ctx).Debug("purchase failed", slog.String(logx.FieldAddress, task.SaleAddress), logx.Error(err))
	return nil
}
