package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/hibiken/asynq"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/logx"
)

const (
	TypePurchaseNFT = "nft:purchase"

	QueueAcquisition       = "acquisition"
	DefaultPurchaseRetries = 3
)

type Purchaser interface {
	Purchase(ctx context.Context, sale string, price *big.Int) (entity.PurchaseResult, error)
}

// Notifier сообщает оператору об исходе покупки.
type Notifier interface {
	PurchaseSubmitted(ctx context.Context, task entity.PurchaseTask, res entity.PurchaseResult) error
	PurchaseFailed(ctx context.Context, task entity.PurchaseTask, err error) error
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PurchaseQueue ставит покупку выигранного NFT в очередь asynq.
// ID задачи совпадает с ID подарка, поэтому повторная постановка
// того же подарка не создаёт вторую покупку.
type PurchaseQueue struct {
	client TaskEnqueuer
}

func NewPurchaseQueue(client TaskEnqueuer) *PurchaseQueue {
	return &PurchaseQueue{client: client}
}

func (q *PurchaseQueue) EnqueuePurchase(ctx context.Context, task entity.PurchaseTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	info, err := q.client.EnqueueContext(ctx,
		asynq.NewTask(TypePurchaseNFT, payload),
		asynq.TaskID("purchase:"+task.UserGiftID),
		asynq.Queue(QueueAcquisition),
		asynq.MaxRetry(DefaultPurchaseRetries),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logger(ctx).Warn("purchase already enqueued", slog.String("gift-id", task.UserGiftID))
			return nil
		}
		return fmt.Errorf("asynq.EnqueueContext: %w", err)
	}

	logger(ctx).Info("purchase enqueued",
		slog.String(logx.FieldTaskID, info.ID),
		slog.String(logx.FieldAddress, task.SaleAddress),
		slog.String(logx.FieldPrice, task.PriceNano),
	)

	return nil
}

type PurchaseHandler struct {
	purchaser Purchaser
	notifier  Notifier
}

func NewPurchaseHandler(purchaser Purchaser, notifier Notifier) *PurchaseHandler {
	return &PurchaseHandler{purchaser: purchaser, notifier: notifier}
}

// Handle исполняет задачу покупки. Повтор разрешён только после
// rate limit: тогда сообщение точно не ушло в сеть. Любая другая
// ошибка отправки оставляет исход неизвестным, и задача не повторяется.
func (h *PurchaseHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var task entity.PurchaseTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	log := logger(ctx).With(
		slog.String(logx.FieldUserID, task.UserID),
		slog.String(logx.FieldAddress, task.SaleAddress),
	)
	if id, ok := asynq.GetTaskID(ctx); ok {
		log = log.With(slog.String(logx.FieldTaskID, id))
	}

	price, ok := new(big.Int).SetString(task.PriceNano, 10)
	if !ok || price.Sign() <= 0 {
		log.Error("purchase task has invalid price", slog.String(logx.FieldPrice, task.PriceNano))
		return fmt.Errorf("invalid price %q: %w", task.PriceNano, asynq.SkipRetry)
	}

	res, err := h.purchaser.Purchase(ctx, task.SaleAddress, price)
	if err != nil {
		var rateLimited *domain.RateLimitError
		if errors.As(err, &rateLimited) {
			log.Warn("purchase rate limited, will retry", logx.Error(err))
			return fmt.Errorf("purchaser.Purchase: %w", err)
		}

		log.Error("purchase failed", logx.Error(err))

		if nErr := h.notifier.PurchaseFailed(ctx, task, err); nErr != nil {
			log.Error("purchase alert failed", logx.Error(nErr))
		}

		return fmt.Errorf("purchaser.Purchase: %w: %w", err, asynq.SkipRetry)
	}

	log.Info("purchase submitted", slog.String("status", string(res.Status)))

	if err := h.notifier.PurchaseSubmitted(ctx, task, res); err != nil {
		log.Error("purchase alert failed", logx.Error(err))
	}

	return nil
}
