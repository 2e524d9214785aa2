package worker_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"gift_wheel/internal/domain"
	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/worker"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, t *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, t)
	return &asynq.TaskInfo{ID: "task-1", Type: t.Type()}, nil
}

type fakePurchaser struct {
	err   error
	price *big.Int
	calls int
}

func (f *fakePurchaser) Purchase(_ context.Context, sale string, price *big.Int) (entity.PurchaseResult, error) {
	f.calls++
	f.price = price
	if f.err != nil {
		return entity.PurchaseResult{}, f.err
	}
	return entity.PurchaseResult{SaleAddress: sale, PriceNano: price, Status: entity.StatusSubmitted}, nil
}

type fakeNotifier struct {
	submitted int
	failed    int
}

func (f *fakeNotifier) PurchaseSubmitted(context.Context, entity.PurchaseTask, entity.PurchaseResult) error {
	f.submitted++
	return nil
}

func (f *fakeNotifier) PurchaseFailed(context.Context, entity.PurchaseTask, error) error {
	f.failed++
	return nil
}

func purchaseTask(t *testing.T, price string) *asynq.Task {
	t.Helper()

	enq := &fakeEnqueuer{}
	err := worker.NewPurchaseQueue(enq).EnqueuePurchase(context.Background(), entity.PurchaseTask{
		UserGiftID:  "g-1",
		UserID:      "42",
		SaleAddress: "EQsale",
		NftAddress:  "EQnft",
		PriceNano:   price,
	})
	require.NoError(t, err)
	require.Len(t, enq.tasks, 1)

	return enq.tasks[0]
}

func TestPurchaseQueue(t *testing.T) {
	rq := require.New(t)

	task := purchaseTask(t, "2800000000")
	rq.Equal(worker.TypePurchaseNFT, task.Type())
	rq.Contains(string(task.Payload()), `"saleAddress":"EQsale"`)

	enq := &fakeEnqueuer{err: asynq.ErrTaskIDConflict}
	rq.NoError(worker.NewPurchaseQueue(enq).EnqueuePurchase(context.Background(), entity.PurchaseTask{UserGiftID: "g-1"}))

	enq.err = errors.New("redis down")
	rq.Error(worker.NewPurchaseQueue(enq).EnqueuePurchase(context.Background(), entity.PurchaseTask{UserGiftID: "g-2"}))
}

func TestPurchaseHandler(t *testing.T) {
	t.Run("submitted", func(t *testing.T) {
		rq := require.New(t)
		p, n := &fakePurchaser{}, &fakeNotifier{}

		rq.NoError(worker.NewPurchaseHandler(p, n).Handle(context.Background(), purchaseTask(t, "2800000000")))
		rq.Equal("2800000000", p.price.String())
		rq.Equal(1, n.submitted)
	})

	t.Run("rate limited is retried", func(t *testing.T) {
		rq := require.New(t)
		p := &fakePurchaser{err: &domain.RateLimitError{Op: "purchase", Attempts: 4, Err: errors.New("429")}}
		n := &fakeNotifier{}

		err := worker.NewPurchaseHandler(p, n).Handle(context.Background(), purchaseTask(t, "1"))
		rq.Error(err)
		rq.False(errors.Is(err, asynq.SkipRetry))
		rq.Zero(n.failed)
	})

	t.Run("unknown outcome is not retried", func(t *testing.T) {
		rq := require.New(t)
		p := &fakePurchaser{err: &domain.AcquisitionError{Op: "purchase", Err: errors.New("timeout")}}
		n := &fakeNotifier{}

		err := worker.NewPurchaseHandler(p, n).Handle(context.Background(), purchaseTask(t, "1"))
		rq.ErrorIs(err, asynq.SkipRetry)
		rq.Equal(1, n.failed)
	})

	t.Run("bad price", func(t *testing.T) {
		rq := require.New(t)
		p := &fakePurchaser{}

		err := worker.NewPurchaseHandler(p, &fakeNotifier{}).Handle(context.Background(), purchaseTask(t, "abc"))
		rq.ErrorIs(err, asynq.SkipRetry)
		rq.Zero(p.calls)
	})

	t.Run("bad payload", func(t *testing.T) {
		rq := require.New(t)

		err := worker.NewPurchaseHandler(&fakePurchaser{}, &fakeNotifier{}).
			Handle(context.Background(), asynq.NewTask(worker.TypePurchaseNFT, []byte("{")))
		rq.ErrorIs(err, asynq.SkipRetry)
	})
}
