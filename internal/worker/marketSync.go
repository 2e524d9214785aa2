package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/internal/domain/service/market"
	"gift_wheel/pkg/logx"
	"gift_wheel/pkg/metrics"
)

type Syncer interface {
	SyncAll(ctx context.Context, collections []entity.Collection) (market.Report, error)
}

const DefaultSyncInterval = 10 * time.Minute

var ErrAlreadyRunning = errors.New("market sync is already running")

// MarketSync — планировщик синхронизации рынка. Первый проход сразу
// после Start (если не выключен), дальше по тикеру. Пока идёт проход,
// новые не стартуют.
type MarketSync struct {
	syncer      Syncer
	collections *Collections
	interval    time.Duration
	initialPass bool

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup

	inFlight   sync.Mutex
	lastReport market.Report
	lastRunAt  time.Time
	trigger    chan struct{}
}

func NewMarketSync(syncer Syncer, collections *Collections) *MarketSync {
	return &MarketSync{
		syncer:      syncer,
		collections: collections,
		interval:    DefaultSyncInterval,
		initialPass: true,
		trigger:     make(chan struct{}, 1),
	}
}

func (w *MarketSync) WithInterval(d time.Duration) *MarketSync {
	if d > 0 {
		w.interval = d
	}
	return w
}

// WithInitialPass включает или выключает проход сразу после старта.
// Тикер и TriggerNow работают в обоих случаях.
func (w *MarketSync) WithInitialPass(on bool) *MarketSync {
	w.initialPass = on
	return w
}

func (w *MarketSync) Collections() *Collections {
	return w.collections
}

func (w *MarketSync) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return ErrAlreadyRunning
	}

	syncCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(syncCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("market sync stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *MarketSync) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *MarketSync) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// TriggerNow просит цикл Run сделать внеочередной проход. Если запрос
// уже ждёт, второй не ставится.
func (w *MarketSync) TriggerNow() bool {
	select {
	case w.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (w *MarketSync) Run(ctx context.Context) error {
	logger(ctx).Info("market sync started", slog.Duration("interval", w.interval))

	if w.initialPass {
		w.RunOnce(ctx)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("market sync stopped")
			return ctx.Err()
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-w.trigger:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce делает один проход. Возвращает false, если проход уже идёт.
func (w *MarketSync) RunOnce(ctx context.Context) bool {
	if !w.inFlight.TryLock() {
		metrics.MarketSyncSkipped.Inc()
		logger(ctx).Warn("market sync already in progress, skipping")
		return false
	}
	defer w.inFlight.Unlock()

	report, err := w.syncer.SyncAll(ctx, w.collections.List())
	if err != nil {
		logger(ctx).Error("market sync failed", logx.Error(err))
	}

	w.mu.Lock()
	w.lastReport = report
	w.lastRunAt = time.Now()
	w.mu.Unlock()

	return true
}

// LastRun — итог последнего прохода и время его окончания.
func (w *MarketSync) LastRun() (market.Report, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastReport, w.lastRunAt
}
