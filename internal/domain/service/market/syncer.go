package market

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"

	"gift_wheel/internal/domain/entity"
	"gift_wheel/pkg/logx"
	"gift_wheel/pkg/metrics"
)

type Marketplace interface {
	Listings(ctx context.Context, collection entity.Collection) ([]entity.NftListing, error)
	Collections(ctx context.Context) ([]entity.Collection, error)
}

type ContractInspector interface {
	AccountState(ctx context.Context, account string) (entity.AccountState, error)
}

type Index interface {
	Upsert(ctx context.Context, l entity.NftListing) error
	Count(ctx context.Context) (int64, error)
}

const (
	DefaultCollectionPause = 200 * time.Millisecond
	verdictCacheSize       = 4096
)

// Report — итог одного прохода синхронизации.
type Report struct {
	Collections int
	Failed      int
	Seen        int
	Saved       int
	Indexed     int64
	Duration    time.Duration
}

// Syncer переносит листинги маркетплейса в ценовой индекс. В индекс
// попадают только NFT, чей контракт продажи активен и имеет код из
// белого списка.
type Syncer struct {
	market    Marketplace
	inspector ContractInspector
	index     Index

	codeHashes map[string]struct{}
	verdicts   *lru.Cache[string, bool]
	pause      time.Duration
}

func NewSyncer(market Marketplace, inspector ContractInspector, index Index, codeHashes []string) *Syncer {
	hashes := make(map[string]struct{}, len(codeHashes))
	for _, h := range codeHashes {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hashes[h] = struct{}{}
		}
	}

	return &Syncer{
		market:     market,
		inspector:  inspector,
		index:      index,
		codeHashes: hashes,
		verdicts:   lo.Must(lru.New[string, bool](verdictCacheSize)),
		pause:      DefaultCollectionPause,
	}
}

func (s *Syncer) WithPause(d time.Duration) *Syncer {
	s.pause = d
	return s
}

// SyncAll проходит по коллекциям. Пустой список — берём коллекции у
// маркетплейса. Ошибка одной коллекции не прерывает проход.
func (s *Syncer) SyncAll(ctx context.Context, collections []entity.Collection) (Report, error) {
	started := time.Now()

	if len(collections) == 0 {
		discovered, err := s.market.Collections(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("market.Collections: %w", err)
		}
		collections = discovered
	}

	report := Report{Collections: len(collections)}

	if len(s.codeHashes) == 0 {
		logger(ctx).Warn("sale code hash allow-list is empty, no listing will be indexed")
	}

	if len(collections) == 0 {
		logger(ctx).Warn("no collections found, market sync skipped")
		return report, nil
	}

	for i, c := range collections {
		if i > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.pause):
			}
		}

		seen, saved, err := s.syncCollection(ctx, c)
		report.Seen += seen
		report.Saved += saved

		if err != nil {
			report.Failed++
			logger(ctx).Error("collection sync failed",
				slog.String(logx.FieldCollection, c.Address),
				logx.Error(err),
			)
		}
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return report, fmt.Errorf("index.Count: %w", err)
	}

	report.Indexed = count
	report.Duration = time.Since(started)

	metrics.ListingsIndexed.Set(float64(count))
	metrics.MarketSyncDuration.Observe(report.Duration.Seconds())

	logger(ctx).Info("market sync completed",
		slog.Int("collections", report.Collections),
		slog.Int("failed", report.Failed),
		slog.Int("saved", report.Saved),
		slog.Int64("indexed", report.Indexed),
		slog.Int64(logx.FieldDurationMs, report.Duration.Milliseconds()),
	)

	return report, nil
}

func (s *Syncer) syncCollection(ctx context.Context, c entity.Collection) (int, int, error) {
	listings, err := s.market.Listings(ctx, c)
	if err != nil {
		return 0, 0, fmt.Errorf("market.Listings: %w", err)
	}

	saved := 0

	for _, l := range listings {
		if l.SaleAddress == "" {
			logger(ctx).Debug("listing skipped: no sale contract", slog.String(logx.FieldAddress, l.NftAddress))
			continue
		}

		if !l.PriceTON.IsPositive() {
			logger(ctx).Debug("listing skipped: no price", slog.String(logx.FieldAddress, l.NftAddress))
			continue
		}

		if !s.trustedSale(ctx, l.SaleAddress) {
			logger(ctx).Debug("listing skipped: sale contract rejected",
				slog.String(logx.FieldAddress, l.NftAddress),
				slog.String("sale", l.SaleAddress),
			)
			continue
		}

		if err := s.index.Upsert(ctx, l); err != nil {
			logger(ctx).Error("listing upsert failed", slog.String(logx.FieldAddress, l.NftAddress), logx.Error(err))
			continue
		}

		saved++
	}

	logger(ctx).Debug("collection synced",
		slog.String(logx.FieldCollection, c.Address),
		slog.Int("seen", len(listings)),
		slog.Int("saved", saved),
	)

	return len(listings), saved, nil
}

// trustedSale проверяет контракт продажи. Кэшируется вердикт только по
// активным контрактам: их код уже не меняется.
func (s *Syncer) trustedSale(ctx context.Context, sale string) bool {
	if ok, cached := s.verdicts.Get(sale); cached {
		return ok
	}

	state, err := s.inspector.AccountState(ctx, sale)
	if err != nil {
		logger(ctx).Debug("sale contract state unavailable", slog.String("sale", sale), logx.Error(err))
		return false
	}

	ok := s.acceptCode(state)
	if state.IsActive {
		s.verdicts.Add(sale, ok)
	}

	return ok
}

// acceptCode пропускает только активные контракты из белого списка.
// Пустой список не пропускает ничего.
func (s *Syncer) acceptCode(state entity.AccountState) bool {
	if !state.IsActive {
		return false
	}

	_, ok := s.codeHashes[hex.EncodeToString(state.CodeHash)]

	return ok
}
