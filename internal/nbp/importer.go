package nbp

import (
	"context"
	"gw-currency-trader/internal/models"
	"log/slog"
	"sync"
	"time"
)

type RateStore interface {
	Import(ctx context.Context, rates []models.CurrencyRate) (int64, error)
}

// Importer copies quotes from a RateSource into the store: a backfill once on
// Start, then the latest table on every tick.
type Importer struct {
	source       RateSource
	store        RateStore
	interval     time.Duration
	backfillDays int
	log          *slog.Logger
	now          func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewImporter(source RateSource, store RateStore, interval time.Duration, backfillDays int, log *slog.Logger) *Importer {
	return &Importer{
		source:       source,
		store:        store,
		interval:     interval,
		backfillDays: backfillDays,
		log:          log,
		now:          time.Now,
	}
}

func (i *Importer) Start(ctx context.Context) {
	ctx, i.cancel = context.WithCancel(ctx)

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				i.log.Error("rate importer panic recovered", slog.Any("panic", r))
			}
		}()

		i.backfill(ctx)

		ticker := time.NewTicker(i.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				i.log.Info("rate importer stopped")
				return
			case <-ticker.C:
				i.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce imports the latest table. Failures are logged and retried on the
// next tick.
func (i *Importer) RunOnce(ctx context.Context) {
	rates, err := i.source.FetchLatest(ctx)
	if err != nil {
		i.log.Warn("failed to fetch latest rates", slog.String("error", err.Error()))
		return
	}
	i.save(ctx, rates)
}

func (i *Importer) backfill(ctx context.Context) {
	if i.backfillDays <= 0 {
		i.RunOnce(ctx)
		return
	}

	end := models.DateOf(i.now())
	start := end.AddDate(0, 0, -i.backfillDays)

	rates, err := i.source.FetchRange(ctx, start, end)
	if err != nil {
		i.log.Warn("rate backfill failed",
			slog.String("start", start.Format(models.DateLayout)),
			slog.String("end", end.Format(models.DateLayout)),
			slog.String("error", err.Error()))
		return
	}
	i.save(ctx, rates)
}

func (i *Importer) save(ctx context.Context, rates []models.CurrencyRate) {
	if len(rates) == 0 {
		return
	}
	if _, err := i.store.Import(ctx, rates); err != nil {
		i.log.Error("failed to store rates", slog.String("error", err.Error()))
	}
}

func (i *Importer) Shutdown(ctx context.Context) error {
	if i.cancel != nil {
		i.cancel()
	}

	done := make(chan struct{})
	go func() {
		i.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
