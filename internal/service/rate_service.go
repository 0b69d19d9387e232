package service

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage/postgres"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

const defaultRangeDays = 7

type Rates interface {
	Range(ctx context.Context, code, startDate, endDate string) ([]models.CurrencyRate, error)
	AllLatest(ctx context.Context) (map[string]models.CurrencyRate, error)
	Import(ctx context.Context, rates []models.CurrencyRate) (int64, error)
	DeleteOld(ctx context.Context, keepDate *time.Time) (int64, time.Time, error)
}

type allLatestCache struct {
	rates     map[string]models.CurrencyRate
	timestamp time.Time
}

type RateService struct {
	repo      postgres.RateRepository
	txManager TxManager
	log       *slog.Logger

	cacheMutex      sync.RWMutex
	cache           *allLatestCache
	cacheGen        uint64
	cacheExpiration time.Duration

	retentionDate *time.Time
	now           func() time.Time
}

// NewRateService builds the rate store. retentionDate pins the reference day
// used by DeleteOld when the caller passes none; nil means the newest stored date.
func NewRateService(
	repo postgres.RateRepository,
	txManager TxManager,
	cacheExpiration time.Duration,
	retentionDate *time.Time,
	log *slog.Logger,
) *RateService {
	return &RateService{
		repo:            repo,
		txManager:       txManager,
		cacheExpiration: cacheExpiration,
		retentionDate:   retentionDate,
		log:             log,
		now:             time.Now,
	}
}

// LatestTx reads the newest quote of code inside the caller's transaction.
func (s *RateService) LatestTx(ctx context.Context, tx pgx.Tx, code string) (*models.CurrencyRate, error) {
	const op = "service.LatestRate"

	code, err := models.NormalizeCurrencyCode(code)
	if err != nil {
		return nil, err
	}

	rate, err := s.repo.GetLatestTx(ctx, tx, code)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w: %s", op, custom_err.ErrCurrencyNotFound, code)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rate, nil
}

// Range returns the quotes of code in ascending date order. Without any bound
// it covers the trailing week; an inverted range is empty.
func (s *RateService) Range(ctx context.Context, code, startDate, endDate string) ([]models.CurrencyRate, error) {
	const op = "service.RateRange"

	code, err := models.NormalizeCurrencyCode(code)
	if err != nil {
		return nil, err
	}

	var rng models.RateRange
	if startDate != "" {
		start, err := models.ParseDate(startDate)
		if err != nil {
			return nil, err
		}
		rng.Start = &start
	}
	if endDate != "" {
		end, err := models.ParseDate(endDate)
		if err != nil {
			return nil, err
		}
		rng.End = &end
	}

	if rng.Start == nil && rng.End == nil {
		end := models.DateOf(s.now())
		start := end.AddDate(0, 0, -defaultRangeDays)
		rng.Start, rng.End = &start, &end
	}

	if rng.Start != nil && rng.End != nil && rng.Start.After(*rng.End) {
		return []models.CurrencyRate{}, nil
	}

	rates, err := s.repo.GetRange(ctx, code, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rates, nil
}

func (s *RateService) AllLatest(ctx context.Context) (map[string]models.CurrencyRate, error) {
	const op = "service.AllLatestRates"

	s.cacheMutex.RLock()
	if s.cache != nil && s.now().Sub(s.cache.timestamp) < s.cacheExpiration {
		rates := make(map[string]models.CurrencyRate, len(s.cache.rates))
		for k, v := range s.cache.rates {
			rates[k] = v
		}
		s.cacheMutex.RUnlock()
		return rates, nil
	}
	gen := s.cacheGen
	s.cacheMutex.RUnlock()

	list, err := s.repo.GetAllLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rates := make(map[string]models.CurrencyRate, len(list))
	for _, rate := range list {
		rates[rate.Code] = rate
	}

	s.cacheMutex.Lock()
	// an import or delete that landed during the read makes this snapshot stale
	if s.cacheGen == gen {
		cached := make(map[string]models.CurrencyRate, len(rates))
		for k, v := range rates {
			cached[k] = v
		}
		s.cache = &allLatestCache{rates: cached, timestamp: s.now()}
	}
	s.cacheMutex.Unlock()

	return rates, nil
}

func (s *RateService) Import(ctx context.Context, rates []models.CurrencyRate) (int64, error) {
	const op = "service.ImportRates"

	if len(rates) == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		inserted, err = s.repo.InsertTx(ctx, tx, rates)
		return err
	})
	if err != nil {
		s.log.Error("failed to import rates", slog.String("op", op), slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if inserted > 0 {
		s.invalidate()
	}

	s.log.Info("rates imported",
		slog.String("op", op),
		slog.Int("received", len(rates)),
		slog.Int64("inserted", inserted))

	return inserted, nil
}

// DeleteOld removes every code that has no quote on keepDate. Without an
// explicit or configured day it keeps the codes quoted on the newest stored
// date, so a run on a day without a fixing does not empty the table.
func (s *RateService) DeleteOld(ctx context.Context, keepDate *time.Time) (int64, time.Time, error) {
	const op = "service.DeleteOldRates"

	var keep time.Time
	switch {
	case keepDate != nil:
		keep = models.DateOf(*keepDate)
	case s.retentionDate != nil:
		keep = models.DateOf(*s.retentionDate)
	}

	var deleted int64
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		if keep.IsZero() {
			latest, err := s.repo.LatestDateTx(ctx, tx)
			if err != nil {
				if errors.Is(err, custom_err.ErrNotFound) {
					keep = models.DateOf(s.now())
					return nil
				}
				return err
			}
			keep = models.DateOf(latest)
		}

		var err error
		deleted, err = s.repo.DeleteWithoutDateTx(ctx, tx, keep)
		return err
	})
	if err != nil {
		s.log.Error("failed to delete old rates", slog.String("op", op), slog.String("error", err.Error()))
		return 0, keep, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()

	s.log.Info("old rates deleted",
		slog.String("op", op),
		slog.String("keep_date", keep.Format(models.DateLayout)),
		slog.Int64("deleted", deleted))

	return deleted, keep, nil
}

func (s *RateService) invalidate() {
	s.cacheMutex.Lock()
	s.cache = nil
	s.cacheGen++
	s.cacheMutex.Unlock()
}
