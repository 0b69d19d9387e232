package postgres

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage"
	"time"

	"github.com/jackc/pgx/v5"
)

type RateRepository interface {
	GetLatestTx(ctx context.Context, tx pgx.Tx, code string) (*models.CurrencyRate, error)
	GetRange(ctx context.Context, code string, rng models.RateRange) ([]models.CurrencyRate, error)
	GetAllLatest(ctx context.Context) ([]models.CurrencyRate, error)
	ExistsTx(ctx context.Context, tx pgx.Tx, code string) (bool, error)
	LatestDateTx(ctx context.Context, tx pgx.Tx) (time.Time, error)

	InsertTx(ctx context.Context, tx pgx.Tx, rates []models.CurrencyRate) (int64, error)
	DeleteWithoutDateTx(ctx context.Context, tx pgx.Tx, keepDate time.Time) (int64, error)
}

type PgRateRepository struct {
	db Querier
}

func NewRateRepository(db Querier) RateRepository {
	return &PgRateRepository{db: db}
}

func (r *PgRateRepository) GetLatestTx(ctx context.Context, tx pgx.Tx, code string) (*models.CurrencyRate, error) {
	const op = "storage.GetLatestRate"

	var rate models.CurrencyRate
	err := tx.QueryRow(ctx, storage.GetLatestRateQuery, code).Scan(
		&rate.Code,
		&rate.EffectiveDate,
		&rate.Bid,
		&rate.Ask,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rate, nil
}

func (r *PgRateRepository) GetRange(ctx context.Context, code string, rng models.RateRange) ([]models.CurrencyRate, error) {
	const op = "storage.GetRatesRange"

	rows, err := r.db.Query(ctx, storage.GetRatesRangeQuery, code, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rates, err := scanRates(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rates, nil
}

func (r *PgRateRepository) GetAllLatest(ctx context.Context) ([]models.CurrencyRate, error) {
	const op = "storage.GetAllLatestRates"

	rows, err := r.db.Query(ctx, storage.GetAllLatestRatesQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rates, err := scanRates(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rates, nil
}

func (r *PgRateRepository) ExistsTx(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, storage.CurrencyExistsQuery, code).Scan(&exists)
	return exists, err
}

// LatestDateTx returns the newest effective date across all codes.
func (r *PgRateRepository) LatestDateTx(ctx context.Context, tx pgx.Tx) (time.Time, error) {
	const op = "storage.LatestRateDate"

	var latest time.Time
	if err := tx.QueryRow(ctx, storage.LatestRateDateQuery).Scan(&latest); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, custom_err.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return latest, nil
}

// InsertTx returns how many rows were new. Rows already present for the
// same (code, effective_date) are left untouched.
func (r *PgRateRepository) InsertTx(ctx context.Context, tx pgx.Tx, rates []models.CurrencyRate) (int64, error) {
	const op = "storage.InsertRates"

	var inserted int64
	for _, rate := range rates {
		res, err := tx.Exec(ctx, storage.InsertRateQuery, rate.Code, rate.EffectiveDate, rate.Bid, rate.Ask)
		if err != nil {
			return 0, fmt.Errorf("%s: %s %s: %w", op, rate.Code, rate.EffectiveDate.Format(models.DateLayout), err)
		}
		inserted += res.RowsAffected()
	}
	return inserted, nil
}

func (r *PgRateRepository) DeleteWithoutDateTx(ctx context.Context, tx pgx.Tx, keepDate time.Time) (int64, error) {
	const op = "storage.DeleteRatesWithoutDate"

	res, err := tx.Exec(ctx, storage.DeleteRatesWithoutDateQuery, keepDate)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res.RowsAffected(), nil
}

func scanRates(rows pgx.Rows) ([]models.CurrencyRate, error) {
	defer rows.Close()

	rates := make([]models.CurrencyRate, 0)
	for rows.Next() {
		var rate models.CurrencyRate
		if err := rows.Scan(&rate.Code, &rate.EffectiveDate, &rate.Bid, &rate.Ask); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
