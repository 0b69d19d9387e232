package postgres

import (
	"context"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
	AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) error
	Remove(ctx context.Context, userID uuid.UUID, code string) error
}

type PgFavoriteRepository struct {
	db Querier
}

func NewFavoriteRepository(db Querier) FavoriteRepository {
	return &PgFavoriteRepository{db: db}
}

func (r *PgFavoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const op = "storage.ListFavorites"

	rows, err := r.db.Query(ctx, storage.GetUserFavoritesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return codes, nil
}

func (r *PgFavoriteRepository) AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) error {
	const op = "storage.AddFavorite"

	res, err := tx.Exec(ctx, storage.AddFavoriteQuery, userID, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return custom_err.ErrAlreadyFavorite
	}
	return nil
}

func (r *PgFavoriteRepository) Remove(ctx context.Context, userID uuid.UUID, code string) error {
	const op = "storage.RemoveFavorite"

	res, err := r.db.Exec(ctx, storage.RemoveFavoriteQuery, userID, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return custom_err.ErrNotFound
	}
	return nil
}
