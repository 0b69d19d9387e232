package service

import (
	"context"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage/postgres"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Favorites interface {
	List(ctx context.Context, userID uuid.UUID) ([]string, error)
	Add(ctx context.Context, userID uuid.UUID, code string) error
	Remove(ctx context.Context, userID uuid.UUID, code string) error
}

type FavoriteService struct {
	favRepo   postgres.FavoriteRepository
	rateRepo  postgres.RateRepository
	txManager TxManager
	log       *slog.Logger
}

func NewFavoriteService(
	favRepo postgres.FavoriteRepository,
	rateRepo postgres.RateRepository,
	txManager TxManager,
	log *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favRepo:   favRepo,
		rateRepo:  rateRepo,
		txManager: txManager,
		log:       log,
	}
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const op = "service.ListFavorites"

	codes, err := s.favRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// Add marks code as a favorite. Only codes with at least one stored rate
// are accepted.
func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, code string) error {
	const op = "service.AddFavorite"

	code, err := models.NormalizeCurrencyCode(code)
	if err != nil {
		return err
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		exists, err := s.rateRepo.ExistsTx(ctx, tx, code)
		if err != nil {
			return fmt.Errorf("failed to check currency: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", custom_err.ErrCurrencyNotFound, code)
		}
		return s.favRepo.AddTx(ctx, tx, userID, code)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("favorite added",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("currency", code))
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, code string) error {
	const op = "service.RemoveFavorite"

	code, err := models.NormalizeCurrencyCode(code)
	if err != nil {
		return err
	}

	if err := s.favRepo.Remove(ctx, userID, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
