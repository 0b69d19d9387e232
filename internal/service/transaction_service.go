package service

import (
	"context"
	"fmt"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage/postgres"
	"log/slog"

	"github.com/google/uuid"
)

type Transactions interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type TransactionService struct {
	repo postgres.TransactionRepository
	log  *slog.Logger
}

func NewTransactionService(repo postgres.TransactionRepository, log *slog.Logger) *TransactionService {
	return &TransactionService{repo: repo, log: log}
}

// List returns the full history of userID in insertion order.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	const op = "service.ListTransactions"

	txns, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list transactions", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	return txns, nil
}
