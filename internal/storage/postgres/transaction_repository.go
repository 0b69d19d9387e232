package postgres

import (
	"context"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type PgTransactionRepository struct {
	db Querier
}

func NewTransactionRepository(db Querier) TransactionRepository {
	return &PgTransactionRepository{db: db}
}

func (r *PgTransactionRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	const op = "storage.CreateTransaction"

	_, err := tx.Exec(ctx, storage.CreateTransactionQuery,
		t.ID, t.UserID, t.CurrencyCode, t.Amount, string(t.Type), t.Price,
		t.Timestamp, t.FinalPLNBalance, t.FinalCurrencyBalance)
	if err != nil {
		if pgErrorCode(err) == pgNumericOverflow {
			return fmt.Errorf("%s: %w", op, custom_err.ErrInvalidAmount)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	const op = "storage.ListTransactions"

	rows, err := r.db.Query(ctx, storage.GetUserTransactionsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			t       models.Transaction
			txnType string
		)
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.CurrencyCode,
			&t.Amount,
			&txnType,
			&t.Price,
			&t.Timestamp,
			&t.FinalPLNBalance,
			&t.FinalCurrencyBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		t.Type = models.TransactionType(txnType)
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return transactions, nil
}
