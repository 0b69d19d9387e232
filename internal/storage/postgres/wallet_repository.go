package postgres

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type WalletRepository interface {
	CreateWalletTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) (*models.Wallet, error)
	GetOrCreateForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) (*models.Wallet, error)
	UpdateBalanceTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error

	GetUserBalances(ctx context.Context, userID uuid.UUID) (models.WalletBalances, error)
}

type PgWalletRepository struct {
	db Querier
}

func NewWalletRepository(db Querier) WalletRepository {
	return &PgWalletRepository{db: db}
}

func (r *PgWalletRepository) CreateWalletTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	const op = "storage.CreateWallet"

	_, err := tx.Exec(ctx, storage.CreateWalletQuery, wallet.UserID, wallet.CurrencyCode, wallet.Balance)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetForUpdateTx locks the wallet row for the rest of the transaction.
func (r *PgWalletRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) (*models.Wallet, error) {
	const op = "storage.GetWalletForUpdate"

	var wallet models.Wallet
	err := tx.QueryRow(ctx, storage.GetWalletForUpdateQuery, userID, code).Scan(
		&wallet.UserID,
		&wallet.CurrencyCode,
		&wallet.Balance,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &wallet, nil
}

func (r *PgWalletRepository) GetOrCreateForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) (*models.Wallet, error) {
	const op = "storage.GetOrCreateWallet"

	if _, err := tx.Exec(ctx, storage.EnsureWalletQuery, userID, code); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.GetForUpdateTx(ctx, tx, userID, code)
}

func (r *PgWalletRepository) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	const op = "storage.UpdateBalance"

	res, err := tx.Exec(ctx, storage.UpdateWalletBalanceQuery, wallet.Balance, wallet.UserID, wallet.CurrencyCode)
	if err != nil {
		switch pgErrorCode(err) {
		case pgCheckViolation:
			return custom_err.ErrInsufficientFunds
		case pgNumericOverflow:
			return fmt.Errorf("%w: %s balance would exceed %s",
				custom_err.ErrInvalidAmount, wallet.CurrencyCode, models.FormatAmount(models.MaxAmount))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.RowsAffected() == 0 {
		return custom_err.ErrNotFound
	}
	return nil
}

func (r *PgWalletRepository) GetUserBalances(ctx context.Context, userID uuid.UUID) (models.WalletBalances, error) {
	const op = "storage.GetUserBalances"

	rows, err := r.db.Query(ctx, storage.GetUserWalletsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	balances := make(models.WalletBalances)
	for rows.Next() {
		var (
			code    string
			balance decimal.Decimal
		)
		if err := rows.Scan(&code, &balance); err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		balances[code] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return balances, nil
}
