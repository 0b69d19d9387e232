package service

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage/postgres"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Wallet is the ledger side of the service layer. Deposits and withdrawals
// only touch the PLN wallet.
type Wallet interface {
	Balances(ctx context.Context, userID uuid.UUID) (models.WalletBalances, error)
	Deposit(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal) (*models.BalanceOperationResponse, error)
	Withdraw(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal) (*models.BalanceOperationResponse, error)
}

type WalletService struct {
	walletRepo postgres.WalletRepository
	txnRepo    postgres.TransactionRepository
	txManager  TxManager
	log        *slog.Logger
	now        func() time.Time
}

func NewWalletService(
	walletRepo postgres.WalletRepository,
	txnRepo postgres.TransactionRepository,
	txManager TxManager,
	log *slog.Logger,
) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		txManager:  txManager,
		log:        log,
		now:        time.Now,
	}
}

func (s *WalletService) Balances(ctx context.Context, userID uuid.UUID) (models.WalletBalances, error) {
	const op = "service.Balances"

	balances, err := s.walletRepo.GetUserBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(balances) == 0 {
		return nil, fmt.Errorf("%s: %w", op, custom_err.ErrNotFound)
	}

	return balances, nil
}

func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal) (*models.BalanceOperationResponse, error) {
	const op = "service.Deposit"

	value, err := models.RequireAmount(amount)
	if err != nil {
		return nil, err
	}

	var wallet *models.Wallet
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		wallet, err = s.walletRepo.GetOrCreateForUpdateTx(ctx, tx, userID, models.BaseCurrency)
		if err != nil {
			return fmt.Errorf("failed to get wallet: %w", err)
		}

		if err := wallet.Deposit(value); err != nil {
			return err
		}

		return s.persist(ctx, tx, wallet, value, models.TransactionDeposit)
	})
	if err != nil {
		s.log.Error("deposit failed", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deposit completed",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("amount", models.FormatAmount(value)))

	return &models.BalanceOperationResponse{
		Message:      fmt.Sprintf("Successfully deposited %s %s", models.FormatAmount(value), models.BaseCurrency),
		CurrencyCode: models.BaseCurrency,
		Balance:      models.FormatAmount(wallet.Balance),
	}, nil
}

func (s *WalletService) Withdraw(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal) (*models.BalanceOperationResponse, error) {
	const op = "service.Withdraw"

	value, err := models.RequireAmount(amount)
	if err != nil {
		return nil, err
	}

	var wallet *models.Wallet
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		wallet, err = s.walletRepo.GetForUpdateTx(ctx, tx, userID, models.BaseCurrency)
		if err != nil {
			if errors.Is(err, custom_err.ErrNotFound) {
				return fmt.Errorf("%w: no %s wallet", custom_err.ErrNotFound, models.BaseCurrency)
			}
			return fmt.Errorf("failed to get wallet: %w", err)
		}

		if err := wallet.Withdraw(value); err != nil {
			return err
		}

		return s.persist(ctx, tx, wallet, value, models.TransactionWithdrawal)
	})
	if err != nil {
		if errors.Is(err, custom_err.ErrInsufficientFunds) || errors.Is(err, custom_err.ErrNotFound) {
			s.log.Warn("withdraw rejected", slog.String("op", op), slog.String("reason", err.Error()))
		} else {
			s.log.Error("withdraw failed", slog.String("op", op), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("withdraw completed",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("amount", models.FormatAmount(value)))

	return &models.BalanceOperationResponse{
		Message:      fmt.Sprintf("Successfully withdrew %s %s", models.FormatAmount(value), models.BaseCurrency),
		CurrencyCode: models.BaseCurrency,
		Balance:      models.FormatAmount(wallet.Balance),
	}, nil
}

// persist writes the new PLN balance and the matching ledger row.
func (s *WalletService) persist(ctx context.Context, tx pgx.Tx, wallet *models.Wallet, amount decimal.Decimal, kind models.TransactionType) error {
	if err := s.walletRepo.UpdateBalanceTx(ctx, tx, wallet); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	record := &models.Transaction{
		ID:                   uuid.New(),
		UserID:               wallet.UserID,
		CurrencyCode:         wallet.CurrencyCode,
		Amount:               amount,
		Type:                 kind,
		Timestamp:            s.now().UTC(),
		FinalPLNBalance:      wallet.Balance,
		FinalCurrencyBalance: wallet.Balance,
	}
	if err := s.txnRepo.CreateTx(ctx, tx, record); err != nil {
		return fmt.Errorf("failed to record %s: %w", kind, err)
	}
	return nil
}
