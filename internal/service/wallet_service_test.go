package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/models"
)

var fixedNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func setupWalletService() (*WalletService, *MockWalletRepo, *MockTransactionRepo, *MockTxManager) {
	walletRepo := new(MockWalletRepo)
	txnRepo := new(MockTransactionRepo)
	txManager := new(MockTxManager)

	service := NewWalletService(walletRepo, txnRepo, txManager, testLogger())
	service.now = func() time.Time { return fixedNow }

	return service, walletRepo, txnRepo, txManager
}

func TestWalletService_Balances(t *testing.T) {
	service, walletRepo, _, _ := setupWalletService()
	ctx := context.Background()
	userID := uuid.New()

	walletRepo.On("GetUserBalances", ctx, userID).
		Return(models.WalletBalances{"PLN": dec("590"), "USD": dec("100")}, nil)

	balances, err := service.Balances(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PLN": "590.0000", "USD": "100.0000"}, balances.ToResponse())

	empty := uuid.New()
	walletRepo.On("GetUserBalances", ctx, empty).Return(models.WalletBalances{}, nil)

	_, err = service.Balances(ctx, empty)
	assert.ErrorIs(t, err, custom_err.ErrNotFound)
}

func TestWalletService_Deposit_Success(t *testing.T) {
	service, walletRepo, txnRepo, txManager := setupWalletService()
	ctx := context.Background()
	userID := uuid.New()

	wallet := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("10")}

	txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(wallet, nil)
	walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, mock.MatchedBy(func(w *models.Wallet) bool {
		return w.Balance.Equal(dec("110.5"))
	})).Return(nil)
	txnRepo.On("CreateTx", ctx, mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionDeposit &&
			txn.CurrencyCode == "PLN" &&
			txn.Amount.Equal(dec("100.5")) &&
			!txn.Price.Valid &&
			txn.FinalPLNBalance.Equal(dec("110.5")) &&
			txn.FinalCurrencyBalance.Equal(dec("110.5")) &&
			txn.Timestamp.Equal(fixedNow)
	})).Return(nil)

	resp, err := service.Deposit(ctx, userID, decPtr("100.50009"))

	require.NoError(t, err)
	assert.Equal(t, "Successfully deposited 100.5000 PLN", resp.Message)
	assert.Equal(t, "110.5000", resp.Balance)

	walletRepo.AssertExpectations(t)
	txnRepo.AssertExpectations(t)
	txManager.AssertExpectations(t)
}

func TestWalletService_Deposit_InvalidAmount(t *testing.T) {
	service, _, _, txManager := setupWalletService()
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  *decimal.Decimal
		wantErr error
	}{
		{"missing", nil, custom_err.ErrInvalidInput},
		{"zero", decPtr("0"), custom_err.ErrInvalidAmount},
		{"negative", decPtr("-5"), custom_err.ErrInvalidAmount},
		{"truncates to zero", decPtr("0.00001"), custom_err.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Deposit(ctx, uuid.New(), tt.amount)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
}

func TestWalletService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("exact balance leaves zero", func(t *testing.T) {
		service, walletRepo, txnRepo, txManager := setupWalletService()
		userID := uuid.New()
		wallet := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("10.00")}

		txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
		walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(wallet, nil)
		walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, wallet).Return(nil)
		txnRepo.On("CreateTx", ctx, mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
			return txn.Type == models.TransactionWithdrawal && txn.FinalPLNBalance.IsZero()
		})).Return(nil)

		resp, err := service.Withdraw(ctx, userID, decPtr("10.00"))

		require.NoError(t, err)
		assert.Equal(t, "0.0000", resp.Balance)
		assert.Equal(t, "Successfully withdrew 10.0000 PLN", resp.Message)
	})

	t.Run("one basis point too much", func(t *testing.T) {
		service, walletRepo, txnRepo, txManager := setupWalletService()
		userID := uuid.New()
		wallet := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("10.00")}

		txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
		walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(wallet, nil)

		resp, err := service.Withdraw(ctx, userID, decPtr("10.0001"))

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
		walletRepo.AssertNotCalled(t, "UpdateBalanceTx", mock.Anything, mock.Anything, mock.Anything)
		txnRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no PLN wallet", func(t *testing.T) {
		service, walletRepo, _, txManager := setupWalletService()
		userID := uuid.New()

		txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
		walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(nil, custom_err.ErrNotFound)

		_, err := service.Withdraw(ctx, userID, decPtr("1"))

		assert.ErrorIs(t, err, custom_err.ErrNotFound)
	})

	t.Run("ledger failure", func(t *testing.T) {
		service, walletRepo, txnRepo, txManager := setupWalletService()
		userID := uuid.New()
		wallet := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("50")}
		dbErr := errors.New("connection reset")

		txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
		walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(wallet, nil)
		walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, wallet).Return(nil)
		txnRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).Return(dbErr)

		_, err := service.Withdraw(ctx, userID, decPtr("5"))

		assert.ErrorIs(t, err, dbErr)
	})
}
