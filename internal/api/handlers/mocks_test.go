package handlers

import (
	"context"
	"gw-currency-trader/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAuth struct{ mock.Mock }

func (m *MockAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageResponse), args.Error(1)
}

func (m *MockAuth) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuth) Profile(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProfileResponse), args.Error(1)
}

func (m *MockAuth) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JWTClaims), args.Error(1)
}

type MockWallet struct{ mock.Mock }

func (m *MockWallet) Balances(ctx context.Context, userID uuid.UUID) (models.WalletBalances, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.WalletBalances), args.Error(1)
}

func (m *MockWallet) Deposit(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal) (*models.BalanceOperationResponse, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceOperationResponse), args.Error(1)
}

func (m *MockWallet) Withdraw(ctx context.Context, userID uuid.UUID, amount *decimal.Decimal) (*models.BalanceOperationResponse, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceOperationResponse), args.Error(1)
}

type MockRates struct{ mock.Mock }

func (m *MockRates) Range(ctx context.Context, code, startDate, endDate string) ([]models.CurrencyRate, error) {
	args := m.Called(ctx, code, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CurrencyRate), args.Error(1)
}

func (m *MockRates) AllLatest(ctx context.Context) (map[string]models.CurrencyRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.CurrencyRate), args.Error(1)
}

func (m *MockRates) Import(ctx context.Context, rates []models.CurrencyRate) (int64, error) {
	args := m.Called(ctx, rates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRates) DeleteOld(ctx context.Context, keepDate *time.Time) (int64, time.Time, error) {
	args := m.Called(ctx, keepDate)
	return args.Get(0).(int64), args.Get(1).(time.Time), args.Error(2)
}

type MockTrade struct{ mock.Mock }

func (m *MockTrade) Buy(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeResult), args.Error(1)
}

func (m *MockTrade) Sell(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeResult), args.Error(1)
}

type MockTransactions struct{ mock.Mock }

func (m *MockTransactions) List(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type MockFavorites struct{ mock.Mock }

func (m *MockFavorites) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavorites) Add(ctx context.Context, userID uuid.UUID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

func (m *MockFavorites) Remove(ctx context.Context, userID uuid.UUID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}
