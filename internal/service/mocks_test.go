package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"gw-currency-trader/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) (*models.User, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) CreateWalletTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	args := m.Called(ctx, tx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepo) GetForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) (*models.Wallet, error) {
	args := m.Called(ctx, tx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) GetOrCreateForUpdateTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) (*models.Wallet, error) {
	args := m.Called(ctx, tx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepo) UpdateBalanceTx(ctx context.Context, tx pgx.Tx, wallet *models.Wallet) error {
	args := m.Called(ctx, tx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepo) GetUserBalances(ctx context.Context, userID uuid.UUID) (models.WalletBalances, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.WalletBalances), args.Error(1)
}

type MockRateRepo struct {
	mock.Mock
}

func (m *MockRateRepo) GetLatestTx(ctx context.Context, tx pgx.Tx, code string) (*models.CurrencyRate, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrencyRate), args.Error(1)
}

func (m *MockRateRepo) GetRange(ctx context.Context, code string, rng models.RateRange) ([]models.CurrencyRate, error) {
	args := m.Called(ctx, code, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CurrencyRate), args.Error(1)
}

func (m *MockRateRepo) GetAllLatest(ctx context.Context) ([]models.CurrencyRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CurrencyRate), args.Error(1)
}

func (m *MockRateRepo) ExistsTx(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	args := m.Called(ctx, tx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateRepo) LatestDateTx(ctx context.Context, tx pgx.Tx) (time.Time, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockRateRepo) InsertTx(ctx context.Context, tx pgx.Tx, rates []models.CurrencyRate) (int64, error) {
	args := m.Called(ctx, tx, rates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRateRepo) DeleteWithoutDateTx(ctx context.Context, tx pgx.Tx, keepDate time.Time) (int64, error) {
	args := m.Called(ctx, tx, keepDate)
	return args.Get(0).(int64), args.Error(1)
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) CreateTx(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	args := m.Called(ctx, tx, t)
	return args.Error(0)
}

func (m *MockTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type MockFavoriteRepo struct {
	mock.Mock
}

func (m *MockFavoriteRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFavoriteRepo) AddTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, code string) error {
	args := m.Called(ctx, tx, userID, code)
	return args.Error(0)
}

func (m *MockFavoriteRepo) Remove(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) SendTradeEvent(ctx context.Context, event models.TradeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
