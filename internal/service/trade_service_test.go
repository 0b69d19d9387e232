package service

import (
	"context"
	"math/rand"
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

type tradeMocks struct {
	walletRepo *MockWalletRepo
	rateRepo   *MockRateRepo
	txnRepo    *MockTransactionRepo
	txManager  *MockTxManager
	producer   *MockKafkaProducer
}

func setupTradeService(t *testing.T, threshold string) (*TradeService, tradeMocks) {
	m := tradeMocks{
		walletRepo: new(MockWalletRepo),
		rateRepo:   new(MockRateRepo),
		txnRepo:    new(MockTransactionRepo),
		txManager:  new(MockTxManager),
		producer:   new(MockKafkaProducer),
	}

	rates := NewRateService(m.rateRepo, m.txManager, time.Minute, nil, testLogger())
	service := NewTradeService(m.walletRepo, rates, m.txnRepo, m.txManager, m.producer, dec(threshold), testLogger())
	service.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = service.Shutdown(ctx)
	})

	return service, m
}

func usdRate() *models.CurrencyRate {
	return &models.CurrencyRate{Code: "USD", EffectiveDate: day("2025-03-14"), Bid: dec("3.90"), Ask: dec("4.00")}
}

func TestTradeService_Buy_Success(t *testing.T) {
	service, m := setupTradeService(t, "30000")
	ctx := context.Background()
	userID := uuid.New()

	pln := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("1000")}
	usd := &models.Wallet{UserID: userID, CurrencyCode: "USD", Balance: decimal.Zero}

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "USD").Return(usdRate(), nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(pln, nil).Once()
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil).Once()
	m.walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, pln).Return(nil)
	m.walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, usd).Return(nil)
	m.txnRepo.On("CreateTx", ctx, mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Type == models.TransactionBuy &&
			txn.CurrencyCode == "USD" &&
			txn.Amount.Equal(dec("100")) &&
			txn.Price.Valid && txn.Price.Decimal.Equal(dec("4")) &&
			txn.FinalPLNBalance.Equal(dec("600")) &&
			txn.FinalCurrencyBalance.Equal(dec("100"))
	})).Return(nil)

	res, err := service.Buy(ctx, userID, models.TradeRequest{CurrencyCode: "usd", Amount: decPtr("100")})

	require.NoError(t, err)
	assert.Equal(t, "600.0000", models.FormatAmount(res.FinalPLNBalance))
	assert.Equal(t, "100.0000", models.FormatAmount(res.FinalCurrencyBalance))
	assert.Equal(t, "4.0000", models.FormatAmount(res.Price))
	assert.True(t, res.PLNValue.Equal(dec("400")))

	// PLN must be locked before the traded currency
	var locked []string
	for _, call := range m.walletRepo.Calls {
		if call.Method == "GetOrCreateForUpdateTx" || call.Method == "GetForUpdateTx" {
			locked = append(locked, call.Arguments.String(3))
		}
	}
	assert.Equal(t, []string{"PLN", "USD"}, locked)

	m.walletRepo.AssertExpectations(t)
	m.txnRepo.AssertExpectations(t)
	m.producer.AssertNotCalled(t, "SendTradeEvent", mock.Anything, mock.Anything)
}

func TestTradeService_Buy_InsufficientFunds(t *testing.T) {
	service, m := setupTradeService(t, "30000")
	ctx := context.Background()
	userID := uuid.New()

	pln := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("399.9999")}
	usd := &models.Wallet{UserID: userID, CurrencyCode: "USD", Balance: decimal.Zero}

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "USD").Return(usdRate(), nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(pln, nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil)

	res, err := service.Buy(ctx, userID, models.TradeRequest{CurrencyCode: "USD", Amount: decPtr("100")})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
	m.walletRepo.AssertNotCalled(t, "UpdateBalanceTx", mock.Anything, mock.Anything, mock.Anything)
	m.txnRepo.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestTradeService_UnknownCurrency(t *testing.T) {
	service, m := setupTradeService(t, "30000")
	ctx := context.Background()

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "XYZ").Return(nil, custom_err.ErrNotFound)

	_, err := service.Buy(ctx, uuid.New(), models.TradeRequest{CurrencyCode: "XYZ", Amount: decPtr("1")})

	assert.ErrorIs(t, err, custom_err.ErrCurrencyNotFound)
	m.walletRepo.AssertNotCalled(t, "GetOrCreateForUpdateTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTradeService_Validation(t *testing.T) {
	service, m := setupTradeService(t, "30000")
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.TradeRequest
		wantErr error
	}{
		{"missing code", models.TradeRequest{Amount: decPtr("1")}, custom_err.ErrInvalidInput},
		{"bad code", models.TradeRequest{CurrencyCode: "DOLLAR", Amount: decPtr("1")}, custom_err.ErrInvalidCurrency},
		{"base currency", models.TradeRequest{CurrencyCode: "pln", Amount: decPtr("1")}, custom_err.ErrInvalidCurrency},
		{"missing amount", models.TradeRequest{CurrencyCode: "USD"}, custom_err.ErrInvalidInput},
		{"negative amount", models.TradeRequest{CurrencyCode: "USD", Amount: decPtr("-1")}, custom_err.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Sell(ctx, uuid.New(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	m.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
}

func TestTradeService_Sell_NoCurrencyWallet(t *testing.T) {
	service, m := setupTradeService(t, "30000")
	ctx := context.Background()
	userID := uuid.New()

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "USD").Return(usdRate(), nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").
		Return(&models.Wallet{UserID: userID, CurrencyCode: "PLN"}, nil)
	m.walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "USD").Return(nil, custom_err.ErrNotFound)

	_, err := service.Sell(ctx, userID, models.TradeRequest{CurrencyCode: "USD", Amount: decPtr("1")})

	assert.ErrorIs(t, err, custom_err.ErrCurrencyWalletNotFound)
}

func TestTradeService_BuyThenSell_LosesSpread(t *testing.T) {
	service, m := setupTradeService(t, "1000000")
	ctx := context.Background()
	userID := uuid.New()

	pln := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("1000")}
	usd := &models.Wallet{UserID: userID, CurrencyCode: "USD", Balance: decimal.Zero}

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "USD").Return(usdRate(), nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(pln, nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil)
	m.walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil)
	m.walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, mock.Anything).Return(nil)
	m.txnRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).Return(nil)

	amount := decPtr("25.5")

	_, err := service.Buy(ctx, userID, models.TradeRequest{CurrencyCode: "USD", Amount: amount})
	require.NoError(t, err)
	res, err := service.Sell(ctx, userID, models.TradeRequest{CurrencyCode: "USD", Amount: amount})
	require.NoError(t, err)

	// 25.5 * (4.00 - 3.90)
	assert.True(t, res.FinalPLNBalance.Equal(dec("997.45")), res.FinalPLNBalance.String())
	assert.True(t, res.FinalCurrencyBalance.IsZero())
	assert.Equal(t, models.TransactionSell, res.Type)
	m.txnRepo.AssertNumberOfCalls(t, "CreateTx", 2)
}

func TestTradeService_RandomTradesKeepBalancesNonNegative(t *testing.T) {
	service, m := setupTradeService(t, "1000000000")
	ctx := context.Background()
	userID := uuid.New()
	rng := rand.New(rand.NewSource(7))

	pln := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("500")}
	usd := &models.Wallet{UserID: userID, CurrencyCode: "USD", Balance: decimal.Zero}

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "USD").Return(usdRate(), nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(pln, nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil)
	m.walletRepo.On("GetForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil)
	m.walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, mock.Anything).Return(nil)
	m.txnRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 500; i++ {
		amount := decimal.New(rng.Int63n(5_000_000)+1, -4)
		req := models.TradeRequest{CurrencyCode: "USD", Amount: &amount}

		// a rejected trade must not touch either wallet
		beforePLN, beforeUSD := pln.Balance, usd.Balance

		var err error
		if rng.Intn(2) == 0 {
			_, err = service.Buy(ctx, userID, req)
		} else {
			_, err = service.Sell(ctx, userID, req)
		}

		if err != nil {
			require.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
			assert.True(t, pln.Balance.Equal(beforePLN))
			assert.True(t, usd.Balance.Equal(beforeUSD))
		}
		require.False(t, pln.Balance.IsNegative(), "step %d: PLN %s", i, pln.Balance)
		require.False(t, usd.Balance.IsNegative(), "step %d: USD %s", i, usd.Balance)
	}
}

func TestTradeService_LargeTradePublishesEvent(t *testing.T) {
	service, m := setupTradeService(t, "400")
	ctx := context.Background()
	userID := uuid.New()

	pln := &models.Wallet{UserID: userID, CurrencyCode: "PLN", Balance: dec("1000")}
	usd := &models.Wallet{UserID: userID, CurrencyCode: "USD", Balance: decimal.Zero}

	m.txManager.On("WithTx", ctx, mock.AnythingOfType("func(pgx.Tx) error")).Return(nil)
	m.rateRepo.On("GetLatestTx", ctx, mock.Anything, "USD").Return(usdRate(), nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "PLN").Return(pln, nil)
	m.walletRepo.On("GetOrCreateForUpdateTx", ctx, mock.Anything, userID, "USD").Return(usd, nil)
	m.walletRepo.On("UpdateBalanceTx", ctx, mock.Anything, mock.Anything).Return(nil)
	m.txnRepo.On("CreateTx", ctx, mock.Anything, mock.Anything).Return(nil)
	m.producer.On("SendTradeEvent", mock.Anything, mock.MatchedBy(func(e models.TradeEvent) bool {
		return e.UserID == userID && e.Type == "buy" && e.PLNValue == "400.0000" && e.Price == "4.0000"
	})).Return(nil).Once()

	res, err := service.Buy(ctx, userID, models.TradeRequest{CurrencyCode: "USD", Amount: decPtr("100")})
	require.NoError(t, err)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, service.Shutdown(shutdownCtx))

	m.producer.AssertExpectations(t)
	assert.Equal(t, res.TransactionID.String(), m.producer.Calls[0].Arguments.Get(1).(models.TradeEvent).TransactionID)
}
