package service

import (
	"context"
	"errors"
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"gw-currency-trader/internal/kafka"
	"gw-currency-trader/internal/models"
	"gw-currency-trader/internal/storage/postgres"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	eventQueueSize   = 100
	eventWorkerCount = 5
	eventSendTimeout = 5 * time.Second
)

type Trade interface {
	Buy(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error)
	Sell(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error)
}

// RateLookup resolves the quote a trade executes at, inside the trade's transaction.
type RateLookup interface {
	LatestTx(ctx context.Context, tx pgx.Tx, code string) (*models.CurrencyRate, error)
}

type TradeService struct {
	walletRepo    postgres.WalletRepository
	rates         RateLookup
	txnRepo       postgres.TransactionRepository
	txManager     TxManager
	kafkaProducer kafka.Producer

	eventThreshold decimal.Decimal
	log            *slog.Logger
	now            func() time.Time

	eventQueue chan models.TradeEvent
	wg         sync.WaitGroup
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func NewTradeService(
	walletRepo postgres.WalletRepository,
	rates RateLookup,
	txnRepo postgres.TransactionRepository,
	txManager TxManager,
	kafkaProducer kafka.Producer,
	eventThreshold decimal.Decimal,
	log *slog.Logger,
) *TradeService {
	svc := &TradeService{
		walletRepo:     walletRepo,
		rates:          rates,
		txnRepo:        txnRepo,
		txManager:      txManager,
		kafkaProducer:  kafkaProducer,
		eventThreshold: eventThreshold,
		log:            log,
		now:            time.Now,
		eventQueue:     make(chan models.TradeEvent, eventQueueSize),
		stopCh:         make(chan struct{}),
	}

	for i := 0; i < eventWorkerCount; i++ {
		svc.wg.Add(1)
		go svc.kafkaWorker(i)
	}

	return svc
}

func (s *TradeService) kafkaWorker(id int) {
	defer s.wg.Done()
	s.log.Info("kafka worker started", slog.Int("worker_id", id))

	for {
		select {
		case event := <-s.eventQueue:
			s.publish(id, event)

		case <-s.stopCh:
			// flush what is already queued before exiting
			for {
				select {
				case event := <-s.eventQueue:
					s.publish(id, event)
				default:
					s.log.Info("kafka worker stopping", slog.Int("worker_id", id))
					return
				}
			}
		}
	}
}

func (s *TradeService) publish(workerID int, event models.TradeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), eventSendTimeout)
	defer cancel()

	if err := s.kafkaProducer.SendTradeEvent(ctx, event); err != nil {
		s.log.Error("kafka send failed",
			slog.Int("worker_id", workerID),
			slog.String("tx_id", event.TransactionID),
			slog.String("error", err.Error()))
		return
	}
	s.log.Info("trade event sent to kafka",
		slog.Int("worker_id", workerID),
		slog.String("tx_id", event.TransactionID))
}

func (s *TradeService) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down trade service")

	s.stopOnce.Do(func() { close(s.stopCh) })

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("all kafka workers stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}

func (s *TradeService) Buy(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error) {
	return s.execute(ctx, userID, req, models.TransactionBuy)
}

func (s *TradeService) Sell(ctx context.Context, userID uuid.UUID, req models.TradeRequest) (*models.TradeResult, error) {
	return s.execute(ctx, userID, req, models.TransactionSell)
}

func (s *TradeService) execute(ctx context.Context, userID uuid.UUID, req models.TradeRequest, kind models.TransactionType) (*models.TradeResult, error) {
	op := "service." + string(kind)

	code, amount, err := validateTrade(req)
	if err != nil {
		return nil, err
	}

	var result *models.TradeResult
	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		rate, err := s.rates.LatestTx(ctx, tx, code)
		if err != nil {
			return fmt.Errorf("failed to get rate: %w", err)
		}

		// PLN is always locked first so concurrent trades of one user cannot deadlock
		pln, err := s.walletRepo.GetOrCreateForUpdateTx(ctx, tx, userID, models.BaseCurrency)
		if err != nil {
			return fmt.Errorf("failed to lock %s wallet: %w", models.BaseCurrency, err)
		}

		var cur *models.Wallet
		var price, plnValue decimal.Decimal

		switch kind {
		case models.TransactionBuy:
			cur, err = s.walletRepo.GetOrCreateForUpdateTx(ctx, tx, userID, code)
			if err != nil {
				return fmt.Errorf("failed to lock %s wallet: %w", code, err)
			}
			price = rate.Ask
			plnValue = models.TruncateAmount(amount.Mul(price))
			if err := pln.Withdraw(plnValue); err != nil {
				return err
			}
			if err := cur.Deposit(amount); err != nil {
				return err
			}

		case models.TransactionSell:
			cur, err = s.walletRepo.GetForUpdateTx(ctx, tx, userID, code)
			if err != nil {
				if errors.Is(err, custom_err.ErrNotFound) {
					return fmt.Errorf("%w: %s", custom_err.ErrCurrencyWalletNotFound, code)
				}
				return fmt.Errorf("failed to lock %s wallet: %w", code, err)
			}
			price = rate.Bid
			plnValue = models.TruncateAmount(amount.Mul(price))
			if err := cur.Withdraw(amount); err != nil {
				return err
			}
			if err := pln.Deposit(plnValue); err != nil {
				return err
			}
		}

		if err := s.walletRepo.UpdateBalanceTx(ctx, tx, pln); err != nil {
			return fmt.Errorf("failed to update %s balance: %w", models.BaseCurrency, err)
		}
		if err := s.walletRepo.UpdateBalanceTx(ctx, tx, cur); err != nil {
			return fmt.Errorf("failed to update %s balance: %w", code, err)
		}

		record := &models.Transaction{
			ID:                   uuid.New(),
			UserID:               userID,
			CurrencyCode:         code,
			Amount:               amount,
			Type:                 kind,
			Price:                decimal.NewNullDecimal(price),
			Timestamp:            s.now().UTC(),
			FinalPLNBalance:      pln.Balance,
			FinalCurrencyBalance: cur.Balance,
		}
		if err := s.txnRepo.CreateTx(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to record %s: %w", kind, err)
		}

		result = &models.TradeResult{
			TransactionID:        record.ID,
			Type:                 kind,
			CurrencyCode:         code,
			Amount:               amount,
			Price:                price,
			PLNValue:             plnValue,
			FinalPLNBalance:      pln.Balance,
			FinalCurrencyBalance: cur.Balance,
		}
		return nil
	})
	if err != nil {
		if isClientError(err) {
			s.log.Warn("trade rejected", slog.String("op", op), slog.String("reason", err.Error()))
		} else {
			s.log.Error("trade failed", slog.String("op", op), slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("trade completed",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("currency", code),
		slog.String("amount", models.FormatAmount(amount)),
		slog.String("price", models.FormatAmount(result.Price)),
		slog.String("pln_value", models.FormatAmount(result.PLNValue)))

	if result.PLNValue.GreaterThanOrEqual(s.eventThreshold) {
		s.enqueue(models.NewTradeEvent(userID, *result, s.now().UTC()))
	}

	return result, nil
}

func (s *TradeService) enqueue(event models.TradeEvent) {
	select {
	case s.eventQueue <- event:
		s.log.Debug("trade event queued", slog.String("transaction_id", event.TransactionID))
	default:
		s.log.Error("event queue is full, trade event dropped",
			slog.String("transaction_id", event.TransactionID),
			slog.String("pln_value", event.PLNValue))
	}
}

func validateTrade(req models.TradeRequest) (string, decimal.Decimal, error) {
	code, err := models.NormalizeCurrencyCode(req.CurrencyCode)
	if err != nil {
		return "", decimal.Zero, err
	}
	if code == models.BaseCurrency {
		return "", decimal.Zero, fmt.Errorf("%w: cannot trade %s against itself", custom_err.ErrInvalidCurrency, code)
	}

	amount, err := models.RequireAmount(req.Amount)
	if err != nil {
		return "", decimal.Zero, err
	}
	return code, amount, nil
}

func isClientError(err error) bool {
	return errors.Is(err, custom_err.ErrInsufficientFunds) ||
		errors.Is(err, custom_err.ErrNotFound) ||
		errors.Is(err, custom_err.ErrInvalidInput)
}
