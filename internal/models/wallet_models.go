package models

import (
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is one user's balance in one currency.
type Wallet struct {
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`
	CurrencyCode string          `json:"currency_code" db:"currency_code"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return custom_err.ErrInvalidAmount
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return custom_err.ErrInvalidAmount
	}
	if amount.GreaterThan(w.Balance) {
		return fmt.Errorf("%w: %s balance %s, requested %s",
			custom_err.ErrInsufficientFunds, w.CurrencyCode, FormatAmount(w.Balance), FormatAmount(amount))
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// AmountRequest accepts the amount as a JSON number or a JSON string.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount" swaggertype:"string" example:"100.50"`
}

type BalanceOperationResponse struct {
	Message      string `json:"message"`
	CurrencyCode string `json:"currency_code"`
	Balance      string `json:"balance"`
}

// WalletBalances maps currency code to balance.
type WalletBalances map[string]decimal.Decimal

func (b WalletBalances) ToResponse() map[string]string {
	resp := make(map[string]string, len(b))
	for code, balance := range b {
		resp[code] = FormatAmount(balance)
	}
	return resp
}
