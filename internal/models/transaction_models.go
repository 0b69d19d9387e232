package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionBuy        TransactionType = "buy"
	TransactionSell       TransactionType = "sell"
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// Transaction is an append-only ledger row. The final balances snapshot both
// wallets right after the operation.
type Transaction struct {
	ID                   uuid.UUID           `db:"id"`
	UserID               uuid.UUID           `db:"user_id"`
	CurrencyCode         string              `db:"currency_code"`
	Amount               decimal.Decimal     `db:"amount"`
	Type                 TransactionType     `db:"transaction_type"`
	Price                decimal.NullDecimal `db:"price"`
	Timestamp            time.Time           `db:"timestamp"`
	FinalPLNBalance      decimal.Decimal     `db:"final_pln_balance"`
	FinalCurrencyBalance decimal.Decimal     `db:"final_currency_balance"`
}

type TransactionResponse struct {
	ID                   string    `json:"id"`
	CurrencyCode         string    `json:"currency_code"`
	Amount               string    `json:"amount"`
	TransactionType      string    `json:"transaction_type"`
	Price                *string   `json:"price"`
	Timestamp            time.Time `json:"timestamp"`
	FinalPLNBalance      string    `json:"final_pln_balance"`
	FinalCurrencyBalance string    `json:"final_currency_balance"`
}

func (t Transaction) ToResponse() TransactionResponse {
	resp := TransactionResponse{
		ID:                   t.ID.String(),
		CurrencyCode:         t.CurrencyCode,
		Amount:               FormatAmount(t.Amount),
		TransactionType:      string(t.Type),
		Timestamp:            t.Timestamp,
		FinalPLNBalance:      FormatAmount(t.FinalPLNBalance),
		FinalCurrencyBalance: FormatAmount(t.FinalCurrencyBalance),
	}
	if t.Price.Valid {
		price := FormatAmount(t.Price.Decimal)
		resp.Price = &price
	}
	return resp
}

type TradeRequest struct {
	CurrencyCode string           `json:"currency_code" example:"USD"`
	Amount       *decimal.Decimal `json:"amount" swaggertype:"string" example:"100.50"`
}

// TradeResult is what a committed buy or sell produced.
type TradeResult struct {
	TransactionID        uuid.UUID
	Type                 TransactionType
	CurrencyCode         string
	Amount               decimal.Decimal
	Price                decimal.Decimal
	PLNValue             decimal.Decimal
	FinalPLNBalance      decimal.Decimal
	FinalCurrencyBalance decimal.Decimal
}

type TradeResponse struct {
	Message              string `json:"message"`
	FinalPLNBalance      string `json:"final_pln_balance" example:"590.0000"`
	FinalCurrencyBalance string `json:"final_currency_balance" example:"100.0000"`
	Price                string `json:"price" example:"4.1000"`
}
