package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeEvent is published for trades whose PLN value reaches the configured threshold.
type TradeEvent struct {
	TransactionID string    `json:"transaction_id"`
	UserID        uuid.UUID `json:"user_id"`
	Type          string    `json:"transaction_type"`
	CurrencyCode  string    `json:"currency_code"`
	Amount        string    `json:"amount"`
	Price         string    `json:"price"`
	PLNValue      string    `json:"pln_value"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTradeEvent(userID uuid.UUID, res TradeResult, at time.Time) TradeEvent {
	return TradeEvent{
		TransactionID: res.TransactionID.String(),
		UserID:        userID,
		Type:          string(res.Type),
		CurrencyCode:  res.CurrencyCode,
		Amount:        FormatAmount(res.Amount),
		Price:         FormatAmount(res.Price),
		PLNValue:      FormatAmount(res.PLNValue),
		Timestamp:     at,
	}
}
