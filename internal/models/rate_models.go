package models

import (
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// CurrencyRate is a dated bid/ask quote of a currency in PLN.
type CurrencyRate struct {
	Code          string          `db:"code"`
	EffectiveDate time.Time       `db:"effective_date"`
	Bid           decimal.Decimal `db:"bid"`
	Ask           decimal.Decimal `db:"ask"`
}

type CurrencyRateResponse struct {
	Code          string `json:"code" example:"USD"`
	EffectiveDate string `json:"effective_date" example:"2025-02-04"`
	Bid           string `json:"bid" example:"4.0000"`
	Ask           string `json:"ask" example:"4.1000"`
}

func (r CurrencyRate) ToResponse() CurrencyRateResponse {
	return CurrencyRateResponse{
		Code:          r.Code,
		EffectiveDate: r.EffectiveDate.Format(DateLayout),
		Bid:           FormatAmount(r.Bid),
		Ask:           FormatAmount(r.Ask),
	}
}

// RateRange is a closed date interval; a nil bound is open.
type RateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDate parses YYYY-MM-DD into a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", custom_err.ErrInvalidDate, value)
	}
	return t, nil
}

// DateOf drops the clock part of t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type DeleteRatesResponse struct {
	Message  string `json:"message"`
	Deleted  int64  `json:"deleted"`
	KeepDate string `json:"keep_date"`
}
