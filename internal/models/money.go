package models

import (
	"fmt"
	"gw-currency-trader/internal/custom_err"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// BaseCurrency is the currency every trade settles against.
	BaseCurrency = "PLN"

	// AmountScale matches the numeric(20,4) columns.
	AmountScale int32 = 4

	// AmountIntDigits is what numeric(20,4) leaves for the integer part.
	AmountIntDigits = 16
)

// MaxAmount is the largest value a numeric(20,4) column stores.
var MaxAmount = decimal.New(1, AmountIntDigits).Sub(decimal.New(1, -AmountScale))

// NormalizeAmount truncates toward zero to AmountScale and rejects anything
// that is not strictly positive afterwards or does not fit the columns.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	normalized := amount.Truncate(AmountScale)
	if !normalized.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be positive with at most %d decimal places", custom_err.ErrInvalidAmount, AmountScale)
	}
	if normalized.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: must not exceed %s", custom_err.ErrInvalidAmount, FormatAmount(MaxAmount))
	}
	return normalized, nil
}

// RequireAmount is NormalizeAmount for optional request fields.
func RequireAmount(amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, fmt.Errorf("%w: amount is required", custom_err.ErrInvalidInput)
	}
	return NormalizeAmount(*amount)
}

// TruncateAmount brings a computed value (amount * price) to storage scale.
func TruncateAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(AmountScale)
}

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountScale)
}

// NormalizeCurrencyCode upper-cases an ISO 4217 code and checks its shape.
func NormalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: currency_code is required", custom_err.ErrInvalidInput)
	}
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", custom_err.ErrInvalidCurrency, code)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("%w: %q", custom_err.ErrInvalidCurrency, code)
		}
	}
	return code, nil
}
