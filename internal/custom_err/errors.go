package custom_err

import (
	"errors"
	"fmt"
)

var (
	// General kinds, matched by the HTTP layer
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("too many requests")

	// Wallet errors
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrCurrencyWalletNotFound = fmt.Errorf("%w: currency wallet not found", ErrNotFound)

	// Rate errors
	ErrCurrencyNotFound = fmt.Errorf("%w: currency not found", ErrNotFound)

	// Favorites errors
	ErrAlreadyFavorite = fmt.Errorf("%w: currency already in favorites", ErrConflict)

	// User errors
	ErrEmailExists        = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: token has expired", ErrUnauthorized)
	ErrTokenNotActive     = fmt.Errorf("%w: token not active yet", ErrUnauthorized)

	// Validation errors
	ErrInvalidCurrency = fmt.Errorf("%w: invalid currency", ErrInvalidInput)
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrInvalidInput)
)
