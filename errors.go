package tracker

import "errors"

// Errors returned by the ledger operations. They are always wrapped with
// details, use errors.Is to test for them.
var (
	ErrInvalidAccount       = errors.New("invalid account")
	ErrInsufficientCash     = errors.New("insufficient cash")
	ErrPositionNotFound     = errors.New("position not found")
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRate      = errors.New("invalid exchange rate")
	ErrInvalidCurrency  = errors.New("invalid currency")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
