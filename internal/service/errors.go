package service

import "errors"

// Failure conditions surfaced by the analytics and basket services.
// All of them are caller-input or missing-data facts; the handler layer
// maps them to client-visible status codes.
var (
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM or YYYY-MM-DD")
	ErrNoBasketData        = errors.New("no basket items provided or found in store")
	ErrNoPriceData         = errors.New("no CPI data available to apply YoY inflation")
	ErrNoWelfareData       = errors.New("no welfare data for requested year and percentile")
	ErrNoHygieneData       = errors.New("no hygiene data available")
	ErrBasketLineNotFound  = errors.New("basket item not found")
	ErrDuplicateBasketLine = errors.New("basket item name already exists")
)
