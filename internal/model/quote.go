package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Band is the inclusive [Low, High] price range considered normal for a symbol.
type Band struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// Quote is a single observed price for a tracked symbol.
type Quote struct {
	Symbol     string
	Price      decimal.Decimal
	ObservedAt time.Time
}

// Observation is one classified ledger entry.
type Observation struct {
	Quote          Quote
	Classification Classification
}
