package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertEvent records an out-of-band observation. It carries the violated band
// so sinks can persist the thresholds alongside the price.
type AlertEvent struct {
	Symbol         string
	Price          decimal.Decimal
	Classification Classification
	Band           Band
	ObservedAt     time.Time
}
