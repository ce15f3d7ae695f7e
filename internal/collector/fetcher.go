package collector

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a raw price with its source-reported timestamp.
type PricePoint struct {
	Price       decimal.Decimal
	LastUpdated time.Time
}

// Fetcher defines the interface for fetching current prices. One call covers
// all requested ids; ids the source does not know are absent from the result.
type Fetcher interface {
	FetchPrices(ctx context.Context, ids []string) (map[string]PricePoint, error)
	Name() string
}
