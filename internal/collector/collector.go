package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/model"
	"CoinSentry/internal/strategy"
)

// MockFetcher returns controllable fixed data for development and testing.
// Ids absent from Prices are omitted from the result, simulating a source
// that does not know the symbol.
type MockFetcher struct {
	Prices map[string]decimal.Decimal
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrices(_ context.Context, ids []string) (map[string]PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	points := make(map[string]PricePoint, len(ids))
	for _, id := range ids {
		if p, ok := m.Prices[id]; ok {
			points[id] = PricePoint{Price: p, LastUpdated: time.Now()}
		}
	}
	return points, nil
}

// TrackedSymbol binds a display symbol to its source id and alert band.
type TrackedSymbol struct {
	Symbol   string
	SourceID string
	Band     model.Band
}

// SymbolError records a per-symbol fetch failure within a tick.
type SymbolError struct {
	Symbol string
	Err    error
}

// TickResult holds everything one poll cycle produced. Observations follow the
// configured symbol order and may be shorter than the symbol set when some
// fetches failed; Failed carries those as non-fatal warnings for the caller.
type TickResult struct {
	Observations []model.Observation
	Failed       []SymbolError
}

// Collector orchestrates per-tick fetching and classification.
type Collector struct {
	Fetcher Fetcher
	Symbols []TrackedSymbol
}

// NewCollector creates a new Collector. Symbol order is preserved for every tick.
func NewCollector(fetcher Fetcher, symbols []TrackedSymbol) *Collector {
	return &Collector{Fetcher: fetcher, Symbols: symbols}
}

// SampleTick fetches current prices for all tracked symbols and classifies
// each against its band. One bad symbol does not abort the tick; a failed
// batch request fails every symbol for this tick. SampleTick never returns an
// error: the next scheduled tick is the implicit retry.
func (c *Collector) SampleTick(ctx context.Context) TickResult {
	var res TickResult

	ids := make([]string, len(c.Symbols))
	for i, s := range c.Symbols {
		ids[i] = s.SourceID
	}

	points, err := c.Fetcher.FetchPrices(ctx, ids)
	if err != nil {
		for _, s := range c.Symbols {
			res.Failed = append(res.Failed, SymbolError{Symbol: s.Symbol, Err: err})
		}
		return res
	}

	now := time.Now()
	for _, s := range c.Symbols {
		pt, ok := points[s.SourceID]
		if !ok {
			res.Failed = append(res.Failed, SymbolError{
				Symbol: s.Symbol,
				Err:    fmt.Errorf("no quote returned for id %q", s.SourceID),
			})
			continue
		}
		observedAt := pt.LastUpdated
		if observedAt.IsZero() {
			observedAt = now
		}
		quote := model.Quote{Symbol: s.Symbol, Price: pt.Price, ObservedAt: observedAt}
		res.Observations = append(res.Observations, model.Observation{
			Quote:          quote,
			Classification: strategy.Classify(quote.Price, s.Band),
		})
	}
	return res
}
