package strategy

import (
	"github.com/shopspring/decimal"

	"CoinSentry/internal/model"
)

// Classify compares a price against its band. The band is inclusive on both
// ends: price == low and price == high both classify as WithinBand. The caller
// guarantees band.Low < band.High.
func Classify(price decimal.Decimal, band model.Band) model.Classification {
	switch {
	case price.Cmp(band.Low) < 0:
		return model.BelowBand
	case price.Cmp(band.High) > 0:
		return model.AboveBand
	default:
		return model.WithinBand
	}
}

// Alerts maps out-of-band observations to alert events, preserving input order.
// In-band observations never produce an event.
func Alerts(observations []model.Observation, bands map[string]model.Band) []model.AlertEvent {
	var events []model.AlertEvent
	for _, obs := range observations {
		if obs.Classification == model.WithinBand {
			continue
		}
		events = append(events, model.AlertEvent{
			Symbol:         obs.Quote.Symbol,
			Price:          obs.Quote.Price,
			Classification: obs.Classification,
			Band:           bands[obs.Quote.Symbol],
			ObservedAt:     obs.Quote.ObservedAt,
		})
	}
	return events
}
