package ledger

import (
	"math"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/model"
)

// Summary aggregates one symbol's observations over the session.
type Summary struct {
	Symbol    string          `json:"symbol"`
	Count     int             `json:"count"`
	Alerts    int             `json:"alerts"`
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	Mean      decimal.Decimal `json:"mean"`
	StdDev    float64         `json:"std_dev"`
	First     decimal.Decimal `json:"first"`
	Last      decimal.Decimal `json:"last"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// Summaries computes per-symbol statistics over all entries, one Summary per
// symbol in order of first appearance.
func (l *Ledger) Summaries() []Summary {
	var order []string
	grouped := make(map[string][]model.Observation)
	for _, e := range l.entries {
		sym := e.Quote.Symbol
		if _, ok := grouped[sym]; !ok {
			order = append(order, sym)
		}
		grouped[sym] = append(grouped[sym], e)
	}

	summaries := make([]Summary, 0, len(order))
	for _, sym := range order {
		summaries = append(summaries, summarize(sym, grouped[sym]))
	}
	return summaries
}

func summarize(symbol string, observations []model.Observation) Summary {
	s := Summary{Symbol: symbol, Count: len(observations)}

	sum := decimal.Zero
	for i, obs := range observations {
		p := obs.Quote.Price
		if i == 0 || p.Cmp(s.Min) < 0 {
			s.Min = p
		}
		if i == 0 || p.Cmp(s.Max) > 0 {
			s.Max = p
		}
		if obs.Classification != model.WithinBand {
			s.Alerts++
		}
		sum = sum.Add(p)
	}

	s.First = observations[0].Quote.Price
	s.Last = observations[len(observations)-1].Quote.Price
	s.Mean = sum.Div(decimal.NewFromInt(int64(len(observations))))
	s.Change = s.Last.Sub(s.First)
	if !s.First.IsZero() {
		s.ChangePct = s.Change.Div(s.First).Mul(decimal.NewFromInt(100)).Round(2)
	}
	s.StdDev = stdDev(observations, s.Mean)
	return s
}

func stdDev(observations []model.Observation, mean decimal.Decimal) float64 {
	if len(observations) < 2 {
		return 0
	}
	m, _ := mean.Float64()
	var sq float64
	for _, obs := range observations {
		p, _ := obs.Quote.Price.Float64()
		sq += (p - m) * (p - m)
	}
	return math.Sqrt(sq / float64(len(observations)))
}
