package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/model"
)

func obs(symbol, price string, c model.Classification) model.Observation {
	return model.Observation{
		Quote: model.Quote{
			Symbol:     symbol,
			Price:      decimal.RequireFromString(price),
			ObservedAt: time.Now(),
		},
		Classification: c,
	}
}

func TestLedger_AppendOrder(t *testing.T) {
	l := New()
	l.Append(obs("BTC", "111000", model.WithinBand))
	l.Append(obs("ETH", "4050", model.WithinBand), obs("BTC", "112000", model.WithinBand))

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"BTC", "ETH", "BTC"}
	for i, sym := range want {
		if entries[i].Quote.Symbol != sym {
			t.Errorf("entry %d: expected %s, got %s", i, sym, entries[i].Quote.Symbol)
		}
	}
}

func TestLedger_FlushCursor(t *testing.T) {
	l := New()
	l.Append(obs("BTC", "111000", model.WithinBand))
	l.Append(obs("ETH", "4050", model.WithinBand))

	if got := len(l.Unflushed()); got != 2 {
		t.Fatalf("expected 2 unflushed, got %d", got)
	}
	l.MarkFlushed()
	if got := len(l.Unflushed()); got != 0 {
		t.Fatalf("expected 0 unflushed after mark, got %d", got)
	}

	l.Append(obs("BTC", "112000", model.WithinBand))
	unflushed := l.Unflushed()
	if len(unflushed) != 1 {
		t.Fatalf("expected 1 unflushed after new append, got %d", len(unflushed))
	}
	if !unflushed[0].Quote.Price.Equal(decimal.RequireFromString("112000")) {
		t.Errorf("unexpected unflushed entry: %s", unflushed[0].Quote.Price)
	}
	if l.Len() != 3 {
		t.Errorf("flush must not shrink the ledger: len = %d, want 3", l.Len())
	}
}

func TestLedger_EntriesCopy(t *testing.T) {
	l := New()
	l.Append(obs("BTC", "111000", model.WithinBand))
	entries := l.Entries()
	entries[0].Quote.Symbol = "MUTATED"
	if l.Entries()[0].Quote.Symbol != "BTC" {
		t.Error("mutating the returned slice must not touch the ledger")
	}
}

func TestSummaries_Stats(t *testing.T) {
	l := New()
	l.Append(
		obs("BTC", "100", model.BelowBand),
		obs("ETH", "4050", model.WithinBand),
		obs("BTC", "110", model.WithinBand),
		obs("BTC", "120", model.AboveBand),
	)

	summaries := l.Summaries()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	// First appearance order: BTC before ETH.
	btc := summaries[0]
	if btc.Symbol != "BTC" {
		t.Fatalf("expected BTC first, got %s", btc.Symbol)
	}
	if btc.Count != 3 {
		t.Errorf("BTC count = %d, want 3", btc.Count)
	}
	if btc.Alerts != 2 {
		t.Errorf("BTC alerts = %d, want 2", btc.Alerts)
	}
	if !btc.Min.Equal(decimal.RequireFromString("100")) || !btc.Max.Equal(decimal.RequireFromString("120")) {
		t.Errorf("BTC range = [%s, %s], want [100, 120]", btc.Min, btc.Max)
	}
	if !btc.Mean.Equal(decimal.RequireFromString("110")) {
		t.Errorf("BTC mean = %s, want 110", btc.Mean)
	}
	if !btc.Change.Equal(decimal.RequireFromString("20")) {
		t.Errorf("BTC change = %s, want 20", btc.Change)
	}
	if !btc.ChangePct.Equal(decimal.RequireFromString("20")) {
		t.Errorf("BTC change pct = %s, want 20", btc.ChangePct)
	}
	if btc.StdDev < 8.1 || btc.StdDev > 8.2 {
		t.Errorf("BTC stddev = %f, want ~8.16", btc.StdDev)
	}

	eth := summaries[1]
	if eth.Count != 1 || eth.Alerts != 0 {
		t.Errorf("ETH summary = %+v, want single clean sample", eth)
	}
	if eth.StdDev != 0 {
		t.Errorf("single sample stddev = %f, want 0", eth.StdDev)
	}
}

func TestSummaries_Empty(t *testing.T) {
	if got := New().Summaries(); len(got) != 0 {
		t.Fatalf("expected no summaries for empty ledger, got %d", len(got))
	}
}
