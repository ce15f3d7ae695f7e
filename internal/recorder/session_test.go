package recorder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/ledger"
	"CoinSentry/internal/model"
)

func TestSessionExport_RoundTrip(t *testing.T) {
	l := ledger.New()
	l.Append(
		testObservation("BTC", "111000"),
		model.Observation{
			Quote: model.Quote{
				Symbol:     "BTC",
				Price:      decimal.RequireFromString("115000"),
				ObservedAt: testTime,
			},
			Classification: model.AboveBand,
		},
	)
	alerts := []model.AlertEvent{{
		Symbol:         "BTC",
		Price:          decimal.RequireFromString("115000"),
		Classification: model.AboveBand,
		Band: model.Band{
			Low:  decimal.RequireFromString("110000"),
			High: decimal.RequireFromString("113000"),
		},
		ObservedAt: testTime,
	}}

	started := testTime.Add(-time.Minute)
	export := BuildSessionExport("mock", started, testTime, 2, []string{"BTC"}, l, alerts)

	if export.CollectionInfo.Records != 2 || export.CollectionInfo.AlertCount != 1 {
		t.Errorf("collection info = %+v, want 2 records, 1 alert", export.CollectionInfo)
	}
	if export.CollectionInfo.Ticks != 2 || export.CollectionInfo.Source != "mock" {
		t.Errorf("collection info = %+v", export.CollectionInfo)
	}
	if len(export.Summaries) != 1 || export.Summaries[0].Symbol != "BTC" {
		t.Fatalf("unexpected summaries: %+v", export.Summaries)
	}

	path := filepath.Join(t.TempDir(), "out", "session.json")
	if err := WriteSessionExport(path, export); err != nil {
		t.Fatalf("WriteSessionExport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded SessionExport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(decoded.PriceData) != 2 {
		t.Fatalf("decoded price data = %d entries, want 2", len(decoded.PriceData))
	}
	if decoded.PriceData[1].AlertType != "HIGH_ALERT" {
		t.Errorf("alert type = %s, want HIGH_ALERT", decoded.PriceData[1].AlertType)
	}
	if !decoded.Alerts[0].ThresholdHigh.Equal(decimal.RequireFromString("113000")) {
		t.Errorf("threshold high = %s, want 113000", decoded.Alerts[0].ThresholdHigh)
	}
	if decoded.PriceData[0].Time != testTime.Format("2006-01-02 15:04:05") {
		t.Errorf("time = %s, want %s", decoded.PriceData[0].Time, testTime.Format("2006-01-02 15:04:05"))
	}
}
