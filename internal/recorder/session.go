package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/ledger"
	"CoinSentry/internal/model"
)

// CollectionInfo describes one tracking session.
type CollectionInfo struct {
	Source     string   `json:"source"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at"`
	Ticks      int      `json:"ticks"`
	Symbols    []string `json:"symbols"`
	Records    int      `json:"total_records"`
	AlertCount int      `json:"alert_count"`
}

// ObservationRecord is the JSON shape of one ledger entry.
type ObservationRecord struct {
	Time      string          `json:"time"`
	Symbol    string          `json:"symbol"`
	USDPrice  decimal.Decimal `json:"usd_price"`
	AlertType string          `json:"alert_type"`
}

// AlertEventRecord is the JSON shape of one alert event.
type AlertEventRecord struct {
	Time          string          `json:"time"`
	Symbol        string          `json:"symbol"`
	USDPrice      decimal.Decimal `json:"usd_price"`
	AlertType     string          `json:"alert_type"`
	ThresholdLow  decimal.Decimal `json:"threshold_low"`
	ThresholdHigh decimal.Decimal `json:"threshold_high"`
}

// SessionExport is the end-of-run JSON document: collection metadata, every
// classified observation, every alert, and per-symbol summaries.
type SessionExport struct {
	CollectionInfo CollectionInfo      `json:"collection_info"`
	PriceData      []ObservationRecord `json:"price_data"`
	Alerts         []AlertEventRecord  `json:"alerts"`
	Summaries      []ledger.Summary    `json:"symbol_summaries"`
}

// BuildSessionExport assembles the export document from a finished session.
func BuildSessionExport(source string, startedAt, finishedAt time.Time, ticks int,
	symbols []string, l *ledger.Ledger, alerts []model.AlertEvent) SessionExport {

	entries := l.Entries()
	priceData := make([]ObservationRecord, len(entries))
	for i, obs := range entries {
		priceData[i] = ObservationRecord{
			Time:      obs.Quote.ObservedAt.Format(timestampLayout),
			Symbol:    obs.Quote.Symbol,
			USDPrice:  obs.Quote.Price,
			AlertType: obs.Classification.String(),
		}
	}

	alertData := make([]AlertEventRecord, len(alerts))
	for i, evt := range alerts {
		alertData[i] = AlertEventRecord{
			Time:          evt.ObservedAt.Format(timestampLayout),
			Symbol:        evt.Symbol,
			USDPrice:      evt.Price,
			AlertType:     evt.Classification.String(),
			ThresholdLow:  evt.Band.Low,
			ThresholdHigh: evt.Band.High,
		}
	}

	return SessionExport{
		CollectionInfo: CollectionInfo{
			Source:     source,
			StartedAt:  startedAt.Format(timestampLayout),
			FinishedAt: finishedAt.Format(timestampLayout),
			Ticks:      ticks,
			Symbols:    symbols,
			Records:    len(entries),
			AlertCount: len(alerts),
		},
		PriceData: priceData,
		Alerts:    alertData,
		Summaries: l.Summaries(),
	}
}

// WriteSessionExport writes the export as indented UTF-8 JSON.
func WriteSessionExport(path string, export SessionExport) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session export: %w", err)
	}
	return nil
}
