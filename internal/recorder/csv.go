package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"CoinSentry/internal/model"
)

var (
	pricesHeader = []string{"time", "symbol", "usd_price"}
	alertsHeader = []string{"time", "symbol", "price", "alert_type", "threshold_low", "threshold_high"}
)

// CSVRecorder appends observations and alerts to two CSV files. Each file gets
// its header exactly once: on the first write to an empty or missing file, so
// restarts appending to an existing file do not repeat it.
type CSVRecorder struct {
	PricesPath string
	AlertsPath string
}

// NewCSVRecorder creates a recorder writing to the given file paths.
func NewCSVRecorder(pricesPath, alertsPath string) *CSVRecorder {
	return &CSVRecorder{PricesPath: pricesPath, AlertsPath: alertsPath}
}

func (r *CSVRecorder) RecordObservations(observations []model.Observation) error {
	if len(observations) == 0 {
		return nil
	}
	rows := make([][]string, len(observations))
	for i, obs := range observations {
		rows[i] = []string{
			obs.Quote.ObservedAt.Format(timestampLayout),
			obs.Quote.Symbol,
			obs.Quote.Price.String(),
		}
	}
	return appendCSV(r.PricesPath, pricesHeader, rows)
}

func (r *CSVRecorder) RecordAlerts(alerts []model.AlertEvent) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([][]string, len(alerts))
	for i, evt := range alerts {
		rows[i] = []string{
			evt.ObservedAt.Format(timestampLayout),
			evt.Symbol,
			evt.Price.String(),
			evt.Classification.String(),
			evt.Band.Low.String(),
			evt.Band.High.String(),
		}
	}
	return appendCSV(r.AlertsPath, alertsHeader, rows)
}

func (r *CSVRecorder) Close() error { return nil }

// appendCSV appends rows to path, writing the header first when the file is new.
func appendCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
