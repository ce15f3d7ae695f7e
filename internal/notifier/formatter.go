package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/ledger"
	"CoinSentry/internal/model"
)

// FormatAlert formats one alert event into a Telegram message.
func FormatAlert(evt model.AlertEvent) string {
	var b strings.Builder
	switch evt.Classification {
	case model.AboveBand:
		b.WriteString("🚨 <b>HIGH ALERT</b>")
	case model.BelowBand:
		b.WriteString("⚠️ <b>LOW ALERT</b>")
	default:
		b.WriteString("✅ <b>NORMAL</b>")
	}
	b.WriteString(fmt.Sprintf(" | %s\n\n", evt.Symbol))
	b.WriteString(fmt.Sprintf("Price: $%s\n", evt.Price.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Band: $%s - $%s\n", evt.Band.Low.StringFixed(2), evt.Band.High.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Observed: %s\n", evt.ObservedAt.Format("2006-01-02 15:04:05")))
	return b.String()
}

// FormatAlertBatch joins one tick's alerts into a single message.
func FormatAlertBatch(alerts []model.AlertEvent) string {
	parts := make([]string, len(alerts))
	for i, evt := range alerts {
		parts[i] = FormatAlert(evt)
	}
	return strings.Join(parts, "\n")
}

// FormatSessionSummary formats the end-of-session report with per-symbol
// statistics and a price comparison chart.
func FormatSessionSummary(summaries []ledger.Summary, ticks int, startedAt, finishedAt time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>CoinSentry session summary</b> | %s\n\n", finishedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Ticks: %d | %s → %s\n\n",
		ticks, startedAt.Format("15:04:05"), finishedAt.Format("15:04:05")))

	for _, s := range summaries {
		b.WriteString(fmt.Sprintf("<b>%s</b> (%d samples, %d alerts)\n", s.Symbol, s.Count, s.Alerts))
		b.WriteString(fmt.Sprintf("  Range: $%s - $%s | Avg: $%s\n",
			s.Min.StringFixed(2), s.Max.StringFixed(2), s.Mean.StringFixed(2)))
		b.WriteString(fmt.Sprintf("  Change: %s (%s%%) | Volatility: $%.2f\n",
			signedFixed(s.Change), signedFixed(s.ChangePct), s.StdDev))
	}

	if chart := FormatPriceChart(summaries); chart != "" {
		b.WriteString("\n<pre>")
		b.WriteString(chart)
		b.WriteString("</pre>")
	}
	return b.String()
}

// FormatPriceChart renders a text bar chart of each symbol's latest price,
// scaled against the largest one.
func FormatPriceChart(summaries []ledger.Summary) string {
	if len(summaries) == 0 {
		return ""
	}
	max := summaries[0].Last
	for _, s := range summaries[1:] {
		if s.Last.Cmp(max) > 0 {
			max = s.Last
		}
	}
	if max.IsZero() {
		return ""
	}
	maxF, _ := max.Float64()

	var b strings.Builder
	for _, s := range summaries {
		p, _ := s.Last.Float64()
		barLen := int(p / maxF * 30)
		b.WriteString(fmt.Sprintf("%4s: %s $%s\n", s.Symbol, strings.Repeat("█", barLen), s.Last.StringFixed(2)))
	}
	return b.String()
}

func signedFixed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		return "+" + s
	}
	return s
}
