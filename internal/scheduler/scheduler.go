package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"CoinSentry/internal/collector"
	"CoinSentry/internal/ledger"
	"CoinSentry/internal/model"
	"CoinSentry/internal/notifier"
	"CoinSentry/internal/recorder"
	"CoinSentry/internal/strategy"
)

// flushAttempts bounds how often a failed sink write is retried before the
// run stops. Backoff doubles between attempts.
const flushAttempts = 4

// Scheduler drives the poll-classify-record loop. Ticks are strictly
// sequential: a cycle runs to completion before the next one starts.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Ledger    *ledger.Ledger
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier
	Ctx       context.Context

	Bands      map[string]model.Band
	MaxSamples int // 0 = unbounded

	retryBackoff time.Duration

	runMu     sync.Mutex
	ticks     int
	alerts    []model.AlertEvent
	startedAt time.Time
	finished  bool

	done     chan error
	doneOnce sync.Once
}

// NewScheduler creates a new Scheduler. Notifier may be nil to disable push alerts.
func NewScheduler(ctx context.Context, col *collector.Collector, led *ledger.Ledger,
	rec recorder.Recorder, tn *notifier.TelegramNotifier, bands map[string]model.Band) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Collector:    col,
		Ledger:       led,
		Recorder:     rec,
		Notifier:     tn,
		Ctx:          ctx,
		Bands:        bands,
		retryBackoff: time.Second,
		done:         make(chan error, 1),
	}
}

// Start registers the tick job and fires the first tick immediately; cron
// takes over after the first interval elapses.
func (s *Scheduler) Start(interval time.Duration) error {
	s.startedAt = time.Now()
	if _, err := s.Cron.AddFunc(fmt.Sprintf("@every %s", interval), s.tick); err != nil {
		return fmt.Errorf("register tick: %w", err)
	}
	s.Cron.Start()
	log.Printf("[INFO] scheduler started, polling every %s", interval)
	go s.tick()
	return nil
}

// Stop stops the cron scheduler. In-flight ticks finish normally.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// Done reports the end of a bounded run or a fatal sink failure.
func (s *Scheduler) Done() <-chan error {
	return s.done
}

func (s *Scheduler) tick() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.finished || s.Ctx.Err() != nil {
		return
	}
	s.ticks++
	log.Printf("[INFO] tick %d: sampling %d symbols", s.ticks, len(s.Collector.Symbols))

	res := s.Collector.SampleTick(s.Ctx)
	for _, f := range res.Failed {
		log.Printf("[WARN] fetch %s: %v", f.Symbol, f.Err)
	}

	if len(res.Observations) == 0 {
		// All fetches failed: nothing is appended or written this tick.
		log.Printf("[WARN] tick %d produced no quotes", s.ticks)
	} else {
		s.Ledger.Append(res.Observations...)
		alerts := strategy.Alerts(res.Observations, s.Bands)
		s.alerts = append(s.alerts, alerts...)

		if err := s.flush(alerts); err != nil {
			log.Printf("[ERROR] flush tick %d: %v", s.ticks, err)
			s.finish(fmt.Errorf("flush tick %d: %w", s.ticks, err))
			return
		}
		s.notify(alerts)
	}

	if s.MaxSamples > 0 && s.ticks >= s.MaxSamples {
		log.Printf("[INFO] sample limit %d reached", s.MaxSamples)
		s.finish(nil)
	}
}

// flush writes the ledger entries appended since the last flush, plus this
// tick's alerts, retrying with backoff. Each stage is retried independently:
// once the observation write has landed, a retry repeats only the alert write,
// so a healthy sink never receives duplicate rows. The run cannot continue
// without durable output, so exhausted retries stop it.
func (s *Scheduler) flush(alerts []model.AlertEvent) error {
	pending := s.Ledger.Unflushed()
	var obsDone, alertsDone bool
	var lastErr error
	for attempt := 1; attempt <= flushAttempts; attempt++ {
		if attempt > 1 {
			backoff := s.retryBackoff * time.Duration(1<<uint(attempt-2))
			log.Printf("[WARN] sink write failed (attempt %d/%d): %v, retrying in %v",
				attempt-1, flushAttempts, lastErr, backoff)
			select {
			case <-s.Ctx.Done():
				return s.Ctx.Err()
			case <-time.After(backoff):
			}
		}
		if !obsDone {
			if err := s.Recorder.RecordObservations(pending); err != nil {
				lastErr = fmt.Errorf("record observations: %w", err)
				continue
			}
			obsDone = true
		}
		if !alertsDone {
			if err := s.Recorder.RecordAlerts(alerts); err != nil {
				lastErr = fmt.Errorf("record alerts: %w", err)
				continue
			}
			alertsDone = true
		}
		s.Ledger.MarkFlushed()
		return nil
	}
	return fmt.Errorf("all %d attempts exhausted: %w", flushAttempts, lastErr)
}

func (s *Scheduler) notify(alerts []model.AlertEvent) {
	for _, evt := range alerts {
		log.Printf("[INFO] %s: %s price $%s outside band [$%s, $%s]",
			evt.Classification, evt.Symbol, evt.Price.StringFixed(2),
			evt.Band.Low.StringFixed(2), evt.Band.High.StringFixed(2))
	}
	if s.Notifier == nil || len(alerts) == 0 {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, notifier.FormatAlertBatch(alerts), 3); err != nil {
		log.Printf("[ERROR] send alert notification: %v", err)
	}
}

func (s *Scheduler) finish(err error) {
	s.finished = true
	s.doneOnce.Do(func() {
		s.done <- err
	})
}

// Finalize logs the session summary, pushes it to Telegram when configured,
// and writes the session JSON export. Call after Stop.
func (s *Scheduler) Finalize(sessionJSONPath string) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	finishedAt := time.Now()
	summaries := s.Ledger.Summaries()
	log.Printf("[INFO] session finished: %d ticks, %d records, %d alerts",
		s.ticks, s.Ledger.Len(), len(s.alerts))
	for _, sum := range summaries {
		log.Printf("[INFO] %s: %d samples, range $%s - $%s, avg $%s, %d alerts",
			sum.Symbol, sum.Count, sum.Min.StringFixed(2), sum.Max.StringFixed(2),
			sum.Mean.StringFixed(2), sum.Alerts)
	}

	if s.Notifier != nil && s.Ledger.Len() > 0 {
		summary := notifier.FormatSessionSummary(summaries, s.ticks, s.startedAt, finishedAt)
		if err := s.Notifier.SendWithRetry(s.Ctx, summary, 3); err != nil {
			log.Printf("[ERROR] send session summary: %v", err)
		}
	}

	if sessionJSONPath == "" {
		return nil
	}
	symbols := make([]string, len(s.Collector.Symbols))
	for i, sym := range s.Collector.Symbols {
		symbols[i] = sym.Symbol
	}
	export := recorder.BuildSessionExport(s.Collector.Fetcher.Name(),
		s.startedAt, finishedAt, s.ticks, symbols, s.Ledger, s.alerts)
	if err := recorder.WriteSessionExport(sessionJSONPath, export); err != nil {
		return err
	}
	log.Printf("[INFO] session export written: %s", sessionJSONPath)
	return nil
}
