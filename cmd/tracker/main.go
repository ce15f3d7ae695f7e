package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"CoinSentry/internal/collector"
	"CoinSentry/internal/config"
	"CoinSentry/internal/ledger"
	"CoinSentry/internal/notifier"
	"CoinSentry/internal/recorder"
	"CoinSentry/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CoinSentry starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("COINSENTRY_CONFIG"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if os.Getenv("COINSENTRY_MOCK") == "true" {
		prices := make(map[string]decimal.Decimal, len(cfg.Symbols))
		for _, s := range cfg.Symbols {
			prices[s.CoinGeckoID] = decimal.NewFromFloat((s.BandLow + s.BandHigh) / 2)
		}
		fetcher = &collector.MockFetcher{Prices: prices}
	} else {
		fetcher = collector.NewCoinGeckoFetcher(cfg.Fetch.BaseURL, cfg.FetchTimeout(), cfg.Proxy)
	}
	log.Printf("[INFO] price source: %s", fetcher.Name())

	// Init collector
	symbols := make([]collector.TrackedSymbol, len(cfg.Symbols))
	for i, s := range cfg.Symbols {
		symbols[i] = collector.TrackedSymbol{Symbol: s.Symbol, SourceID: s.CoinGeckoID, Band: s.Band()}
		log.Printf("[INFO] tracking %s (%s): band [%v, %v]", s.Symbol, s.CoinGeckoID, s.BandLow, s.BandHigh)
	}
	col := collector.NewCollector(fetcher, symbols)

	// Init recorders
	recorders := []recorder.Recorder{
		recorder.NewCSVRecorder(cfg.Output.PricesCSV, cfg.Output.AlertsCSV),
	}
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, continuing with CSV only: %v", err)
		} else {
			recorders = append(recorders, sr)
		}
	}
	rec := recorder.NewMultiRecorder(recorders...)

	// Init Telegram notifier (optional)
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, cfg.TelegramTimeout())
		log.Println("[INFO] Telegram alerts enabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, ledger.New(), rec, tn, cfg.Bands())
	sched.MaxSamples = cfg.Poll.Samples
	if err := sched.Start(cfg.PollInterval()); err != nil {
		log.Fatalf("[FATAL] start scheduler: %v", err)
	}

	log.Println("[INFO] CoinSentry is running. Press Ctrl+C to stop.")

	// Wait for a bounded run to complete, a fatal sink error, or a signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-sched.Done():
		if err != nil {
			log.Printf("[ERROR] run stopped: %v", err)
			exitCode = 1
		}
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	sched.Stop()
	if err := sched.Finalize(cfg.Output.SessionJSON); err != nil {
		log.Printf("[ERROR] finalize session: %v", err)
	}
	cancel()
	if err := rec.Close(); err != nil {
		log.Printf("[ERROR] close recorder: %v", err)
	}
	log.Println("[INFO] CoinSentry stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
