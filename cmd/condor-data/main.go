package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"condor/internal/config"
	"condor/internal/history"
	"condor/internal/store"
	"condor/internal/util"
)

func main() {
	cfgPath := "config/condor.yaml"
	if p := os.Getenv("CONDOR_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	util.SetDefault(util.NewLogger(cfg.Logging.Level))

	pstore := store.NewParquetStore(cfg.Storage.DataDir)

	gatherer := history.NewBenchmarkGatherer(history.Config{
		APIKey:    cfg.Alpaca.APIKey,
		APISecret: cfg.Alpaca.APISecret,
		BaseURL:   cfg.Alpaca.DataURL,
		Years:     cfg.Trading.HistoricalYears,
	}, pstore)

	symbols := []string{cfg.Trading.Benchmark}
	for _, entry := range cfg.Trading.Watchlist {
		if entry.Code != cfg.Trading.Benchmark && entry.Kind != "index" {
			symbols = append(symbols, entry.Code)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("backfilling daily history for %d symbols\n", len(symbols))
	if err := gatherer.Run(ctx, symbols); err != nil {
		log.Fatalf("backfill error: %v", err)
	}
}
