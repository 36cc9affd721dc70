package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"condor/internal/broker"
	"condor/internal/config"
	"condor/internal/domain"
	"condor/internal/ibkr"
	"condor/internal/marketdata"
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

	// The live gateway transport plugs in here; paper mode runs against the
	// in-memory session.
	if !cfg.Trading.PaperMode {
		log.Fatal("live trading transport not configured, set trading.paper_mode: true")
	}
	session := ibkr.NewSimSession()

	journal, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer journal.Close()

	exec := broker.New(session, broker.Config{
		Host:     cfg.Broker.Host,
		Port:     cfg.Broker.Port,
		ClientID: cfg.Broker.ClientID,
	})
	if err := exec.Connect(); err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer exec.Disconnect()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	exec.OnOrderStatus(func(tr domain.Trade) {
		if err := journal.RecordTrade(ctx, tr); err != nil {
			log.Printf("journal write failed: %v", err)
		}
	})

	data := marketdata.New(session, marketdata.Config{
		Currency:        cfg.Trading.Currency,
		HistoricalYears: cfg.Trading.HistoricalYears,
		BatchLimit:      cfg.Trading.BatchLimit,
		BatchPace:       cfg.Trading.BatchPace.Std(),
		StrikeWindow:    cfg.Trading.StrikeWindow,
	})

	account, err := data.AccountValues()
	if err != nil {
		log.Fatalf("failed to read account: %v", err)
	}
	if account.NetLiquidation != nil {
		fmt.Printf("net liquidation: %.2f %s\n", *account.NetLiquidation, cfg.Trading.Currency)
	}

	positions, err := data.Positions()
	if err != nil {
		log.Fatalf("failed to read positions: %v", err)
	}
	if err := journal.ReplacePositions(ctx, positions); err != nil {
		log.Fatalf("failed to snapshot positions: %v", err)
	}

	watchlist := make([]domain.AssetDefinition, 0, len(cfg.Trading.Watchlist))
	for _, entry := range cfg.Trading.Watchlist {
		watchlist = append(watchlist, domain.AssetDefinition{
			Code:     entry.Code,
			Kind:     domain.AssetKind(entry.Kind),
			Exchange: entry.Exchange,
		})
	}
	assets, err := data.CreateAssets(watchlist)
	if err != nil {
		log.Fatalf("failed to qualify watchlist: %v", err)
	}
	if _, err := data.UpdateAssets(assets); err != nil {
		log.Fatalf("failed to refresh quotes: %v", err)
	}

	expirations := util.MonthlyExpirations(time.Now(), 1)
	fmt.Printf("condor-trader ready: %d positions, %d watched assets, next expiration %s\n",
		len(positions), len(assets), expirations[0].Format("2006-01-02"))

	<-ctx.Done()
}
