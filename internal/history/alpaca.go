// Package history backfills long-range daily bar history from the Alpaca
// market-data API into the local bar archive. The broker session serves
// only the trading lookback; deeper history for the benchmark and the
// watchlist comes from here.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"condor/internal/domain"
	"condor/internal/store"
	"condor/internal/util"
)

// Config carries the Alpaca credentials and fetch parameters.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string

	// Years of history to request per symbol. Zero means one year.
	Years int

	// RateLimitPerMin caps API calls per minute. Zero means 200, the
	// documented free-tier limit.
	RateLimitPerMin int
}

// BenchmarkGatherer fetches daily bars for the benchmark and watchlist
// symbols and merges them into the bar archive.
type BenchmarkGatherer struct {
	client  *marketdata.Client
	store   store.BarStore
	years   int
	limiter *util.RateLimiter
	log     *slog.Logger
}

// NewBenchmarkGatherer creates a gatherer writing into the given bar store.
func NewBenchmarkGatherer(cfg Config, s store.BarStore) *BenchmarkGatherer {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	years := cfg.Years
	if years <= 0 {
		years = 1
	}
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 200
	}
	return &BenchmarkGatherer{
		client:  marketdata.NewClient(opts),
		store:   s,
		years:   years,
		limiter: util.NewRateLimiter(perMin),
		log:     slog.Default().With("component", "history"),
	}
}

// Run fetches daily bars for the given symbols and merges them into the
// price archive. Each symbol is written as soon as its bars arrive, so a
// partial run leaves earlier symbols archived.
func (g *BenchmarkGatherer) Run(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}
	end := time.Now().UTC()
	start := end.AddDate(-g.years, 0, 0)

	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	var multiBars map[string][]marketdata.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var err error
		multiBars, err = g.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("fetching daily bars: %w", err)
	}

	for symbol, alpacaBars := range multiBars {
		bars := make([]domain.Bar, 0, len(alpacaBars))
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Time:    ab.Timestamp,
				Open:    ab.Open,
				High:    ab.High,
				Low:     ab.Low,
				Close:   ab.Close,
				Average: ab.VWAP,
				Volume:  float64(ab.Volume),
				Count:   int(ab.TradeCount),
			})
		}
		if err := g.store.WriteBars(ctx, strings.ToUpper(symbol), store.SeriesPrice, bars); err != nil {
			return fmt.Errorf("archiving bars for %s: %w", symbol, err)
		}
		g.log.Info("history archived", "symbol", symbol, "bars", len(bars))
	}

	for _, symbol := range symbols {
		if _, ok := multiBars[symbol]; !ok {
			g.log.Warn("no history returned", "symbol", symbol)
		}
	}
	return nil
}
