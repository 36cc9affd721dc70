// Package store persists the platform's durable state: bar history as
// Parquet archives and the position snapshot plus order journal in SQLite.
package store

import (
	"context"
	"time"

	"condor/internal/domain"
)

// Series names the two bar archives kept per symbol.
const (
	SeriesPrice = "price"
	SeriesIV    = "iv"
)

// BarStore persists and retrieves daily bar series.
type BarStore interface {
	// WriteBars merges a batch of bars into the archive for one symbol and
	// series. Bars already present for a timestamp are replaced.
	WriteBars(ctx context.Context, symbol, series string, bars []domain.Bar) error

	// ReadBars returns the archived bars for the symbol and series within
	// [start, end], in chronological order.
	ReadBars(ctx context.Context, symbol, series string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all symbols with archived data for the series.
	ListSymbols(ctx context.Context, series string) ([]string, error)
}

// PositionStore keeps the latest broker position snapshot.
type PositionStore interface {
	// ReplacePositions replaces the stored snapshot with the given one.
	ReplacePositions(ctx context.Context, positions map[string]domain.Position) error

	// Positions returns the stored snapshot keyed by position id.
	Positions(ctx context.Context) (map[string]domain.Position, error)
}

// TradeJournal records every order-status update for audit.
type TradeJournal interface {
	// RecordTrade appends one order-status update to the journal.
	RecordTrade(ctx context.Context, trade domain.Trade) error

	// TradesByRef returns the journal entries for one order reference in
	// recording order.
	TradesByRef(ctx context.Context, orderRef string) ([]domain.Trade, error)
}
