package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"condor/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestParquetWriteReadBars(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())

	bars := []domain.Bar{
		{Time: day(3), Open: 398, High: 401, Low: 397, Close: 400, Average: 399, Volume: 900, Count: 120},
		{Time: day(4), Open: 400, High: 403, Low: 399, Close: 402, Average: 401, Volume: 950, Count: 130},
	}
	if err := s.WriteBars(ctx, "spy", SeriesPrice, bars); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := s.ReadBars(ctx, "spy", SeriesPrice, day(1), day(31))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}
	if !got[0].Time.Equal(day(3)) || got[0].Close != 400 {
		t.Errorf("first bar = %+v", got[0])
	}
	if got[1].Count != 130 {
		t.Errorf("Count = %d, want 130", got[1].Count)
	}
}

func TestParquetMergeReplacesByTimestamp(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())

	if err := s.WriteBars(ctx, "SPY", SeriesPrice, []domain.Bar{
		{Time: day(3), Close: 400},
		{Time: day(4), Close: 402},
	}); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}
	// Rewrite day 4 and extend by day 5.
	if err := s.WriteBars(ctx, "SPY", SeriesPrice, []domain.Bar{
		{Time: day(4), Close: 403},
		{Time: day(5), Close: 405},
	}); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	got, err := s.ReadBars(ctx, "SPY", SeriesPrice, day(1), day(31))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d bars, want 3", len(got))
	}
	if got[1].Close != 403 {
		t.Errorf("day 4 Close = %v, want replaced value 403", got[1].Close)
	}
}

func TestParquetSeriesAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())

	if err := s.WriteBars(ctx, "SPY", SeriesPrice, []domain.Bar{{Time: day(3), Close: 400}}); err != nil {
		t.Fatalf("WriteBars price: %v", err)
	}
	if err := s.WriteBars(ctx, "SPY", SeriesIV, []domain.Bar{{Time: day(3), Close: 0.18}}); err != nil {
		t.Fatalf("WriteBars iv: %v", err)
	}

	iv, err := s.ReadBars(ctx, "SPY", SeriesIV, day(1), day(31))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(iv) != 1 || iv[0].Close != 0.18 {
		t.Errorf("iv bars = %+v, want one bar closing 0.18", iv)
	}
}

func TestParquetListSymbols(t *testing.T) {
	ctx := context.Background()
	s := NewParquetStore(t.TempDir())

	for _, symbol := range []string{"spy", "AAPL"} {
		if err := s.WriteBars(ctx, symbol, SeriesPrice, []domain.Bar{{Time: day(3), Close: 1}}); err != nil {
			t.Fatalf("WriteBars %s: %v", symbol, err)
		}
	}

	symbols, err := s.ListSymbols(ctx, SeriesPrice)
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "SPY" {
		t.Errorf("symbols = %v, want [AAPL SPY]", symbols)
	}

	none, err := s.ListSymbols(ctx, SeriesIV)
	if err != nil {
		t.Fatalf("ListSymbols empty series: %v", err)
	}
	if none != nil {
		t.Errorf("symbols = %v, want nil for empty series", none)
	}
}

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "condor.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLitePositionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	expiration := day(18)
	snapshot := map[string]domain.Position{
		"AAPL|stock|||": {
			Code: "AAPL", Kind: domain.KindStock,
			Ownership: domain.Buyer, Quantity: 100, AverageCost: 150,
		},
		"SPY|option|20260918|400|P": {
			Code: "SPY", Kind: domain.KindOption, Expiration: &expiration,
			Ownership: domain.Seller, Quantity: 2, Strike: 400,
			Right: domain.Put, AverageCost: 105,
		},
	}
	if err := s.ReplacePositions(ctx, snapshot); err != nil {
		t.Fatalf("ReplacePositions: %v", err)
	}

	got, err := s.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d positions, want 2", len(got))
	}

	put := got["SPY|option|20260918|400|P"]
	if put.Ownership != domain.Seller || put.Quantity != 2 || put.Right != domain.Put {
		t.Errorf("put = %+v", put)
	}
	if put.Expiration == nil || !put.Expiration.Equal(expiration) {
		t.Errorf("expiration = %v, want %v", put.Expiration, expiration)
	}
	if got["AAPL|stock|||"].Expiration != nil {
		t.Error("stock position should have nil expiration")
	}
}

func TestSQLiteReplaceDropsStale(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	if err := s.ReplacePositions(ctx, map[string]domain.Position{
		"AAPL|stock|||": {Code: "AAPL", Kind: domain.KindStock, Ownership: domain.Buyer, Quantity: 100},
	}); err != nil {
		t.Fatalf("ReplacePositions: %v", err)
	}
	if err := s.ReplacePositions(ctx, map[string]domain.Position{
		"MSFT|stock|||": {Code: "MSFT", Kind: domain.KindStock, Ownership: domain.Buyer, Quantity: 50},
	}); err != nil {
		t.Fatalf("ReplacePositions: %v", err)
	}

	got, err := s.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d positions, want 1", len(got))
	}
	if _, ok := got["AAPL|stock|||"]; ok {
		t.Error("stale position survived a snapshot replace")
	}
}

func TestSQLiteTradeJournal(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	commission := 2.27
	updates := []domain.Trade{
		{OrderRef: "SPVS-7_PO", Status: domain.StatusSubmitted, Remaining: 1},
		{OrderRef: "SPVS-7_TP", Status: domain.StatusSubmitted, Remaining: 1},
		{OrderRef: "SPVS-7_PO", Status: domain.StatusFilled, Remaining: 0, Commission: &commission},
	}
	for _, tr := range updates {
		if err := s.RecordTrade(ctx, tr); err != nil {
			t.Fatalf("RecordTrade: %v", err)
		}
	}

	got, err := s.TradesByRef(ctx, "SPVS-7_PO")
	if err != nil {
		t.Fatalf("TradesByRef: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d journal entries, want 2", len(got))
	}
	if got[0].Status != domain.StatusSubmitted || got[0].Commission != nil {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Status != domain.StatusFilled || got[1].Commission == nil || *got[1].Commission != 2.27 {
		t.Errorf("second entry = %+v", got[1])
	}
}
