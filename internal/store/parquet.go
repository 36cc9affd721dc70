package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"condor/internal/domain"
)

// Compile-time interface check.
var _ BarStore = (*ParquetStore)(nil)

// ParquetStore implements BarStore using Parquet files on disk, one file
// per symbol, series, and year.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// BarRecord is the on-disk Parquet schema for one daily bar.
type BarRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Average   float64 `parquet:"average"`
	Volume    float64 `parquet:"volume"`
	Count     int64   `parquet:"count"`
}

// WriteBars merges bars into the per-year archive files for the symbol and
// series. Incoming bars replace archived bars with the same timestamp.
//
// Layout: <DataDir>/<series>/<SYMBOL>/<YYYY>.parquet
func (s *ParquetStore) WriteBars(_ context.Context, symbol, series string, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	groups := make(map[int][]BarRecord)
	for _, b := range bars {
		groups[b.Time.Year()] = append(groups[b.Time.Year()], BarRecord{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Average:   b.Average,
			Volume:    b.Volume,
			Count:     int64(b.Count),
		})
	}

	for year, records := range groups {
		path := s.barPath(symbol, series, year)

		// Merge with whatever is already archived for the year.
		existing, _ := readParquetFile[BarRecord](path)
		merged := mergeBarRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing %s bars for %s/%d: %w", series, symbol, year, err)
		}
	}
	return nil
}

// ReadBars reads archived bars for the symbol and series within [start, end].
func (s *ParquetStore) ReadBars(_ context.Context, symbol, series string, start, end time.Time) ([]domain.Bar, error) {
	var bars []domain.Bar
	for year := start.Year(); year <= end.Year(); year++ {
		records, err := readParquetFile[BarRecord](s.barPath(symbol, series, year))
		if err != nil {
			// No archive for this year.
			continue
		}
		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(start) || ts.After(end) {
				continue
			}
			bars = append(bars, domain.Bar{
				Time:    ts,
				Open:    r.Open,
				High:    r.High,
				Low:     r.Low,
				Close:   r.Close,
				Average: r.Average,
				Volume:  r.Volume,
				Count:   int(r.Count),
			})
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// ListSymbols lists all symbols with archived data for the series.
func (s *ParquetStore) ListSymbols(_ context.Context, series string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.DataDir, series))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var symbols []string
	for _, e := range entries {
		if e.IsDir() {
			symbols = append(symbols, e.Name())
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// barPath returns the archive path for one symbol, series, and year.
func (s *ParquetStore) barPath(symbol, series string, year int) string {
	return filepath.Join(s.DataDir, series, strings.ToUpper(symbol), fmt.Sprintf("%d.parquet", year))
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	return parquet.ReadFile[T](path)
}

// mergeBarRecords deduplicates by timestamp, preferring incoming records,
// and returns the result in chronological order.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	seen := make(map[int64]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}

	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
