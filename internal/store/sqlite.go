package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"condor/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ PositionStore = (*SQLiteStore)(nil)
var _ TradeJournal = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	id           TEXT PRIMARY KEY,
	code         TEXT NOT NULL,
	kind         TEXT NOT NULL,
	expiration   TEXT,
	ownership    TEXT NOT NULL,
	quantity     REAL NOT NULL,
	strike       REAL NOT NULL,
	opt_right    TEXT NOT NULL,
	average_cost REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS trade_journal (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	order_ref  TEXT NOT NULL,
	status     TEXT NOT NULL,
	remaining  REAL NOT NULL,
	commission REAL,
	recorded   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_journal_ref ON trade_journal (order_ref);
`

// SQLiteStore implements PositionStore and TradeJournal backed by a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies
// the schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplacePositions replaces the stored snapshot atomically.
func (s *SQLiteStore) ReplacePositions(ctx context.Context, positions map[string]domain.Position) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM positions`); err != nil {
		return fmt.Errorf("clearing positions: %w", err)
	}
	for id, p := range positions {
		var expiration any
		if p.Expiration != nil {
			expiration = p.Expiration.Format("2006-01-02")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO positions (id, code, kind, expiration, ownership, quantity, strike, opt_right, average_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Code, string(p.Kind), expiration, string(p.Ownership),
			p.Quantity, p.Strike, string(p.Right), p.AverageCost,
		)
		if err != nil {
			return fmt.Errorf("inserting position %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// Positions returns the stored snapshot keyed by position id.
func (s *SQLiteStore) Positions(ctx context.Context) (map[string]domain.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, kind, expiration, ownership, quantity, strike, opt_right, average_cost
		FROM positions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make(map[string]domain.Position)
	for rows.Next() {
		var (
			id, code, kind, ownership, right string
			expiration                       sql.NullString
			p                                domain.Position
		)
		err := rows.Scan(&id, &code, &kind, &expiration, &ownership,
			&p.Quantity, &p.Strike, &right, &p.AverageCost)
		if err != nil {
			return nil, err
		}
		p.Code = code
		p.Kind = domain.AssetKind(kind)
		p.Ownership = domain.Ownership(ownership)
		p.Right = domain.Right(right)
		if expiration.Valid {
			t, err := time.Parse("2006-01-02", expiration.String)
			if err != nil {
				return nil, fmt.Errorf("position %s: bad expiration %q: %w", id, expiration.String, err)
			}
			p.Expiration = &t
		}
		positions[id] = p
	}
	return positions, rows.Err()
}

// RecordTrade appends one order-status update to the journal.
func (s *SQLiteStore) RecordTrade(ctx context.Context, trade domain.Trade) error {
	var commission any
	if trade.Commission != nil {
		commission = *trade.Commission
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trade_journal (order_ref, status, remaining, commission, recorded)
		VALUES (?, ?, ?, ?, ?)`,
		trade.OrderRef, string(trade.Status), trade.Remaining, commission,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording trade %s: %w", trade.OrderRef, err)
	}
	return nil
}

// TradesByRef returns the journal entries for one order reference in
// recording order.
func (s *SQLiteStore) TradesByRef(ctx context.Context, orderRef string) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, remaining, commission
		FROM trade_journal WHERE order_ref = ? ORDER BY seq`, orderRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var (
			status     string
			commission sql.NullFloat64
			t          domain.Trade
		)
		if err := rows.Scan(&status, &t.Remaining, &commission); err != nil {
			return nil, err
		}
		t.OrderRef = orderRef
		t.Status = domain.OrderStatus(status)
		if commission.Valid {
			c := commission.Float64
			t.Commission = &c
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
