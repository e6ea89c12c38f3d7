// Package ledger provides append-only persistence of executed trades.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradecost/internal/models"
)

// SQLiteLedger implements the trade ledger on SQLite. Records are inserted
// once and never updated or deleted; the primary key serializes duplicate
// appends of the same trade id.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (or creates) a ledger database at dbPath.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	l := &SQLiteLedger{db: db}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return l, nil
}

func (l *SQLiteLedger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		trade_id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		trade_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		base_price REAL NOT NULL,
		execution_price REAL NOT NULL,
		gross_profit TEXT NOT NULL,
		total_charges TEXT NOT NULL,
		net_profit TEXT NOT NULL,
		charges_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append inserts one trade record. It fails on a duplicate trade id rather
// than overwrite: the ledger is append-only.
func (l *SQLiteLedger) Append(ctx context.Context, record *models.TradeRecord) error {
	if record.Analysis == nil {
		return fmt.Errorf("trade record %s has no analysis", record.TradeID)
	}

	chargesJSON, err := json.Marshal(record.Analysis.Charges)
	if err != nil {
		return fmt.Errorf("marshaling charge breakdown: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO trades (
			trade_id, timestamp, symbol, trade_type, quantity,
			base_price, execution_price, gross_profit, total_charges,
			net_profit, charges_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TradeID,
		record.Timestamp,
		record.Symbol,
		string(record.Type),
		record.Quantity,
		record.BasePrice,
		record.ExecutionPrice,
		record.Analysis.GrossProfit.String(),
		record.Analysis.TotalCharges.String(),
		record.Analysis.NetProfit.String(),
		string(chargesJSON),
	)
	if err != nil {
		return fmt.Errorf("appending trade %s: %w", record.TradeID, err)
	}
	return nil
}

// Filter restricts a ledger query.
type Filter struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// Entry is a persisted trade row. Money fields are the exact decimal strings
// written at append time.
type Entry struct {
	TradeID        string
	Timestamp      time.Time
	Symbol         string
	Type           models.TradeType
	Quantity       int
	BasePrice      float64
	ExecutionPrice float64
	GrossProfit    string
	TotalCharges   string
	NetProfit      string
	Charges        models.Breakdown
}

// Trades queries the ledger. Results come back newest first.
func (l *SQLiteLedger) Trades(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `SELECT trade_id, timestamp, symbol, trade_type, quantity,
		base_price, execution_price, gross_profit, total_charges,
		net_profit, charges_json FROM trades WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var tradeType, chargesJSON string
		if err := rows.Scan(
			&e.TradeID, &e.Timestamp, &e.Symbol, &tradeType, &e.Quantity,
			&e.BasePrice, &e.ExecutionPrice, &e.GrossProfit, &e.TotalCharges,
			&e.NetProfit, &chargesJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning trade row: %w", err)
		}
		e.Type = models.TradeType(tradeType)
		if err := json.Unmarshal([]byte(chargesJSON), &e.Charges); err != nil {
			return nil, fmt.Errorf("unmarshaling charges for %s: %w", e.TradeID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}
