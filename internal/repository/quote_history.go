package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	pkgch "MarketLens/pkg/clickhouse"
)

// QuoteHistorySchema creates the tick history table (idempotent).
var QuoteHistorySchema = []string{
	`CREATE TABLE IF NOT EXISTS quote_ticks (
		ts      DateTime,
		symbol  LowCardinality(String),
		price   Float64,
		volume  Float64
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts)
	TTL ts + INTERVAL 90 DAY`,
}

// CHQuoteHistory implements QuoteHistory backed by ClickHouse.
type CHQuoteHistory struct {
	client *pkgch.Client
	db     *sql.DB
}

// NewCHQuoteHistory creates a ClickHouse tick history store.
func NewCHQuoteHistory(client *pkgch.Client) domrepo.QuoteHistory {
	return &CHQuoteHistory{client: client, db: client.DB()}
}

// StoreBatch inserts trades in one batch. Empty batches are a no-op.
func (s *CHQuoteHistory) StoreBatch(ctx context.Context, trades []*models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ticks begin: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO quote_ticks (ts, symbol, price, volume) VALUES (?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("ticks prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx, time.Unix(t.Timestamp, 0).UTC(), t.Symbol, t.Price, t.Volume); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("ticks exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ticks commit: %w", err)
	}
	return nil
}

// Query returns up to limit ticks for the symbol in [from, to], newest first.
func (s *CHQuoteHistory) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Trade, error) {
	const q = `
		SELECT ts, symbol, price, volume
		FROM quote_ticks
		WHERE symbol = ? AND ts >= ? AND ts <= ?
		ORDER BY ts DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("ticks query: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Trade, 0, limit)
	for rows.Next() {
		var ts time.Time
		t := &models.Trade{}
		if err := rows.Scan(&ts, &t.Symbol, &t.Price, &t.Volume); err != nil {
			return nil, fmt.Errorf("ticks scan: %w", err)
		}
		t.Timestamp = ts.Unix()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ticks rows: %w", err)
	}
	return out, nil
}

// Health pings the backing store.
func (s *CHQuoteHistory) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}
