package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	xlogger "MarketLens/pkg/logger"
)

const (
	recorderBatchSize     = 500
	recorderFlushInterval = 2 * time.Second
)

// TradeRecorder drains the live trade stream into the tick history store.
// Writes happen in batches, flushed on size or on a timer. Stream failures
// trigger reconnects until the context is cancelled.
type TradeRecorder struct {
	stream  drepo.MarketStream
	history drepo.QuoteHistory
	log     *xlogger.Logger
	metrics drepo.Metrics
}

// NewTradeRecorder creates a TradeRecorder.
func NewTradeRecorder(stream drepo.MarketStream, history drepo.QuoteHistory, log *xlogger.Logger, metrics drepo.Metrics) *TradeRecorder {
	return &TradeRecorder{stream: stream, history: history, log: log, metrics: metrics}
}

// Run connects the stream and pumps trades until ctx is cancelled.
func (r *TradeRecorder) Run(ctx context.Context) error {
	if err := r.stream.Connect(ctx); err != nil {
		return err
	}
	if err := r.stream.Subscribe(ctx); err != nil {
		return err
	}

	for {
		if err := r.pump(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.Warn("trade stream interrupted, reconnecting", xlogger.Error(err))
			if err := r.stream.Reconnect(ctx); err != nil {
				r.log.Error("trade stream reconnect failed", xlogger.Error(err))
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(5 * time.Second):
				}
			}
			continue
		}
		return nil
	}
}

// pump reads one stream session, batching trades into the history store.
// Returns nil only on context cancellation.
func (r *TradeRecorder) pump(ctx context.Context) error {
	trades, errs := r.stream.Read(ctx)

	batch := make([]*models.Trade, 0, recorderBatchSize)
	ticker := time.NewTicker(recorderFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.history.StoreBatch(ctx, batch); err != nil {
			r.log.Error("tick batch store failed",
				xlogger.Int("size", len(batch)),
				xlogger.Error(err))
		}
		batch = batch[:0]
	}
	defer flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return err
		case t, ok := <-trades:
			if !ok {
				return nil
			}
			batch = append(batch, t)
			if r.metrics != nil {
				r.metrics.RecordLastPrice(t.Symbol, t.Price)
			}
			if len(batch) >= recorderBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
