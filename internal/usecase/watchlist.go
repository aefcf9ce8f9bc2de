package usecase

import (
	"context"
	"strings"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
)

// WatchlistUsecase manages per-user watchlists and enriches them with
// market summaries.
type WatchlistUsecase struct {
	store      drepo.WatchlistStore
	market     drepo.MarketData
	aggregator *StockAggregator
}

// NewWatchlistUsecase creates a WatchlistUsecase.
func NewWatchlistUsecase(store drepo.WatchlistStore, market drepo.MarketData, aggregator *StockAggregator) *WatchlistUsecase {
	return &WatchlistUsecase{store: store, market: market, aggregator: aggregator}
}

// Add puts the symbol on the user's watchlist. The company name comes from
// the provider profile when available; a missing profile never blocks the add.
func (u *WatchlistUsecase) Add(ctx context.Context, userID, symbol, company string) (*models.WatchlistItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if company == "" {
		if profile, err := u.market.CompanyProfile(ctx, symbol); err == nil && profile != nil {
			company = profile.Name
		}
	}

	item := &models.WatchlistItem{
		UserID:  userID,
		Symbol:  symbol,
		Company: company,
	}
	if err := u.store.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove drops the symbol from the user's watchlist.
func (u *WatchlistUsecase) Remove(ctx context.Context, userID, symbol string) error {
	return u.store.Remove(ctx, userID, symbol)
}

// List returns the user's watchlist entries, newest first.
func (u *WatchlistUsecase) List(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	return u.store.List(ctx, userID)
}

// Summaries aggregates market data for every symbol on the user's
// watchlist. Symbols the provider cannot quote are omitted.
func (u *WatchlistUsecase) Summaries(ctx context.Context, userID string) ([]models.StockSummary, error) {
	symbols, err := u.store.Symbols(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.aggregator.Aggregate(ctx, symbols), nil
}
