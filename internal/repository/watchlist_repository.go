package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// GormWatchlistStore implements WatchlistStore backed by Postgres.
type GormWatchlistStore struct {
	db *gorm.DB
}

// NewGormWatchlistStore creates a Postgres watchlist store.
func NewGormWatchlistStore(db *gorm.DB) domrepo.WatchlistStore {
	return &GormWatchlistStore{db: db}
}

// Add inserts the item, keeping the existing row when the user already
// tracks the symbol.
func (s *GormWatchlistStore) Add(ctx context.Context, item *models.WatchlistItem) error {
	item.Symbol = strings.ToUpper(strings.TrimSpace(item.Symbol))
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "symbol"}},
			DoNothing: true,
		}).
		Create(item).Error
	if err != nil {
		return fmt.Errorf("watchlist add: %w", err)
	}
	return nil
}

// Remove deletes the symbol from the user's watchlist.
func (s *GormWatchlistStore) Remove(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Delete(&models.WatchlistItem{}).Error
	if err != nil {
		return fmt.Errorf("watchlist remove: %w", err)
	}
	return nil
}

// List returns the user's watchlist, newest first.
func (s *GormWatchlistStore) List(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	var items []models.WatchlistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("watchlist list: %w", err)
	}
	return items, nil
}

// Symbols returns just the tracked symbols, newest first.
func (s *GormWatchlistStore) Symbols(ctx context.Context, userID string) ([]string, error) {
	var symbols []string
	err := s.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, fmt.Errorf("watchlist symbols: %w", err)
	}
	return symbols, nil
}

// UserIDs returns every user with a non-empty watchlist.
func (s *GormWatchlistStore) UserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("watchlist users: %w", err)
	}
	return ids, nil
}
