package models

import "time"

// WatchlistItem is one tracked symbol on a user's watchlist.
// A user holds at most one entry per symbol.
type WatchlistItem struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  string    `json:"userId" gorm:"index:idx_watchlist_user_symbol,unique;size:64"`
	Symbol  string    `json:"symbol" gorm:"index:idx_watchlist_user_symbol,unique;size:16"`
	Company string    `json:"company" gorm:"size:128"`
	AddedAt time.Time `json:"addedAt"`
}

// TableName keeps gorm's table naming explicit.
func (WatchlistItem) TableName() string { return "watchlist_items" }
