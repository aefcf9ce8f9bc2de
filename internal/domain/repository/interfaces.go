package repository

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
)

// MarketData is the read-only Finnhub surface the use cases depend on.
// Implementations fail soft: transport errors, non-2xx statuses (including
// provider rate limiting) and undecodable bodies come back as errors that
// callers absorb into "no data".
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	CompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
	CompanyMetrics(ctx context.Context, symbol string) (*models.CompanyMetrics, error)
	RecommendationTrends(ctx context.Context, symbol string) ([]models.RecommendationTrend, error)
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error)
	Search(ctx context.Context, query string) (*models.SearchResult, error)
	HasCredentials() bool
}

// MarketStream delivers live trades for the configured symbols.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
}

// WatchlistStore persists per-user watchlists.
type WatchlistStore interface {
	Add(ctx context.Context, item *models.WatchlistItem) error
	Remove(ctx context.Context, userID, symbol string) error
	List(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	Symbols(ctx context.Context, userID string) ([]string, error)
	UserIDs(ctx context.Context) ([]string, error)
}

// AlertStore persists price alerts.
type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) error
	List(ctx context.Context, userID, symbol string) ([]models.Alert, error)
	ListActive(ctx context.Context) ([]models.Alert, error)
	Delete(ctx context.Context, userID, id string) error
	SetActive(ctx context.Context, userID, id string, active bool) error
	MarkTriggered(ctx context.Context, id string, at time.Time) error
}

// QuoteHistory stores and queries the trade tick history.
type QuoteHistory interface {
	StoreBatch(ctx context.Context, trades []*models.Trade) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Trade, error)
	Health(ctx context.Context) error
}

// AlertEvents publishes fired alerts for downstream consumers.
type AlertEvents interface {
	Publish(ctx context.Context, ev *models.AlertEvent) error
	Close() error
}

// UserDirectory resolves user accounts for notification delivery.
type UserDirectory interface {
	Register(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
}

// Mailer sends user-facing notification emails.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordFetch(endpoint, outcome string)
	RecordSymbolSkipped(reason string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordAlertTriggered(alertType string)
}
