package usecase

import (
	"context"
	"strings"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
)

// AlertsUsecase manages the lifecycle of price alerts.
type AlertsUsecase struct {
	store  drepo.AlertStore
	market drepo.MarketData
}

// NewAlertsUsecase creates an AlertsUsecase.
func NewAlertsUsecase(store drepo.AlertStore, market drepo.MarketData) *AlertsUsecase {
	return &AlertsUsecase{store: store, market: market}
}

// Create registers a new alert. The company name is resolved from the
// provider profile when the caller left it empty.
func (u *AlertsUsecase) Create(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	alert.Symbol = strings.ToUpper(strings.TrimSpace(alert.Symbol))

	if alert.Company == "" {
		if profile, err := u.market.CompanyProfile(ctx, alert.Symbol); err == nil && profile != nil {
			alert.Company = profile.Name
		}
	}

	if err := u.store.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// List returns the user's alerts, optionally filtered by symbol.
func (u *AlertsUsecase) List(ctx context.Context, userID, symbol string) ([]models.Alert, error) {
	return u.store.List(ctx, userID, symbol)
}

// Delete removes the user's alert.
func (u *AlertsUsecase) Delete(ctx context.Context, userID, id string) error {
	return u.store.Delete(ctx, userID, id)
}

// SetActive arms or disarms the alert.
func (u *AlertsUsecase) SetActive(ctx context.Context, userID, id string, active bool) error {
	return u.store.SetActive(ctx, userID, id, active)
}
