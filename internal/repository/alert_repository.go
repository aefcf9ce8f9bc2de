package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// ErrAlertNotFound is returned when an alert id does not exist for the user.
var ErrAlertNotFound = errors.New("alert not found")

// GormAlertStore implements AlertStore backed by Postgres.
type GormAlertStore struct {
	db *gorm.DB
}

// NewGormAlertStore creates a Postgres alert store.
func NewGormAlertStore(db *gorm.DB) domrepo.AlertStore {
	return &GormAlertStore{db: db}
}

// Create persists a new alert. Any existing active alert for the same
// user and symbol is deactivated first so only one stays live.
func (s *GormAlertStore) Create(ctx context.Context, alert *models.Alert) error {
	alert.Symbol = strings.ToUpper(strings.TrimSpace(alert.Symbol))
	alert.Active = true
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Alert{}).
			Where("user_id = ? AND symbol = ? AND active = ?", alert.UserID, alert.Symbol, true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(alert).Error
	})
	if err != nil {
		return fmt.Errorf("alert create: %w", err)
	}
	return nil
}

// List returns the user's alerts, optionally filtered by symbol, newest first.
func (s *GormAlertStore) List(ctx context.Context, userID, symbol string) ([]models.Alert, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if symbol != "" {
		q = q.Where("symbol = ?", strings.ToUpper(strings.TrimSpace(symbol)))
	}

	var alerts []models.Alert
	if err := q.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("alert list: %w", err)
	}
	return alerts, nil
}

// ListActive returns every active alert across all users.
func (s *GormAlertStore) ListActive(ctx context.Context) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("alert list active: %w", err)
	}
	return alerts, nil
}

// Delete removes the user's alert by id.
func (s *GormAlertStore) Delete(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&models.Alert{})
	if res.Error != nil {
		return fmt.Errorf("alert delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// SetActive toggles the alert on or off.
func (s *GormAlertStore) SetActive(ctx context.Context, userID, id string, active bool) error {
	res := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("alert set active: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// MarkTriggered records the trigger time and deactivates the alert so it
// fires once per arming.
func (s *GormAlertStore) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"triggered_at": at,
			"active":       false,
		}).Error
	if err != nil {
		return fmt.Errorf("alert mark triggered: %w", err)
	}
	return nil
}
