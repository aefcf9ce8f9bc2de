package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
)

// ErrUserNotFound is returned when a user id is unknown.
var ErrUserNotFound = errors.New("user not found")

// GormUserDirectory implements UserDirectory backed by Postgres.
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a Postgres user directory.
func NewGormUserDirectory(db *gorm.DB) domrepo.UserDirectory {
	return &GormUserDirectory{db: db}
}

// Register inserts the user, updating name and email on re-registration.
func (s *GormUserDirectory) Register(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "name"}),
		}).
		Create(user).Error
	if err != nil {
		return fmt.Errorf("user register: %w", err)
	}
	return nil
}

// Get returns the user by id.
func (s *GormUserDirectory) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	return &user, nil
}
