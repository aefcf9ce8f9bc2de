package usecase

import (
	"context"
	"fmt"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	xlogger "MarketLens/pkg/logger"
)

// UsersUsecase handles account registration and welcome delivery.
type UsersUsecase struct {
	users  drepo.UserDirectory
	mailer drepo.Mailer
	log    *xlogger.Logger
}

// NewUsersUsecase creates a UsersUsecase.
func NewUsersUsecase(users drepo.UserDirectory, mailer drepo.Mailer, log *xlogger.Logger) *UsersUsecase {
	return &UsersUsecase{users: users, mailer: mailer, log: log}
}

// Register stores the account and sends a welcome email. Email failure is
// logged, never surfaced: the account is already registered.
func (u *UsersUsecase) Register(ctx context.Context, user *models.User) error {
	if err := u.users.Register(ctx, user); err != nil {
		return err
	}

	if user.Email == "" {
		return nil
	}
	if err := u.mailer.Send(ctx, user.Email, "Welcome to MarketLens", welcomeHTML(user.Name)); err != nil {
		u.log.Warn("welcome email failed",
			xlogger.String("user_id", user.ID),
			xlogger.Error(err))
	}
	return nil
}

// Get returns the account by id.
func (u *UsersUsecase) Get(ctx context.Context, id string) (*models.User, error) {
	return u.users.Get(ctx, id)
}

func welcomeHTML(name string) string {
	greeting := "Welcome"
	if name != "" {
		greeting = "Welcome, " + name
	}
	return fmt.Sprintf(
		`<h2>%s!</h2><p>Your MarketLens account is ready. Add symbols to your watchlist and set price alerts to get started.</p>`,
		greeting,
	)
}
