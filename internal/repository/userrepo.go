package repository

import (
	"context"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// UserRepository provides access to back-office accounts.
type UserRepository interface {
	// Create inserts a new user and fills the generated ID.
	// A duplicate username yields errs.ErrUsernameTaken.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by primary key.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername loads a user by unique username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
