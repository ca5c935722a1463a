package repository

import (
	"context"

	"github.com/justinloyola/alma/internal/model"
)

// UserRepository defines data access for admin accounts.
type UserRepository interface {
	// Create inserts a new user with an already-hashed password.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByEmail returns a user by email, or sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Count returns the total number of users, used for first-run admin
	// bootstrap.
	Count(ctx context.Context) (int, error)
}
