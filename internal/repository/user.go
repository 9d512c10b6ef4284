package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/veermshah/congruency/internal/model"
)

// UserRepository defines data access for user accounts using SQL queries only.
// No business logic here — strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored user
	// (may include values set by the DB).
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID returns a user by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindByEmail returns a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
