package repository

import (
	"context"

	"ridehail/internal/domain"
)

// UserRepository defines the persistence operations for accounts. Both
// passenger and driver variants are stored behind the same interface; the
// implementation reconstructs the concrete type from its role.
type UserRepository interface {
	// Create adds a new account.
	Create(ctx context.Context, account domain.Account) error

	// FindByEmail retrieves an account by email.
	FindByEmail(ctx context.Context, email string) (domain.Account, error)

	// FindByID retrieves an account by ID.
	FindByID(ctx context.Context, id string) (domain.Account, error)

	// FindAll retrieves all accounts.
	FindAll(ctx context.Context) ([]domain.Account, error)

	// Update persists fields the core mutated, such as driver availability
	// and aggregate ratings.
	Update(ctx context.Context, account domain.Account) error
}
