package repository

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// HistoryRepository defines the persistence operations for the append-only
// ride history index.
type HistoryRepository interface {
	// Add appends a new history entry.
	Add(ctx context.Context, entry *domain.RideHistory) error

	// FindByPassengerEmail retrieves entries for a passenger.
	FindByPassengerEmail(ctx context.Context, email string) ([]*domain.RideHistory, error)

	// FindByDriverID retrieves entries for a driver.
	FindByDriverID(ctx context.Context, driverID string) ([]*domain.RideHistory, error)

	// FindByCategory retrieves entries for a vehicle category.
	FindByCategory(ctx context.Context, category string) ([]*domain.RideHistory, error)

	// FindByPassengerAndCategory retrieves entries for a passenger within one category.
	FindByPassengerAndCategory(ctx context.Context, email, category string) ([]*domain.RideHistory, error)

	// FindByDateRange retrieves entries recorded within [from, to].
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.RideHistory, error)

	// CountByCategory returns the number of entries per category.
	CountByCategory(ctx context.Context) (map[string]int64, error)
}
