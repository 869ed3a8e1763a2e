package repository

import (
	"context"

	"ridehail/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Add persists a new ride.
	Add(ctx context.Context, ride *domain.Ride) error

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// FindByID retrieves a ride by ID.
	FindByID(ctx context.Context, id string) (*domain.Ride, error)

	// FindByStatus retrieves all rides with the given status.
	FindByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error)

	// FindByPassengerEmail retrieves all rides requested by a passenger.
	FindByPassengerEmail(ctx context.Context, email string) ([]*domain.Ride, error)
}
