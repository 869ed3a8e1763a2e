package service

import (
	"context"
	"strings"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RatingService applies mutual ratings after a ride completes. Each side
// rates the other at most once per ride, and only once the ride reached
// COMPLETED.
type RatingService struct {
	userRepo repository.UserRepository
	rideRepo repository.RideRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(userRepo repository.UserRepository, rideRepo repository.RideRepository) *RatingService {
	return &RatingService{userRepo: userRepo, rideRepo: rideRepo}
}

// RateDriver records the passenger's rating of the assigned driver.
func (s *RatingService) RateDriver(ctx context.Context, rideID string, value int) error {
	ride, err := s.completedRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.PassengerHasRated {
		return ErrAlreadyRated
	}
	if ride.DriverID == "" {
		return ErrDriverNotAssigned
	}

	account, err := s.userRepo.FindByID(ctx, ride.DriverID)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}
	driver, ok := account.(*domain.Driver)
	if !ok {
		return ErrNotADriver
	}

	driver.AddRating(value)
	if err := s.userRepo.Update(ctx, driver); err != nil {
		return err
	}

	ride.PassengerHasRated = true
	return s.rideRepo.Update(ctx, ride)
}

// RatePassenger records the driver's rating of the passenger.
func (s *RatingService) RatePassenger(ctx context.Context, rideID string, value int) error {
	ride, err := s.completedRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.DriverHasRated {
		return ErrAlreadyRated
	}

	account, err := s.userRepo.FindByEmail(ctx, ride.PassengerEmail)
	if err != nil {
		if err == repository.ErrNotFound {
			return ErrUserNotFound
		}
		return err
	}
	passenger, ok := account.(*domain.Passenger)
	if !ok {
		return ErrNotAPassenger
	}

	passenger.AddRating(value)
	if err := s.userRepo.Update(ctx, passenger); err != nil {
		return err
	}

	ride.DriverHasRated = true
	return s.rideRepo.Update(ctx, ride)
}

func (s *RatingService) completedRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if strings.TrimSpace(rideID) == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.FindByID(ctx, rideID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrInvalidRideState
	}
	return ride, nil
}
