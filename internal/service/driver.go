package service

import (
	"context"
	"strings"

	"ridehail/internal/domain"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

// DriverService manages driver availability and standing location. The
// availability sets and the address hash in Redis are projections of the
// repository state; the repository stays the source of truth.
type DriverService struct {
	userRepo     repository.UserRepository
	addressStore redis.AddressStoreInterface
	cacheStore   redis.AvailabilitySetInterface
}

// NewDriverService creates a new DriverService.
func NewDriverService(userRepo repository.UserRepository, addressStore redis.AddressStoreInterface, cacheStore redis.AvailabilitySetInterface) *DriverService {
	return &DriverService{
		userRepo:     userRepo,
		addressStore: addressStore,
		cacheStore:   cacheStore,
	}
}

// SetAvailability opens or closes a driver for new rides.
func (s *DriverService) SetAvailability(ctx context.Context, driverID string, available bool) (*domain.Driver, error) {
	driver, err := s.findDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	driver.Available = available
	if err := s.userRepo.Update(ctx, driver); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		if available {
			_ = s.cacheStore.AddAvailableDriver(ctx, driver.VehicleCategory, driver.ID)
		} else {
			_ = s.cacheStore.RemoveAvailableDriver(ctx, driver.VehicleCategory, driver.ID)
		}
	}
	return driver, nil
}

// UpdateStandingLocation moves a driver's standing position, used for
// dispatch ranking while the driver has no active ride.
func (s *DriverService) UpdateStandingLocation(ctx context.Context, driverID, address string) (*domain.Driver, error) {
	address, err := validateAddress(address, ErrAddressRequired)
	if err != nil {
		return nil, err
	}

	driver, err := s.findDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	driver.CurrentLocation = domain.NewLocation(address)
	if err := s.userRepo.Update(ctx, driver); err != nil {
		return nil, err
	}

	if s.addressStore != nil {
		_ = s.addressStore.SetAddress(ctx, driver.ID, address)
	}
	return driver, nil
}

// StandingLocation returns a driver's last reported address, preferring the
// fast Redis projection and falling back to the repository.
func (s *DriverService) StandingLocation(ctx context.Context, driverID string) (string, error) {
	if s.addressStore != nil {
		if address, err := s.addressStore.GetAddress(ctx, driverID); err == nil && address != "" {
			return address, nil
		}
	}

	driver, err := s.findDriver(ctx, driverID)
	if err != nil {
		return "", err
	}
	return driver.CurrentLocation.Address, nil
}

func (s *DriverService) findDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if strings.TrimSpace(driverID) == "" {
		return nil, ErrNotADriver
	}
	account, err := s.userRepo.FindByID(ctx, driverID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	driver, ok := account.(*domain.Driver)
	if !ok {
		return nil, ErrNotADriver
	}
	return driver, nil
}
