package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/geo"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

const (
	driverLockTTL = 10 * time.Second
	rideLockTTL   = 30 * time.Second // lock ride during matching
)

// DispatchServiceInterface defines the dispatch contract.
// This interface allows for testing with mock implementations.
type DispatchServiceInterface interface {
	Assign(ctx context.Context, ride *domain.Ride) (*domain.Driver, error)
}

// DispatchService binds available drivers to ride requests. Premium
// categories compete on service quality (rating) before proximity; the other
// categories optimize purely for wait time.
type DispatchService struct {
	userRepo   repository.UserRepository
	rideRepo   repository.RideRepository
	pricing    *PricingService
	estimator  *geo.Estimator
	lockStore  redis.LockStoreInterface
	cacheStore redis.AvailabilitySetInterface // optional, drives candidate discovery
	notifier   Notifier
}

// Ensure DispatchService implements DispatchServiceInterface.
var _ DispatchServiceInterface = (*DispatchService)(nil)

// NewDispatchService creates a new DispatchService.
func NewDispatchService(
	userRepo repository.UserRepository,
	rideRepo repository.RideRepository,
	pricing *PricingService,
	estimator *geo.Estimator,
	lockStore redis.LockStoreInterface,
	cacheStore redis.AvailabilitySetInterface,
	notifier Notifier,
) *DispatchService {
	return &DispatchService{
		userRepo:   userRepo,
		rideRepo:   rideRepo,
		pricing:    pricing,
		estimator:  estimator,
		lockStore:  lockStore,
		cacheStore: cacheStore,
		notifier:   notifier,
	}
}

// Assign selects a driver for the ride and binds it. Finding no driver is a
// valid outcome: the ride stays REQUESTED and (nil, nil) is returned.
func (s *DispatchService) Assign(ctx context.Context, ride *domain.Ride) (*domain.Driver, error) {
	if strings.TrimSpace(ride.Category) == "" {
		return nil, ErrCategoryRequired
	}

	// Serialize matching per ride.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRideLock(ctx, ride.ID, rideLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			// Another dispatch attempt is handling this ride.
			return nil, ErrRideNotAvailable
		}
		defer func() { _ = s.lockStore.ReleaseRideLock(ctx, ride.ID) }()
	}

	if ride.Status != domain.RideStatusRequested {
		return nil, ErrRideNotAvailable
	}

	candidates, err := s.eligibleDrivers(ctx, ride.Category)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	s.rank(candidates, ride)

	for _, candidate := range candidates {
		if s.lockStore != nil {
			locked, err := s.lockStore.AcquireDriverLock(ctx, candidate.ID, driverLockTTL)
			if err != nil {
				return nil, err
			}
			if !locked {
				// Driver is being assigned to another ride.
				continue
			}
		}

		// Re-verify availability under the lock; the ranked snapshot can be stale.
		account, err := s.userRepo.FindByID(ctx, candidate.ID)
		if err != nil {
			s.releaseDriverLock(ctx, candidate.ID)
			if err == repository.ErrNotFound {
				continue
			}
			return nil, err
		}

		driver, ok := account.(*domain.Driver)
		if !ok || !driver.Available {
			s.releaseDriverLock(ctx, candidate.ID)
			continue
		}

		if err := s.bind(ctx, ride, driver); err != nil {
			s.releaseDriverLock(ctx, candidate.ID)
			return nil, err
		}

		// Success: the driver lock expires via TTL.
		return driver, nil
	}

	return nil, nil
}

// eligibleDrivers returns available drivers whose vehicle category matches,
// compared case-insensitively. Discovery starts from the category's redis
// availability set and falls back to a repository scan when the set cannot
// be read.
func (s *DispatchService) eligibleDrivers(ctx context.Context, category string) ([]*domain.Driver, error) {
	if s.cacheStore != nil {
		ids, err := s.cacheStore.AvailableDrivers(ctx, category)
		if err == nil {
			return s.driversByID(ctx, ids, category)
		}
		log.Printf("availability set read for category %q failed, scanning repository: %v", category, err)
	}

	accounts, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var drivers []*domain.Driver
	for _, account := range accounts {
		driver, ok := account.(*domain.Driver)
		if !ok {
			continue
		}
		if eligible(driver, category) {
			drivers = append(drivers, driver)
		}
	}
	return drivers, nil
}

// driversByID loads set members from the repository, dropping entries the
// set has gone stale on.
func (s *DispatchService) driversByID(ctx context.Context, ids []string, category string) ([]*domain.Driver, error) {
	var drivers []*domain.Driver
	for _, id := range ids {
		account, err := s.userRepo.FindByID(ctx, id)
		if err == repository.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		driver, ok := account.(*domain.Driver)
		if !ok {
			continue
		}
		if eligible(driver, category) {
			drivers = append(drivers, driver)
		}
	}
	return drivers, nil
}

func eligible(driver *domain.Driver, category string) bool {
	return driver.Available && strings.EqualFold(driver.VehicleCategory, category)
}

// rank orders candidates by the category's dispatch policy: premium
// categories by rating descending with distance to the origin as tie-break,
// everything else by distance ascending.
func (s *DispatchService) rank(drivers []*domain.Driver, ride *domain.Ride) {
	distances := make(map[string]float64, len(drivers))
	for _, d := range drivers {
		distances[d.ID] = s.estimator.DistanceKm(d.CurrentLocation.Address, ride.Origin.Address)
	}

	premium := s.pricing.IsPremium(ride.Category)

	sort.SliceStable(drivers, func(i, j int) bool {
		if premium && drivers[i].AvgRating != drivers[j].AvgRating {
			return drivers[i].AvgRating > drivers[j].AvgRating
		}
		return distances[drivers[i].ID] < distances[drivers[j].ID]
	})
}

// bind performs the assignment as one logical step: ride fields, status and
// the driver's availability change together or not at all.
func (s *DispatchService) bind(ctx context.Context, ride *domain.Ride, driver *domain.Driver) error {
	location := driver.CurrentLocation
	ride.DriverID = driver.ID
	ride.DriverCurrentLocation = &location
	ride.Status = domain.RideStatusAccepted
	driver.Available = false

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		ride.DriverID = ""
		ride.DriverCurrentLocation = nil
		ride.Status = domain.RideStatusRequested
		driver.Available = true
		return err
	}

	if err := s.userRepo.Update(ctx, driver); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.RemoveAvailableDriver(ctx, driver.VehicleCategory, driver.ID)
	}

	if s.notifier != nil {
		s.notifier.DriverAssigned(ctx, ride, driver)
	}

	return nil
}

func (s *DispatchService) releaseDriverLock(ctx context.Context, driverID string) {
	if s.lockStore != nil {
		_ = s.lockStore.ReleaseDriverLock(ctx, driverID)
	}
}
