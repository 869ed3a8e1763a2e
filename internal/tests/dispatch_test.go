package tests

import (
	"context"
	"testing"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/geo"
	"ridehail/internal/service"
)

func newDispatchService(userRepo *MockUserRepository, rideRepo *MockRideRepository, lockStore *MockLockStore, notifier *MockNotifier) *service.DispatchService {
	estimator := geo.NewEstimator()
	pricing := service.NewPricingService(estimator, nil, 1.0)
	var n service.Notifier
	if notifier != nil {
		n = notifier
	}
	return service.NewDispatchService(userRepo, rideRepo, pricing, estimator, lockStore, nil, n)
}

func requestedRide(id, category string) *domain.Ride {
	return &domain.Ride{
		ID:             id,
		PassengerID:    "passenger-1",
		PassengerEmail: "rider@example.com",
		Origin:         domain.NewLocation("Rua das Flores 10"),
		Destination:    domain.NewLocation("Avenida Paulista 900"),
		Category:       category,
		Status:         domain.RideStatusRequested,
		RequestedAt:    time.Now(),
	}
}

func availableDriver(id, category, address string, rating float64) *domain.Driver {
	return &domain.Driver{
		ID:              id,
		Name:            "Driver " + id,
		Email:           id + "@example.com",
		VehicleCategory: category,
		CurrentLocation: domain.NewLocation(address),
		Available:       true,
		AvgRating:       rating,
		RatingCount:     10,
	}
}

func TestAssign_NoDriverAvailable(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	// Only a driver of another category exists.
	userRepo.AddAccount(availableDriver("driver-1", "Uber Black", "Rua Azul 1", 4.5))

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver != nil {
		t.Fatalf("expected no driver, got %s", driver.ID)
	}
	if ride.Status != domain.RideStatusRequested {
		t.Errorf("ride should stay REQUESTED, got %s", ride.Status)
	}
	if ride.DriverID != "" {
		t.Errorf("ride should have no driver, got %q", ride.DriverID)
	}
}

func TestAssign_SingleDriverAccepts(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()
	notifier := NewMockNotifier()

	userRepo.AddAccount(availableDriver("driver-1", "UberX", "Rua Azul 1", 4.0))

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, notifier)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != "driver-1" {
		t.Fatalf("expected driver-1, got %+v", driver)
	}

	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", ride.Status)
	}
	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1 bound, got %q", ride.DriverID)
	}
	if stored := userRepo.GetDriver("driver-1"); stored.Available {
		t.Error("driver should no longer be available")
	}
	if notifier.AssignedCount != 1 {
		t.Errorf("expected 1 assignment notification, got %d", notifier.AssignedCount)
	}
}

func TestAssign_CategoryMatchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	userRepo.AddAccount(availableDriver("driver-1", "uberx", "Rua Azul 1", 4.0))

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil {
		t.Fatal("expected the lowercase-category driver to match")
	}
}

func TestAssign_NonPremiumPicksClosest(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)

	estimator := geo.NewEstimator()
	a := availableDriver("driver-a", "UberX", "Bairro Distante 77", 5.0)
	b := availableDriver("driver-b", "UberX", "Rua Verde 2", 2.0)
	userRepo.AddAccount(a)
	userRepo.AddAccount(b)

	// The winner is whichever driver the estimator places closer to the
	// origin, regardless of rating.
	closest := a.ID
	if estimator.DistanceKm(b.CurrentLocation.Address, ride.Origin.Address) <
		estimator.DistanceKm(a.CurrentLocation.Address, ride.Origin.Address) {
		closest = b.ID
	}

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != closest {
		t.Fatalf("expected the closest driver %s, got %+v", closest, driver)
	}
}

func TestAssign_PremiumPicksBestRated(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	ride := requestedRide("ride-1", "Uber Black")
	rideRepo.AddRide(ride)

	lowRated := availableDriver("driver-low", "Uber Black", "Rua Verde 2", 3.0)
	highRated := availableDriver("driver-high", "Uber Black", "Bairro Distante 77", 4.9)
	userRepo.AddAccount(lowRated)
	userRepo.AddAccount(highRated)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != "driver-high" {
		t.Fatalf("expected the best-rated driver regardless of distance, got %+v", driver)
	}
}

func TestAssign_SkipsLockedDriver(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	ride := requestedRide("ride-1", "Uber Black")
	rideRepo.AddRide(ride)

	best := availableDriver("driver-best", "Uber Black", "Rua Verde 2", 5.0)
	second := availableDriver("driver-second", "Uber Black", "Rua Verde 3", 4.0)
	userRepo.AddAccount(best)
	userRepo.AddAccount(second)

	// Another dispatch already holds the best driver.
	if ok, _ := lockStore.AcquireDriverLock(ctx, "driver-best", time.Minute); !ok {
		t.Fatal("failed to pre-acquire lock")
	}

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != "driver-second" {
		t.Fatalf("expected the unlocked driver, got %+v", driver)
	}
}

func TestAssign_UnavailableDriverNotAssigned(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)

	driver := availableDriver("driver-1", "UberX", "Rua Azul 1", 4.0)
	driver.Available = false
	userRepo.AddAccount(driver)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)

	got, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no assignment for a taken driver, got %s", got.ID)
	}
	if ride.Status != domain.RideStatusRequested {
		t.Errorf("ride should stay REQUESTED, got %s", ride.Status)
	}
}

func TestAssign_PremiumEqualRatingTieBreaksByDistance(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	ride := requestedRide("ride-1", "Uber Black")
	rideRepo.AddRide(ride)

	estimator := geo.NewEstimator()
	a := availableDriver("driver-a", "Uber Black", "Bairro Distante 77", 4.5)
	b := availableDriver("driver-b", "Uber Black", "Rua Verde 2", 4.5)
	userRepo.AddAccount(a)
	userRepo.AddAccount(b)

	closest := a.ID
	if estimator.DistanceKm(b.CurrentLocation.Address, ride.Origin.Address) <
		estimator.DistanceKm(a.CurrentLocation.Address, ride.Origin.Address) {
		closest = b.ID
	}

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != closest {
		t.Fatalf("expected tie to break toward %s, got %+v", closest, driver)
	}
}

func TestAssign_DriverNeverDoubleBooked(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	userRepo.AddAccount(availableDriver("driver-1", "UberX", "Rua Azul 1", 4.0))

	first := requestedRide("ride-1", "UberX")
	second := requestedRide("ride-2", "UberX")
	rideRepo.AddRide(first)
	rideRepo.AddRide(second)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)

	got1, err := dispatch.Assign(ctx, first)
	if err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if got1 == nil {
		t.Fatal("expected the first ride to take the driver")
	}

	// The driver is bound and unavailable; the second ride must not get it.
	got2, err := dispatch.Assign(ctx, second)
	if err != nil {
		t.Fatalf("second assign failed: %v", err)
	}
	if got2 != nil {
		t.Fatalf("driver double-booked onto ride %s", second.ID)
	}
	if second.Status != domain.RideStatusRequested {
		t.Errorf("second ride should stay REQUESTED, got %s", second.Status)
	}
}

func TestAssign_NonRequestedRideRejected(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()

	userRepo.AddAccount(availableDriver("driver-1", "UberX", "Rua Azul 1", 4.0))

	ride := requestedRide("ride-1", "UberX")
	ride.Status = domain.RideStatusCompleted
	rideRepo.AddRide(ride)

	dispatch := newDispatchService(userRepo, rideRepo, lockStore, nil)
	if _, err := dispatch.Assign(ctx, ride); err != service.ErrRideNotAvailable {
		t.Errorf("expected ErrRideNotAvailable, got %v", err)
	}
}

func TestAssign_DiscoversCandidatesFromAvailabilitySet(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()
	availabilitySet := NewMockAvailabilitySet()

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)

	// Both drivers look available in the repository, but only driver-b is in
	// the category set; discovery must follow the set.
	userRepo.AddAccount(availableDriver("driver-a", "UberX", "Rua Verde 2", 4.0))
	userRepo.AddAccount(availableDriver("driver-b", "UberX", "Bairro Distante 77", 4.0))
	if err := availabilitySet.AddAvailableDriver(ctx, "UberX", "driver-b"); err != nil {
		t.Fatalf("seeding set failed: %v", err)
	}

	estimator := geo.NewEstimator()
	pricing := service.NewPricingService(estimator, nil, 1.0)
	dispatch := service.NewDispatchService(userRepo, rideRepo, pricing, estimator, lockStore, availabilitySet, nil)

	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != "driver-b" {
		t.Fatalf("expected the set member driver-b, got %+v", driver)
	}
	if availabilitySet.Contains("UberX", "driver-b") {
		t.Error("assigned driver should leave the availability set")
	}
}

func TestAssign_FallsBackToRepositoryWhenSetUnreadable(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	lockStore := NewMockLockStore()
	availabilitySet := NewMockAvailabilitySet()
	availabilitySet.ReadError = ErrMockTimeout

	ride := requestedRide("ride-1", "UberX")
	rideRepo.AddRide(ride)
	userRepo.AddAccount(availableDriver("driver-1", "UberX", "Rua Azul 1", 4.0))

	estimator := geo.NewEstimator()
	pricing := service.NewPricingService(estimator, nil, 1.0)
	dispatch := service.NewDispatchService(userRepo, rideRepo, pricing, estimator, lockStore, availabilitySet, nil)

	driver, err := dispatch.Assign(ctx, ride)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if driver == nil || driver.ID != "driver-1" {
		t.Fatalf("expected the repository fallback to find driver-1, got %+v", driver)
	}
}

func TestCreateRide_ImmediateAssignment(t *testing.T) {
	ctx := context.Background()
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	historyRepo := NewMockHistoryRepository()
	lockStore := NewMockLockStore()
	notifier := NewMockNotifier()

	userRepo.AddAccount(&domain.Passenger{
		ID:    "passenger-1",
		Name:  "Alice",
		Email: "alice@example.com",
	})
	userRepo.AddAccount(availableDriver("driver-1", "UberX", "Rua Azul 1", 4.0))

	estimator := geo.NewEstimator()
	pricing := service.NewPricingService(estimator, nil, 1.0)
	dispatch := service.NewDispatchService(userRepo, rideRepo, pricing, estimator, lockStore, nil, notifier)
	rideService := service.NewRideService(rideRepo, userRepo, pricing, estimator,
		dispatch, nil, NewMockGateway(), service.NewReceiptService(), service.NewHistoryService(historyRepo), notifier)

	ride, err := rideService.Create(ctx, service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}

	if ride.Status != domain.RideStatusAccepted {
		t.Fatalf("expected immediate ACCEPTED, got %s", ride.Status)
	}
	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1 bound, got %q", ride.DriverID)
	}
	if userRepo.GetDriver("driver-1").Available {
		t.Error("assigned driver should be unavailable")
	}
	if notifier.RequestedCount != 1 || notifier.AssignedCount != 1 {
		t.Errorf("expected request and assignment notifications, got %d/%d",
			notifier.RequestedCount, notifier.AssignedCount)
	}
}
