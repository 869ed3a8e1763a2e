package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/geo"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

const minAddressLength = 5

// CreateRideRequest carries the input for a new ride request.
type CreateRideRequest struct {
	PassengerEmail string
	Origin         string
	Destination    string
	Category       string
	PaymentMethod  string
}

// RideService owns the ride lifecycle: request, assignment, progress,
// payment, completion and cancellation. Status transitions are monotonic;
// once a ride is COMPLETED or CANCELLED nothing moves it again.
type RideService struct {
	rideRepo   repository.RideRepository
	userRepo   repository.UserRepository
	pricing    *PricingService
	estimator  *geo.Estimator
	dispatcher DispatchServiceInterface
	cacheStore redis.AvailabilitySetInterface
	gateway    PaymentGateway
	receipts   *ReceiptService
	history    HistoryRecorder
	notifier   Notifier
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	pricing *PricingService,
	estimator *geo.Estimator,
	dispatcher DispatchServiceInterface,
	cacheStore redis.AvailabilitySetInterface,
	gateway PaymentGateway,
	receipts *ReceiptService,
	history HistoryRecorder,
	notifier Notifier,
) *RideService {
	return &RideService{
		rideRepo:   rideRepo,
		userRepo:   userRepo,
		pricing:    pricing,
		estimator:  estimator,
		dispatcher: dispatcher,
		cacheStore: cacheStore,
		gateway:    gateway,
		receipts:   receipts,
		history:    history,
		notifier:   notifier,
	}
}

// Create validates and stores a new ride request, then tries to dispatch a
// driver. Dispatch failure is not a request failure: the ride stays
// REQUESTED and waits for a driver to accept it.
func (s *RideService) Create(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	passenger, err := s.findPassenger(ctx, req.PassengerEmail)
	if err != nil {
		return nil, err
	}

	origin, err := validateAddress(req.Origin, ErrOriginRequired)
	if err != nil {
		return nil, err
	}
	destination, err := validateAddress(req.Destination, ErrDestinationRequired)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(origin, destination) {
		return nil, ErrSameOriginDestination
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if _, err := s.pricing.TariffFor(category); err != nil {
		// Kept as a warning: pricing falls back to the cheapest tariff
		// when it cannot match the category at completion time.
		log.Printf("ride request with unknown category %q from %s", category, passenger.Email)
	}

	method, err := parsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		PassengerID:    passenger.ID,
		PassengerEmail: passenger.Email,
		Origin:         domain.NewLocation(origin),
		Destination:    domain.NewLocation(destination),
		Category:       category,
		Status:         domain.RideStatusRequested,
		RequestedAt:    time.Now().UTC(),
		PaymentMethod:  method,
	}

	if err := s.rideRepo.Add(ctx, ride); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.RideRequested(ctx, ride)
	}

	if s.dispatcher != nil {
		if _, err := s.dispatcher.Assign(ctx, ride); err != nil {
			log.Printf("dispatch for ride %s failed: %v", ride.ID, err)
		}
	}

	return ride, nil
}

// Accept binds a specific driver to a REQUESTED ride. This is the manual
// path; automatic dispatch goes through the dispatcher.
func (s *RideService) Accept(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusRequested {
		return nil, ErrRideNotAvailable
	}

	driver, err := s.findDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.Available {
		return nil, ErrDriverNotAvailable
	}
	if !strings.EqualFold(driver.VehicleCategory, ride.Category) {
		return nil, ErrCategoryMismatch
	}

	location := driver.CurrentLocation
	ride.DriverID = driver.ID
	ride.DriverCurrentLocation = &location
	ride.Status = domain.RideStatusAccepted
	driver.Available = false

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, driver); err != nil {
		return nil, err
	}
	if s.cacheStore != nil {
		_ = s.cacheStore.RemoveAvailableDriver(ctx, driver.VehicleCategory, driver.ID)
	}

	if s.notifier != nil {
		s.notifier.DriverAssigned(ctx, ride, driver)
	}
	return ride, nil
}

// Refuse records that a driver declined a pending ride. The ride is left
// untouched for the next candidate.
func (s *RideService) Refuse(ctx context.Context, rideID, driverID string) error {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.Status != domain.RideStatusRequested {
		return ErrRideNotAvailable
	}

	driver, err := s.findDriver(ctx, driverID)
	if err != nil {
		return err
	}

	log.Printf("driver %s refused ride %s", driver.ID, ride.ID)
	return nil
}

// PendingForDriver returns the REQUESTED rides a driver could take, filtered
// by the driver's vehicle category.
func (s *RideService) PendingForDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	driver, err := s.findDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	rides, err := s.rideRepo.FindByStatus(ctx, domain.RideStatusRequested)
	if err != nil {
		return nil, err
	}

	var pending []*domain.Ride
	for _, ride := range rides {
		if strings.EqualFold(ride.Category, driver.VehicleCategory) {
			pending = append(pending, ride)
		}
	}
	return pending, nil
}

// UpdateDriverLocation moves the assigned driver, recomputes the arrival
// estimate and route, and starts the ride on its first movement after
// acceptance.
func (s *RideService) UpdateDriverLocation(ctx context.Context, rideID, driverID, address string) (*domain.Ride, error) {
	address, err := validateAddress(address, ErrAddressRequired)
	if err != nil {
		return nil, err
	}

	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status.Terminal() {
		return nil, ErrRideNotUpdatable
	}
	if ride.DriverID == "" || ride.DriverID != driverID {
		return nil, ErrDriverNotAssigned
	}

	location := domain.NewLocation(address)
	ride.DriverCurrentLocation = &location

	if err := s.refreshEstimate(ride); err != nil {
		return nil, err
	}
	s.refreshRoute(ride)

	if ride.Status == domain.RideStatusAccepted {
		ride.Status = domain.RideStatusInProgress
		if s.notifier != nil {
			s.notifier.RideStarted(ctx, ride)
		}
	}

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

// refreshEstimate recomputes the minutes to destination from the driver's
// current position, at the category's average speed.
func (s *RideService) refreshEstimate(ride *domain.Ride) error {
	if ride.DriverCurrentLocation == nil || ride.Destination.Address == "" || ride.Category == "" {
		return ErrMissingData
	}

	speed, err := s.pricing.SpeedForCategory(ride.Category)
	if err != nil {
		log.Printf("ride %s has unknown category %q, estimating at %.0f km/h",
			ride.ID, ride.Category, geo.DefaultSpeedKmH)
		speed = geo.DefaultSpeedKmH
	}

	distance := s.estimator.DistanceKm(ride.DriverCurrentLocation.Address, ride.Destination.Address)
	ride.EstimatedEtaMinutes = s.estimator.TravelTimeMinutes(distance, speed)
	return nil
}

// refreshRoute rebuilds the fixed five-step route description.
func (s *RideService) refreshRoute(ride *domain.Ride) {
	if ride.DriverCurrentLocation == nil {
		return
	}
	ride.OptimizedRoute = []string{
		"Depart from " + ride.DriverCurrentLocation.Address,
		"Continue straight for 2km.",
		"Wait at the traffic light on Central Street.",
		"Turn right onto Main Street.",
		"You have arrived at your destination: " + ride.Destination.Address,
	}
}

// Route returns the optimized route for a ride, visible to the assigned
// driver once a location update produced one.
func (s *RideService) Route(ctx context.Context, rideID, driverID string) ([]string, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID == "" || ride.DriverID != driverID {
		return nil, ErrDriverNotAssigned
	}
	if len(ride.OptimizedRoute) == 0 {
		return nil, ErrMissingData
	}
	return ride.OptimizedRoute, nil
}

// ProcessPayment charges the passenger for an ACCEPTED ride. The ride status
// is left untouched; payment approval and ride progress are independent.
func (s *RideService) ProcessPayment(ctx context.Context, rideID string) (bool, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return false, err
	}
	if ride.Status != domain.RideStatusAccepted {
		return false, ErrInvalidRideState
	}

	quote, err := s.resolveQuote(ctx, ride)
	if err != nil {
		return false, err
	}

	approved, err := s.gateway.Charge(ctx, ride.PassengerEmail, quote.TotalPrice, string(ride.PaymentMethod))
	if err != nil {
		return false, err
	}

	if s.notifier != nil {
		s.notifier.PaymentProcessed(ctx, ride, quote.TotalPrice, approved)
	}
	return approved, nil
}

// Complete finalizes a ride, renders its receipt, frees the driver and
// records the trip in the history. A ride completes from ACCEPTED or
// IN_PROGRESS only.
func (s *RideService) Complete(ctx context.Context, rideID string) (*domain.Receipt, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusAccepted && ride.Status != domain.RideStatusInProgress {
		return nil, ErrInvalidRideState
	}

	passenger, err := s.findPassenger(ctx, ride.PassengerEmail)
	if err != nil {
		return nil, err
	}

	var driver *domain.Driver
	if ride.DriverID != "" {
		driver, err = s.findDriver(ctx, ride.DriverID)
		if err != nil {
			return nil, err
		}
	}

	quote, err := s.resolveQuote(ctx, ride)
	if err != nil {
		return nil, err
	}

	ride.Status = domain.RideStatusCompleted
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if driver != nil {
		if err := s.releaseDriver(ctx, driver); err != nil {
			return nil, err
		}
	}

	receipt := s.receipts.Build(ride, passenger, driver, quote.TotalPrice)

	// History is best effort: a missed record never blocks completion.
	if s.history != nil {
		driverName := ""
		if driver != nil {
			driverName = driver.Name
		}
		if err := s.history.Record(ctx, ride, driverName, quote.TotalPrice); err != nil {
			log.Printf("history record for ride %s failed: %v", ride.ID, err)
		}
	}

	if s.notifier != nil {
		s.notifier.RideCompleted(ctx, ride)
	}
	return receipt, nil
}

// Cancel aborts a ride that has not started yet. An assigned driver is
// released back to the pool.
func (s *RideService) Cancel(ctx context.Context, rideID string) (*domain.Ride, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusRequested && ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideCannotBeCancelled
	}

	if ride.DriverID != "" {
		driver, err := s.findDriver(ctx, ride.DriverID)
		if err == nil {
			if err := s.releaseDriver(ctx, driver); err != nil {
				return nil, err
			}
		}
	}

	ride.Status = domain.RideStatusCancelled
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.RideCancelled(ctx, ride)
	}
	return ride, nil
}

// Get returns a ride by ID.
func (s *RideService) Get(ctx context.Context, rideID string) (*domain.Ride, error) {
	return s.findRide(ctx, rideID)
}

// ForPassenger returns all rides requested by a passenger.
func (s *RideService) ForPassenger(ctx context.Context, email string) ([]*domain.Ride, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return s.rideRepo.FindByPassengerEmail(ctx, email)
}

// ByStatus returns all rides currently in a status.
func (s *RideService) ByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	return s.rideRepo.FindByStatus(ctx, status)
}

// resolveQuote prices the ride's own category, falling back to the cheapest
// available tariff when the category is unknown.
func (s *RideService) resolveQuote(ctx context.Context, ride *domain.Ride) (*domain.PricingQuote, error) {
	quote, err := s.pricing.Quote(ride.Origin.Address, ride.Destination.Address, ride.Category)
	if err == nil {
		return quote, nil
	}
	if err != ErrUnknownCategory {
		return nil, err
	}

	quotes, err := s.pricing.QuoteAll(ctx, ride.Origin.Address, ride.Destination.Address)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrUnknownCategory
	}

	log.Printf("ride %s has unknown category %q, falling back to %q pricing",
		ride.ID, ride.Category, quotes[0].Category)
	return quotes[0], nil
}

// releaseDriver returns a driver to the pool and restores the availability
// set the assignment removed it from.
func (s *RideService) releaseDriver(ctx context.Context, driver *domain.Driver) error {
	driver.Available = true
	if err := s.userRepo.Update(ctx, driver); err != nil {
		return err
	}
	if s.cacheStore != nil {
		if err := s.cacheStore.AddAvailableDriver(ctx, driver.VehicleCategory, driver.ID); err != nil {
			log.Printf("availability set re-add for driver %s failed: %v", driver.ID, err)
		}
	}
	return nil
}

func (s *RideService) findRide(ctx context.Context, rideID string) (*domain.Ride, error) {
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
	return ride, nil
}

func (s *RideService) findPassenger(ctx context.Context, email string) (*domain.Passenger, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	passenger, ok := account.(*domain.Passenger)
	if !ok {
		return nil, ErrNotAPassenger
	}
	return passenger, nil
}

func (s *RideService) findDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
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

func validateAddress(address string, emptyErr error) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", emptyErr
	}
	if len(address) < minAddressLength {
		return "", ErrAddressTooShort
	}
	return address, nil
}

func parsePaymentMethod(raw string) (domain.PaymentMethod, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return domain.PaymentMethodCash, nil
	}
	method := domain.PaymentMethod(raw)
	switch method {
	case domain.PaymentMethodCash, domain.PaymentMethodCard, domain.PaymentMethodPix, domain.PaymentMethodWallet:
		return method, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, raw)
	}
}
