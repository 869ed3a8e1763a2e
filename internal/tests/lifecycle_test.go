package tests

import (
	"context"
	"strings"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/geo"
	"ridehail/internal/service"
)

type lifecycleFixture struct {
	userRepo        *MockUserRepository
	rideRepo        *MockRideRepository
	historyRepo     *MockHistoryRepository
	availabilitySet *MockAvailabilitySet
	gateway         *MockGateway
	notifier        *MockNotifier
	rideService     *service.RideService
}

func newLifecycleFixture() *lifecycleFixture {
	userRepo := NewMockUserRepository()
	rideRepo := NewMockRideRepository()
	historyRepo := NewMockHistoryRepository()
	availabilitySet := NewMockAvailabilitySet()
	gateway := NewMockGateway()
	notifier := NewMockNotifier()

	estimator := geo.NewEstimator()
	pricing := service.NewPricingService(estimator, nil, 1.0)
	history := service.NewHistoryService(historyRepo)

	rideService := service.NewRideService(rideRepo, userRepo, pricing, estimator,
		nil, availabilitySet, gateway, service.NewReceiptService(), history, notifier)

	return &lifecycleFixture{
		userRepo:        userRepo,
		rideRepo:        rideRepo,
		historyRepo:     historyRepo,
		availabilitySet: availabilitySet,
		gateway:         gateway,
		notifier:        notifier,
		rideService:     rideService,
	}
}

func (f *lifecycleFixture) addPassenger() *domain.Passenger {
	passenger := &domain.Passenger{
		ID:    "passenger-1",
		Name:  "Alice",
		Email: "alice@example.com",
	}
	f.userRepo.AddAccount(passenger)
	return passenger
}

func (f *lifecycleFixture) addDriver(available bool) *domain.Driver {
	driver := availableDriver("driver-1", "UberX", "Rua Azul 1", 4.2)
	driver.Available = available
	f.userRepo.AddAccount(driver)
	return driver
}

func (f *lifecycleFixture) acceptedRide(t *testing.T) *domain.Ride {
	t.Helper()
	f.addPassenger()
	f.addDriver(true)

	ride, err := f.rideService.Create(context.Background(), service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
		PaymentMethod:  "CARD",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}

	ride, err = f.rideService.Accept(context.Background(), ride.ID, "driver-1")
	if err != nil {
		t.Fatalf("accept ride failed: %v", err)
	}
	return ride
}

func TestCreateRide_Validation(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	f.addPassenger()

	cases := []struct {
		name string
		req  service.CreateRideRequest
		want error
	}{
		{"unknown passenger", service.CreateRideRequest{PassengerEmail: "ghost@example.com", Origin: "Rua A", Destination: "Rua B", Category: "UberX"}, service.ErrUserNotFound},
		{"empty origin", service.CreateRideRequest{PassengerEmail: "alice@example.com", Origin: " ", Destination: "Rua B", Category: "UberX"}, service.ErrOriginRequired},
		{"short origin", service.CreateRideRequest{PassengerEmail: "alice@example.com", Origin: "Rua", Destination: "Rua B", Category: "UberX"}, service.ErrAddressTooShort},
		{"same addresses", service.CreateRideRequest{PassengerEmail: "alice@example.com", Origin: "Rua A", Destination: "RUA A", Category: "UberX"}, service.ErrSameOriginDestination},
		{"missing category", service.CreateRideRequest{PassengerEmail: "alice@example.com", Origin: "Rua A", Destination: "Rua B"}, service.ErrCategoryRequired},
		{"bad payment method", service.CreateRideRequest{PassengerEmail: "alice@example.com", Origin: "Rua A", Destination: "Rua B", Category: "UberX", PaymentMethod: "GOLD"}, service.ErrInvalidPaymentMethod},
	}

	for _, tc := range cases {
		_, err := f.rideService.Create(ctx, tc.req)
		if err == nil || !strings.Contains(err.Error(), tc.want.Error()) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if f.rideRepo.CountRides() != 0 {
		t.Errorf("no ride should be stored on validation failure, got %d", f.rideRepo.CountRides())
	}
}

func TestCreateRide_StaysRequestedWithoutDispatcher(t *testing.T) {
	f := newLifecycleFixture()
	f.addPassenger()

	ride, err := f.rideService.Create(context.Background(), service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}

	if ride.Status != domain.RideStatusRequested {
		t.Errorf("expected REQUESTED, got %s", ride.Status)
	}
	if ride.PaymentMethod != domain.PaymentMethodCash {
		t.Errorf("expected CASH default, got %s", ride.PaymentMethod)
	}
	if f.notifier.RequestedCount != 1 {
		t.Errorf("expected 1 request notification, got %d", f.notifier.RequestedCount)
	}
}

func TestCreateRide_DriverCannotRequest(t *testing.T) {
	f := newLifecycleFixture()
	f.addDriver(true)

	_, err := f.rideService.Create(context.Background(), service.CreateRideRequest{
		PassengerEmail: "driver-1@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
	})
	if err != service.ErrNotAPassenger {
		t.Errorf("expected ErrNotAPassenger, got %v", err)
	}
}

func TestAcceptRide_Guards(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	f.addPassenger()
	driver := f.addDriver(false)

	ride, err := f.rideService.Create(ctx, service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}

	if _, err := f.rideService.Accept(ctx, ride.ID, driver.ID); err != service.ErrDriverNotAvailable {
		t.Errorf("expected ErrDriverNotAvailable, got %v", err)
	}

	// Category mismatch.
	other := availableDriver("driver-2", "Uber Black", "Rua Roxa 9", 4.8)
	f.userRepo.AddAccount(other)
	if _, err := f.rideService.Accept(ctx, ride.ID, other.ID); err != service.ErrCategoryMismatch {
		t.Errorf("expected ErrCategoryMismatch, got %v", err)
	}

	// Passenger accepting.
	if _, err := f.rideService.Accept(ctx, ride.ID, "passenger-1"); err != service.ErrNotADriver {
		t.Errorf("expected ErrNotADriver, got %v", err)
	}
}

func TestAcceptRide_BindsDriver(t *testing.T) {
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	if ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", ride.Status)
	}
	if ride.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %q", ride.DriverID)
	}
	if f.userRepo.GetDriver("driver-1").Available {
		t.Error("driver should be unavailable after accepting")
	}

	// A second accept on the same ride must fail.
	second := availableDriver("driver-2", "UberX", "Rua Roxa 9", 4.8)
	f.userRepo.AddAccount(second)
	if _, err := f.rideService.Accept(context.Background(), ride.ID, second.ID); err != service.ErrRideNotAvailable {
		t.Errorf("expected ErrRideNotAvailable, got %v", err)
	}
}

func TestUpdateDriverLocation_StartsRideAndComputesRoute(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	updated, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 500")
	if err != nil {
		t.Fatalf("location update failed: %v", err)
	}

	if updated.Status != domain.RideStatusInProgress {
		t.Errorf("expected IN_PROGRESS after first movement, got %s", updated.Status)
	}
	if updated.DriverCurrentLocation == nil || updated.DriverCurrentLocation.Address != "Avenida Brasil 500" {
		t.Errorf("driver location not stored: %+v", updated.DriverCurrentLocation)
	}
	if updated.EstimatedEtaMinutes < 10 || updated.EstimatedEtaMinutes > 120 {
		t.Errorf("eta out of bounds: %d", updated.EstimatedEtaMinutes)
	}
	if len(updated.OptimizedRoute) != 5 {
		t.Fatalf("expected a 5 step route, got %d", len(updated.OptimizedRoute))
	}
	if !strings.Contains(updated.OptimizedRoute[0], "Avenida Brasil 500") {
		t.Errorf("route should start at the driver location: %q", updated.OptimizedRoute[0])
	}
	if !strings.Contains(updated.OptimizedRoute[4], ride.Destination.Address) {
		t.Errorf("route should end at the destination: %q", updated.OptimizedRoute[4])
	}
	if f.notifier.StartedCount != 1 {
		t.Errorf("expected 1 start notification, got %d", f.notifier.StartedCount)
	}

	// A later update keeps the ride IN_PROGRESS.
	again, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 900")
	if err != nil {
		t.Fatalf("second location update failed: %v", err)
	}
	if again.Status != domain.RideStatusInProgress {
		t.Errorf("expected IN_PROGRESS to persist, got %s", again.Status)
	}
	if f.notifier.StartedCount != 1 {
		t.Errorf("start notification should fire once, got %d", f.notifier.StartedCount)
	}
}

func TestUpdateDriverLocation_Guards(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	if _, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "abc"); err != service.ErrAddressTooShort {
		t.Errorf("expected ErrAddressTooShort, got %v", err)
	}
	if _, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-9", "Avenida Brasil 500"); err != service.ErrDriverNotAssigned {
		t.Errorf("expected ErrDriverNotAssigned, got %v", err)
	}

	// Terminal rides reject updates.
	if _, err := f.rideService.Complete(ctx, ride.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if _, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 500"); err != service.ErrRideNotUpdatable {
		t.Errorf("expected ErrRideNotUpdatable, got %v", err)
	}
}

func TestProcessPayment_OnlyOnAccepted(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	approved, err := f.rideService.ProcessPayment(ctx, ride.ID)
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if !approved {
		t.Error("expected payment approval")
	}
	if f.gateway.ChargeCallCount != 1 {
		t.Errorf("expected 1 charge, got %d", f.gateway.ChargeCallCount)
	}
	// Rua A -> Rua B on UberX prices at 10.12 with factor 1.0.
	if f.gateway.LastAmount != 10.12 {
		t.Errorf("expected charge of 10.12, got %v", f.gateway.LastAmount)
	}

	// Payment leaves the status untouched.
	if stored := f.rideRepo.GetRide(ride.ID); stored.Status != domain.RideStatusAccepted {
		t.Errorf("payment must not change status, got %s", stored.Status)
	}

	// Move the ride forward; payment is no longer allowed.
	if _, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 500"); err != nil {
		t.Fatalf("location update failed: %v", err)
	}
	if _, err := f.rideService.ProcessPayment(ctx, ride.ID); err != service.ErrInvalidRideState {
		t.Errorf("expected ErrInvalidRideState, got %v", err)
	}
}

func TestProcessPayment_DeclinedCharge(t *testing.T) {
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)
	f.gateway.Decline = true

	approved, err := f.rideService.ProcessPayment(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if approved {
		t.Error("expected declined payment")
	}
}

func TestCompleteRide_EmitsReceiptAndReleasesDriver(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	receipt, err := f.rideService.Complete(ctx, ride.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if stored := f.rideRepo.GetRide(ride.ID); stored.Status != domain.RideStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", stored.Status)
	}
	if !f.userRepo.GetDriver("driver-1").Available {
		t.Error("driver should be released on completion")
	}

	if receipt.TotalPrice != 10.12 {
		t.Errorf("expected total 10.12, got %v", receipt.TotalPrice)
	}
	if receipt.PassengerName != "Alice" {
		t.Errorf("expected passenger Alice, got %q", receipt.PassengerName)
	}
	if receipt.PaymentMethodLabel != "Credit Card" {
		t.Errorf("expected Credit Card label, got %q", receipt.PaymentMethodLabel)
	}
	if !strings.Contains(receipt.Content, "Rua A") || !strings.Contains(receipt.Content, "10.12") {
		t.Errorf("receipt content missing route or total:\n%s", receipt.Content)
	}

	if f.historyRepo.CountEntries() != 1 {
		t.Errorf("expected 1 history entry, got %d", f.historyRepo.CountEntries())
	}
	if f.notifier.CompletedCount != 1 {
		t.Errorf("expected 1 completion notification, got %d", f.notifier.CompletedCount)
	}
}

func TestCompleteRide_HistoryFailureDoesNotBlock(t *testing.T) {
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)
	f.historyRepo.AddError = ErrMockTimeout

	if _, err := f.rideService.Complete(context.Background(), ride.ID); err != nil {
		t.Fatalf("completion must survive a history failure, got %v", err)
	}
	if stored := f.rideRepo.GetRide(ride.ID); stored.Status != domain.RideStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", stored.Status)
	}
}

func TestCompleteRide_InvalidStates(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	f.addPassenger()

	ride, err := f.rideService.Create(ctx, service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}

	// REQUESTED cannot complete.
	if _, err := f.rideService.Complete(ctx, ride.ID); err != service.ErrInvalidRideState {
		t.Errorf("expected ErrInvalidRideState for REQUESTED, got %v", err)
	}

	// Terminal states stay terminal.
	if _, err := f.rideService.Cancel(ctx, ride.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := f.rideService.Complete(ctx, ride.ID); err != service.ErrInvalidRideState {
		t.Errorf("expected ErrInvalidRideState for CANCELLED, got %v", err)
	}
}

func TestCancelRide_ReleasesDriver(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	cancelled, err := f.rideService.Cancel(ctx, ride.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if !f.userRepo.GetDriver("driver-1").Available {
		t.Error("driver should be released on cancellation")
	}
	if f.notifier.CancelledCount != 1 {
		t.Errorf("expected 1 cancellation notification, got %d", f.notifier.CancelledCount)
	}
}

func TestCancelRide_NotAfterStart(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	if _, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 500"); err != nil {
		t.Fatalf("location update failed: %v", err)
	}
	if _, err := f.rideService.Cancel(ctx, ride.ID); err != service.ErrRideCannotBeCancelled {
		t.Errorf("expected ErrRideCannotBeCancelled, got %v", err)
	}
}

func TestRefuseRide_LeavesRideRequested(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	f.addPassenger()
	f.addDriver(true)

	ride, err := f.rideService.Create(ctx, service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "UberX",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}

	if err := f.rideService.Refuse(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("refuse failed: %v", err)
	}

	stored := f.rideRepo.GetRide(ride.ID)
	if stored.Status != domain.RideStatusRequested {
		t.Errorf("refusal must not change the status, got %s", stored.Status)
	}

	// The refusing driver can still accept later.
	if _, err := f.rideService.Accept(ctx, ride.ID, "driver-1"); err != nil {
		t.Errorf("refusing driver should still be able to accept: %v", err)
	}
}

func TestPendingForDriver_FiltersByCategory(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	f.addPassenger()
	f.addDriver(true)

	for _, category := range []string{"UberX", "Uber Black", "UberX"} {
		if _, err := f.rideService.Create(ctx, service.CreateRideRequest{
			PassengerEmail: "alice@example.com",
			Origin:         "Rua A",
			Destination:    "Rua B",
			Category:       category,
		}); err != nil {
			t.Fatalf("create ride failed: %v", err)
		}
	}

	pending, err := f.rideService.PendingForDriver(ctx, "driver-1")
	if err != nil {
		t.Fatalf("pending lookup failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending UberX rides, got %d", len(pending))
	}
	for _, r := range pending {
		if r.Category != "UberX" {
			t.Errorf("unexpected category %q in pending list", r.Category)
		}
	}
}

func TestRoute_VisibleToAssignedDriverOnly(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	// No route before the first location update.
	if _, err := f.rideService.Route(ctx, ride.ID, "driver-1"); err != service.ErrMissingData {
		t.Errorf("expected ErrMissingData before any movement, got %v", err)
	}

	if _, err := f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 500"); err != nil {
		t.Fatalf("location update failed: %v", err)
	}

	route, err := f.rideService.Route(ctx, ride.ID, "driver-1")
	if err != nil {
		t.Fatalf("route lookup failed: %v", err)
	}
	if len(route) != 5 {
		t.Errorf("expected 5 route steps, got %d", len(route))
	}

	if _, err := f.rideService.Route(ctx, ride.ID, "driver-9"); err != service.ErrDriverNotAssigned {
		t.Errorf("expected ErrDriverNotAssigned for a stranger, got %v", err)
	}
}

func TestCompleteRide_RestoresAvailabilitySet(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	if f.availabilitySet.Contains("UberX", "driver-1") {
		t.Fatal("assigned driver should not be in the availability set")
	}

	if _, err := f.rideService.Complete(ctx, ride.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	if !f.availabilitySet.Contains("UberX", "driver-1") {
		t.Error("released driver should rejoin the availability set")
	}
}

func TestCancelRide_RestoresAvailabilitySet(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	ride := f.acceptedRide(t)

	if _, err := f.rideService.Cancel(ctx, ride.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if !f.availabilitySet.Contains("UberX", "driver-1") {
		t.Error("released driver should rejoin the availability set")
	}
}

func TestUpdateDriverLocation_UnknownCategoryUsesDefaultSpeed(t *testing.T) {
	ctx := context.Background()
	f := newLifecycleFixture()
	f.addPassenger()
	f.userRepo.AddAccount(availableDriver("driver-1", "Turbo", "Rua Azul 1", 4.0))

	ride, err := f.rideService.Create(ctx, service.CreateRideRequest{
		PassengerEmail: "alice@example.com",
		Origin:         "Rua A",
		Destination:    "Rua B",
		Category:       "Turbo",
	})
	if err != nil {
		t.Fatalf("create ride failed: %v", err)
	}
	if ride, err = f.rideService.Accept(ctx, ride.ID, "driver-1"); err != nil {
		t.Fatalf("accept ride failed: %v", err)
	}

	ride, err = f.rideService.UpdateDriverLocation(ctx, ride.ID, "driver-1", "Avenida Brasil 500")
	if err != nil {
		t.Fatalf("location update with unknown category failed: %v", err)
	}
	if ride.EstimatedEtaMinutes < 10 || ride.EstimatedEtaMinutes > 120 {
		t.Errorf("estimate out of bounds: %d", ride.EstimatedEtaMinutes)
	}
}
