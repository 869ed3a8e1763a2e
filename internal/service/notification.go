package service

import (
	"context"
	"log"

	"ridehail/internal/domain"
)

// Notifier receives ride lifecycle events. Implementations must not block;
// delivery failures are the implementation's problem, the core never waits
// on a notification.
type Notifier interface {
	RideRequested(ctx context.Context, ride *domain.Ride)
	DriverAssigned(ctx context.Context, ride *domain.Ride, driver *domain.Driver)
	RideStarted(ctx context.Context, ride *domain.Ride)
	RideCompleted(ctx context.Context, ride *domain.Ride)
	RideCancelled(ctx context.Context, ride *domain.Ride)
	PaymentProcessed(ctx context.Context, ride *domain.Ride, amount float64, approved bool)
}

// LogNotifier writes lifecycle events to the process log.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) RideRequested(ctx context.Context, ride *domain.Ride) {
	log.Printf("ride %s requested by %s (%s -> %s, %s)",
		ride.ID, ride.PassengerEmail, ride.Origin.Address, ride.Destination.Address, ride.Category)
}

func (n *LogNotifier) DriverAssigned(ctx context.Context, ride *domain.Ride, driver *domain.Driver) {
	log.Printf("ride %s: driver %s (%s) assigned", ride.ID, driver.Name, driver.ID)
}

func (n *LogNotifier) RideStarted(ctx context.Context, ride *domain.Ride) {
	log.Printf("ride %s started", ride.ID)
}

func (n *LogNotifier) RideCompleted(ctx context.Context, ride *domain.Ride) {
	log.Printf("ride %s completed", ride.ID)
}

func (n *LogNotifier) RideCancelled(ctx context.Context, ride *domain.Ride) {
	log.Printf("ride %s cancelled", ride.ID)
}

func (n *LogNotifier) PaymentProcessed(ctx context.Context, ride *domain.Ride, amount float64, approved bool) {
	log.Printf("ride %s: payment of %.2f via %s approved=%t", ride.ID, amount, ride.PaymentMethod.Label(), approved)
}
