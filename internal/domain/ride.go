package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "REQUESTED"
	RideStatusAccepted   RideStatus = "ACCEPTED"
	RideStatusInProgress RideStatus = "IN_PROGRESS"
	RideStatusCompleted  RideStatus = "COMPLETED"
	RideStatusCancelled  RideStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are allowed from the status.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// PaymentMethod represents the payment method for a ride.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodPix    PaymentMethod = "PIX"
	PaymentMethodWallet PaymentMethod = "WALLET"
)

// Label returns the human-readable name used on receipts and history entries.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodCard:
		return "Credit Card"
	case PaymentMethodPix:
		return "PIX"
	case PaymentMethodWallet:
		return "Wallet"
	default:
		return "Not informed"
	}
}

// Ride represents a ride request in the system. The lifecycle service is the
// only writer of Status, DriverID, DriverCurrentLocation, EstimatedEtaMinutes,
// OptimizedRoute and the rating flags.
type Ride struct {
	ID             string
	PassengerID    string
	PassengerEmail string
	Origin         Location
	Destination    Location
	Category       string
	Status         RideStatus
	RequestedAt    time.Time
	PaymentMethod  PaymentMethod

	// Set by dispatch and by driver location updates.
	DriverID              string
	DriverCurrentLocation *Location
	EstimatedEtaMinutes   int
	OptimizedRoute        []string

	// Rating gates: each role rates at most once per ride.
	PassengerHasRated bool
	DriverHasRated    bool
}
