package domain

import "time"

// RideHistory is the append-only record written when a ride is finalized.
// It is indexed by passenger, driver, category and date.
type RideHistory struct {
	ID                 string
	RideID             string
	PassengerEmail     string
	DriverID           string
	DriverName         string
	Category           string
	OriginAddress      string
	DestinationAddress string
	FinalPrice         float64
	PaymentMethodLabel string
	RecordedAt         time.Time
}
