package domain

import "time"

// Receipt is the rendered record of a completed ride. Content holds the
// plain-text body handed to the passenger; storage of the file is not the
// core's concern.
type Receipt struct {
	ID                 string
	RideID             string
	PassengerName      string
	PassengerEmail     string
	DriverName         string
	DriverEmail        string
	PaymentMethodLabel string
	TotalPrice         float64
	Content            string
	CreatedAt          time.Time
}
