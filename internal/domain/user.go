package domain

import "time"

// AccountRole discriminates the two account variants in storage.
type AccountRole string

const (
	RolePassenger AccountRole = "PASSENGER"
	RoleDriver    AccountRole = "DRIVER"
)

// Account is the capability every registered user exposes to the core.
// Passenger and Driver are distinct structs; role-specific fields such as
// documents and vehicles live only on Driver.
type Account interface {
	AccountID() string
	DisplayName() string
	EmailAddress() string
	Role() AccountRole
	AverageRating() float64
	AddRating(value int)
}

// Passenger represents a rider account.
type Passenger struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	AvgRating   float64
	RatingCount int
	CreatedAt   time.Time
}

func (p *Passenger) AccountID() string     { return p.ID }
func (p *Passenger) DisplayName() string   { return p.Name }
func (p *Passenger) EmailAddress() string  { return p.Email }
func (p *Passenger) Role() AccountRole     { return RolePassenger }
func (p *Passenger) AverageRating() float64 { return p.AvgRating }

// AddRating folds a new rating into the running average. Values outside
// [1,5] are clamped, not rejected.
func (p *Passenger) AddRating(value int) {
	p.AvgRating = foldRating(p.AvgRating, p.RatingCount, value)
	p.RatingCount++
}

// Driver represents a driver account with its vehicle and availability.
type Driver struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	LicenseDoc      string
	VehicleCategory string
	VehiclePlate    string
	CurrentLocation Location
	Available       bool
	AvgRating       float64
	RatingCount     int
	CreatedAt       time.Time
}

func (d *Driver) AccountID() string     { return d.ID }
func (d *Driver) DisplayName() string   { return d.Name }
func (d *Driver) EmailAddress() string  { return d.Email }
func (d *Driver) Role() AccountRole     { return RoleDriver }
func (d *Driver) AverageRating() float64 { return d.AvgRating }

// AddRating folds a new rating into the running average. Values outside
// [1,5] are clamped, not rejected.
func (d *Driver) AddRating(value int) {
	d.AvgRating = foldRating(d.AvgRating, d.RatingCount, value)
	d.RatingCount++
}

func foldRating(avg float64, count, value int) float64 {
	if value < 1 {
		value = 1
	} else if value > 5 {
		value = 5
	}
	return (avg*float64(count) + float64(value)) / float64(count+1)
}
