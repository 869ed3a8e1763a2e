package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RideRepository implements repository.RideRepository using PostgreSQL.
type RideRepository struct {
	db Querier
}

// NewRideRepository creates a new RideRepository.
func NewRideRepository(db Querier) *RideRepository {
	return &RideRepository{db: db}
}

const rideColumns = `id, passenger_id, passenger_email, origin_address, origin_description,
	destination_address, destination_description, category, status, requested_at,
	payment_method, driver_id, driver_current_address, estimated_eta_minutes,
	optimized_route, passenger_has_rated, driver_has_rated`

// Add persists a new ride.
func (r *RideRepository) Add(ctx context.Context, ride *domain.Ride) error {
	query := `INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.PassengerID, ride.PassengerEmail,
		ride.Origin.Address, ride.Origin.Description,
		ride.Destination.Address, ride.Destination.Description,
		ride.Category, ride.Status, ride.RequestedAt,
		ride.PaymentMethod, nullableID(ride.DriverID), driverAddress(ride),
		ride.EstimatedEtaMinutes, pq.StringArray(ride.OptimizedRoute),
		ride.PassengerHasRated, ride.DriverHasRated)
	return err
}

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `UPDATE rides SET status = $2, payment_method = $3, driver_id = $4,
		driver_current_address = $5, estimated_eta_minutes = $6, optimized_route = $7,
		passenger_has_rated = $8, driver_has_rated = $9 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		ride.ID, ride.Status, ride.PaymentMethod, nullableID(ride.DriverID),
		driverAddress(ride), ride.EstimatedEtaMinutes, pq.StringArray(ride.OptimizedRoute),
		ride.PassengerHasRated, ride.DriverHasRated)
	return checkAffected(res, err)
}

// FindByID retrieves a ride by ID.
func (r *RideRepository) FindByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return scanRide(r.db.QueryRowContext(ctx, query, id))
}

// FindByStatus retrieves all rides with the given status, oldest first so
// dispatch serves requests in arrival order.
func (r *RideRepository) FindByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = $1 ORDER BY requested_at ASC`
	return r.queryRides(ctx, query, status)
}

// FindByPassengerEmail retrieves all rides requested by a passenger, newest first.
func (r *RideRepository) FindByPassengerEmail(ctx context.Context, email string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE passenger_email = $1 ORDER BY requested_at DESC`
	return r.queryRides(ctx, query, email)
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var (
		ride          domain.Ride
		originDesc    sql.NullString
		destDesc      sql.NullString
		driverID      sql.NullString
		driverAddress sql.NullString
		route         pq.StringArray
	)

	err := row.Scan(&ride.ID, &ride.PassengerID, &ride.PassengerEmail,
		&ride.Origin.Address, &originDesc,
		&ride.Destination.Address, &destDesc,
		&ride.Category, &ride.Status, &ride.RequestedAt,
		&ride.PaymentMethod, &driverID, &driverAddress,
		&ride.EstimatedEtaMinutes, &route,
		&ride.PassengerHasRated, &ride.DriverHasRated)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ride.Origin.Description = originDesc.String
	ride.Destination.Description = destDesc.String
	ride.DriverID = driverID.String
	if driverAddress.Valid {
		location := domain.NewLocation(driverAddress.String)
		ride.DriverCurrentLocation = &location
	}
	ride.OptimizedRoute = []string(route)

	return &ride, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func driverAddress(ride *domain.Ride) any {
	if ride.DriverCurrentLocation == nil {
		return nil
	}
	return ride.DriverCurrentLocation.Address
}
