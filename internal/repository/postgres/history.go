package postgres

import (
	"context"
	"database/sql"
	"time"

	"ridehail/internal/domain"
)

// HistoryRepository implements repository.HistoryRepository using PostgreSQL.
type HistoryRepository struct {
	db Querier
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db Querier) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const historyColumns = `id, ride_id, passenger_email, driver_id, driver_name, category,
	origin_address, destination_address, final_price, payment_method_label, recorded_at`

// Add appends a new history entry.
func (r *HistoryRepository) Add(ctx context.Context, entry *domain.RideHistory) error {
	query := `INSERT INTO ride_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.RideID, entry.PassengerEmail, nullableID(entry.DriverID),
		entry.DriverName, entry.Category, entry.OriginAddress, entry.DestinationAddress,
		entry.FinalPrice, entry.PaymentMethodLabel, entry.RecordedAt)
	return err
}

// FindByPassengerEmail retrieves entries for a passenger, newest first.
func (r *HistoryRepository) FindByPassengerEmail(ctx context.Context, email string) ([]*domain.RideHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM ride_history WHERE passenger_email = $1 ORDER BY recorded_at DESC`
	return r.queryHistory(ctx, query, email)
}

// FindByDriverID retrieves entries for a driver, newest first.
func (r *HistoryRepository) FindByDriverID(ctx context.Context, driverID string) ([]*domain.RideHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM ride_history WHERE driver_id = $1 ORDER BY recorded_at DESC`
	return r.queryHistory(ctx, query, driverID)
}

// FindByCategory retrieves entries for a vehicle category, newest first.
func (r *HistoryRepository) FindByCategory(ctx context.Context, category string) ([]*domain.RideHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM ride_history WHERE category = $1 ORDER BY recorded_at DESC`
	return r.queryHistory(ctx, query, category)
}

// FindByPassengerAndCategory retrieves entries for a passenger within one category.
func (r *HistoryRepository) FindByPassengerAndCategory(ctx context.Context, email, category string) ([]*domain.RideHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM ride_history
		WHERE passenger_email = $1 AND category = $2 ORDER BY recorded_at DESC`
	return r.queryHistory(ctx, query, email, category)
}

// FindByDateRange retrieves entries recorded within [from, to].
func (r *HistoryRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.RideHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM ride_history
		WHERE recorded_at >= $1 AND recorded_at <= $2 ORDER BY recorded_at DESC`
	return r.queryHistory(ctx, query, from, to)
}

// CountByCategory returns the number of entries per category.
func (r *HistoryRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	query := `SELECT category, COUNT(*) FROM ride_history GROUP BY category`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

func (r *HistoryRepository) queryHistory(ctx context.Context, query string, args ...any) ([]*domain.RideHistory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.RideHistory
	for rows.Next() {
		var entry domain.RideHistory
		var driverID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.RideID, &entry.PassengerEmail, &driverID,
			&entry.DriverName, &entry.Category, &entry.OriginAddress, &entry.DestinationAddress,
			&entry.FinalPrice, &entry.PaymentMethodLabel, &entry.RecordedAt); err != nil {
			return nil, err
		}
		entry.DriverID = driverID.String
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
