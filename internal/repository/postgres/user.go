package postgres

import (
	"context"
	"database/sql"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
// Passengers and drivers share the users table; the role column picks the
// concrete type on the way out.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, role, name, email, phone, license_doc, vehicle_category,
	vehicle_plate, current_address, available, avg_rating, rating_count, created_at`

// Create adds a new account.
func (r *UserRepository) Create(ctx context.Context, account domain.Account) error {
	query := `INSERT INTO users (id, role, name, email, phone, license_doc, vehicle_category,
		vehicle_plate, current_address, available, avg_rating, rating_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	switch a := account.(type) {
	case *domain.Passenger:
		_, err := r.db.ExecContext(ctx, query,
			a.ID, domain.RolePassenger, a.Name, a.Email, a.Phone,
			nil, nil, nil, nil, false, a.AvgRating, a.RatingCount, a.CreatedAt)
		return err
	case *domain.Driver:
		_, err := r.db.ExecContext(ctx, query,
			a.ID, domain.RoleDriver, a.Name, a.Email, a.Phone,
			a.LicenseDoc, a.VehicleCategory, a.VehiclePlate, a.CurrentLocation.Address,
			a.Available, a.AvgRating, a.RatingCount, a.CreatedAt)
		return err
	default:
		return repository.ErrUnsupportedAccount
	}
}

// FindByEmail retrieves an account by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// FindByID retrieves an account by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// FindAll retrieves all accounts.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update persists the mutable account fields.
func (r *UserRepository) Update(ctx context.Context, account domain.Account) error {
	query := `UPDATE users SET name = $2, phone = $3, current_address = $4,
		available = $5, avg_rating = $6, rating_count = $7 WHERE id = $1`

	switch a := account.(type) {
	case *domain.Passenger:
		res, err := r.db.ExecContext(ctx, query,
			a.ID, a.Name, a.Phone, nil, false, a.AvgRating, a.RatingCount)
		return checkAffected(res, err)
	case *domain.Driver:
		res, err := r.db.ExecContext(ctx, query,
			a.ID, a.Name, a.Phone, a.CurrentLocation.Address, a.Available, a.AvgRating, a.RatingCount)
		return checkAffected(res, err)
	default:
		return repository.ErrUnsupportedAccount
	}
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		id, name, email string
		role            domain.AccountRole
		phone           sql.NullString
		licenseDoc      sql.NullString
		vehicleCategory sql.NullString
		vehiclePlate    sql.NullString
		currentAddress  sql.NullString
		available       bool
		avgRating       float64
		ratingCount     int
		createdAt       sql.NullTime
	)

	err := row.Scan(&id, &role, &name, &email, &phone, &licenseDoc, &vehicleCategory,
		&vehiclePlate, &currentAddress, &available, &avgRating, &ratingCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if role == domain.RoleDriver {
		return &domain.Driver{
			ID:              id,
			Name:            name,
			Email:           email,
			Phone:           phone.String,
			LicenseDoc:      licenseDoc.String,
			VehicleCategory: vehicleCategory.String,
			VehiclePlate:    vehiclePlate.String,
			CurrentLocation: domain.NewLocation(currentAddress.String),
			Available:       available,
			AvgRating:       avgRating,
			RatingCount:     ratingCount,
			CreatedAt:       createdAt.Time,
		}, nil
	}

	return &domain.Passenger{
		ID:          id,
		Name:        name,
		Email:       email,
		Phone:       phone.String,
		AvgRating:   avgRating,
		RatingCount: ratingCount,
		CreatedAt:   createdAt.Time,
	}, nil
}
