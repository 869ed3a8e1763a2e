package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RegisterPassengerRequest carries the input for passenger registration.
type RegisterPassengerRequest struct {
	Name  string
	Email string
	Phone string
}

// RegisterDriverRequest carries the input for driver registration.
type RegisterDriverRequest struct {
	Name            string
	Email           string
	Phone           string
	LicenseDoc      string
	VehicleCategory string
	VehiclePlate    string
	Address         string
}

// UserService registers and looks up accounts.
type UserService struct {
	userRepo repository.UserRepository
	pricing  *PricingService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, pricing *PricingService) *UserService {
	return &UserService{userRepo: userRepo, pricing: pricing}
}

// RegisterPassenger creates a passenger account.
func (s *UserService) RegisterPassenger(ctx context.Context, req RegisterPassengerRequest) (*domain.Passenger, error) {
	name, email, err := s.validateIdentity(ctx, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	passenger := &domain.Passenger{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

// RegisterDriver creates a driver account. New drivers start unavailable
// until they open for rides.
func (s *UserService) RegisterDriver(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	name, email, err := s.validateIdentity(ctx, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.VehicleCategory)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if _, err := s.pricing.TariffFor(category); err != nil {
		log.Printf("driver %s registered with unknown vehicle category %q", email, category)
	}

	driver := &domain.Driver{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		Phone:           strings.TrimSpace(req.Phone),
		LicenseDoc:      strings.TrimSpace(req.LicenseDoc),
		VehicleCategory: category,
		VehiclePlate:    strings.TrimSpace(req.VehiclePlate),
		CurrentLocation: domain.NewLocation(req.Address),
		Available:       false,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// GetByEmail returns the account registered under an email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
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
	return account, nil
}

// List returns every registered account.
func (s *UserService) List(ctx context.Context) ([]domain.Account, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *UserService) validateIdentity(ctx context.Context, name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrNameRequired
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", "", ErrEmailRequired
	}
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return "", "", ErrInvalidEmail
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return "", "", ErrEmailAlreadyUsed
	} else if err != repository.ErrNotFound {
		return "", "", err
	}

	return name, email, nil
}
