package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// HistoryRecorder is the write side of the ride history. The lifecycle
// service depends on this interface so finalization can be tested without
// the full query service.
type HistoryRecorder interface {
	Record(ctx context.Context, ride *domain.Ride, driverName string, finalPrice float64) error
}

// HistoryService records finalized rides and answers queries over them.
type HistoryService struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(historyRepo repository.HistoryRepository) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

var _ HistoryRecorder = (*HistoryService)(nil)

// Record appends a history entry for a finalized ride.
func (s *HistoryService) Record(ctx context.Context, ride *domain.Ride, driverName string, finalPrice float64) error {
	entry := &domain.RideHistory{
		ID:                 uuid.New().String(),
		RideID:             ride.ID,
		PassengerEmail:     ride.PassengerEmail,
		DriverID:           ride.DriverID,
		DriverName:         driverName,
		Category:           ride.Category,
		OriginAddress:      ride.Origin.Address,
		DestinationAddress: ride.Destination.Address,
		FinalPrice:         finalPrice,
		PaymentMethodLabel: ride.PaymentMethod.Label(),
		RecordedAt:         time.Now().UTC(),
	}
	return s.historyRepo.Add(ctx, entry)
}

// ForPassenger returns the history entries of one passenger.
func (s *HistoryService) ForPassenger(ctx context.Context, email string) ([]*domain.RideHistory, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	return s.historyRepo.FindByPassengerEmail(ctx, email)
}

// ForDriver returns the history entries of one driver.
func (s *HistoryService) ForDriver(ctx context.Context, driverID string) ([]*domain.RideHistory, error) {
	if strings.TrimSpace(driverID) == "" {
		return nil, ErrNotADriver
	}
	return s.historyRepo.FindByDriverID(ctx, driverID)
}

// ForCategory returns all history entries of one vehicle category.
func (s *HistoryService) ForCategory(ctx context.Context, category string) ([]*domain.RideHistory, error) {
	if strings.TrimSpace(category) == "" {
		return nil, ErrCategoryRequired
	}
	return s.historyRepo.FindByCategory(ctx, category)
}

// ForPassengerAndCategory narrows a passenger's history to one category.
func (s *HistoryService) ForPassengerAndCategory(ctx context.Context, email, category string) ([]*domain.RideHistory, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrCategoryRequired
	}
	return s.historyRepo.FindByPassengerAndCategory(ctx, email, category)
}

// ForDateRange returns entries recorded within [start, end].
func (s *HistoryService) ForDateRange(ctx context.Context, start, end time.Time) ([]*domain.RideHistory, error) {
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	return s.historyRepo.FindByDateRange(ctx, start, end)
}

// Statistics summarizes a passenger's ride history.
type Statistics struct {
	TotalRides      int
	TotalSpent      float64
	RidesByCategory map[string]int
}

// StatisticsForPassenger aggregates counts and spend over a passenger's history.
func (s *HistoryService) StatisticsForPassenger(ctx context.Context, email string) (*Statistics, error) {
	entries, err := s.ForPassenger(ctx, email)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{RidesByCategory: make(map[string]int)}
	for _, e := range entries {
		stats.TotalRides++
		stats.TotalSpent += e.FinalPrice
		stats.RidesByCategory[e.Category]++
	}
	stats.TotalSpent = round2(stats.TotalSpent)
	return stats, nil
}

// CountByCategory returns the number of finalized rides per category.
func (s *HistoryService) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return s.historyRepo.CountByCategory(ctx)
}
