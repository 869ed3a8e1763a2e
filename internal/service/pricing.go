package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"ridehail/internal/domain"
	"ridehail/internal/geo"
	"ridehail/internal/redis"
)

// PricingService owns the tariff table and the dynamic fare factor and turns
// routes into priced quotes. The tariff set is fixed at construction; the
// fare factor is the only mutable state and is guarded by the mutex.
type PricingService struct {
	estimator  *geo.Estimator
	cacheStore *redis.CacheStore // optional quote cache

	mu         sync.RWMutex
	tariffs    map[string]*domain.Tariff
	order      []string // category insertion order; keeps quote ties stable
	fareFactor float64
}

// NewPricingService creates a PricingService with the default tariff table.
// A non-positive defaultFareFactor falls back to 1.0.
func NewPricingService(estimator *geo.Estimator, cacheStore *redis.CacheStore, defaultFareFactor float64) *PricingService {
	s := &PricingService{
		estimator:  estimator,
		cacheStore: cacheStore,
		tariffs:    make(map[string]*domain.Tariff),
		fareFactor: 1.0,
	}
	if defaultFareFactor > 0 {
		s.fareFactor = defaultFareFactor
	}

	for _, t := range defaultTariffs() {
		s.tariffs[t.Category] = t
		s.order = append(s.order, t.Category)
	}

	return s
}

func defaultTariffs() []*domain.Tariff {
	return []*domain.Tariff{
		{Category: "UberX", BaseFare: 2.50, PricePerKm: 1.20, PricePerMinute: 0.30, AverageSpeedKmH: 30.0},
		{Category: "Uber Comfort", BaseFare: 3.00, PricePerKm: 1.50, PricePerMinute: 0.35, AverageSpeedKmH: 35.0},
		{Category: "Uber Black", BaseFare: 4.00, PricePerKm: 2.00, PricePerMinute: 0.50, AverageSpeedKmH: 40.0, Premium: true},
		{Category: "Uber Bag", BaseFare: 2.80, PricePerKm: 1.30, PricePerMinute: 0.32, AverageSpeedKmH: 28.0},
		{Category: "Uber XL", BaseFare: 3.50, PricePerKm: 1.80, PricePerMinute: 0.40, AverageSpeedKmH: 32.0},
	}
}

// Quote prices one category for a route.
func (s *PricingService) Quote(origin, destination, category string) (*domain.PricingQuote, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	if origin == "" {
		return nil, ErrOriginRequired
	}
	if destination == "" {
		return nil, ErrDestinationRequired
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrCategoryRequired
	}

	s.mu.RLock()
	tariff, ok := s.tariffs[category]
	factor := s.fareFactor
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownCategory
	}

	return s.buildQuote(origin, destination, tariff, factor), nil
}

// QuoteAll prices every known category for a route, sorted ascending by total
// price. Ties keep the tariff table's insertion order.
func (s *PricingService) QuoteAll(ctx context.Context, origin, destination string) ([]*domain.PricingQuote, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)

	if origin == "" {
		return nil, ErrOriginRequired
	}
	if destination == "" {
		return nil, ErrDestinationRequired
	}

	s.mu.RLock()
	factor := s.fareFactor
	categories := make([]*domain.Tariff, 0, len(s.order))
	for _, name := range s.order {
		categories = append(categories, s.tariffs[name])
	}
	s.mu.RUnlock()

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetQuotes(ctx, origin, destination, factor); err == nil && cached != nil {
			return fromCachedQuotes(cached), nil
		}
	}

	quotes := make([]*domain.PricingQuote, 0, len(categories))
	for _, tariff := range categories {
		quotes = append(quotes, s.buildQuote(origin, destination, tariff, factor))
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].TotalPrice < quotes[j].TotalPrice
	})

	if s.cacheStore != nil {
		_ = s.cacheStore.SetQuotes(ctx, origin, destination, factor, toCachedQuotes(quotes))
	}

	return quotes, nil
}

func (s *PricingService) buildQuote(origin, destination string, tariff *domain.Tariff, factor float64) *domain.PricingQuote {
	distance := s.estimator.DistanceKm(origin, destination)
	eta := s.estimator.TravelTimeMinutes(distance, tariff.AverageSpeedKmH)

	distanceCost := distance * tariff.PricePerKm
	timeCost := float64(eta) * tariff.PricePerMinute
	total := (tariff.BaseFare + distanceCost + timeCost) * factor

	return &domain.PricingQuote{
		Category:     tariff.Category,
		DistanceKm:   distance,
		EtaMinutes:   eta,
		BaseFare:     tariff.BaseFare,
		DistanceCost: round2(distanceCost),
		TimeCost:     round2(timeCost),
		TotalPrice:   round2(total),
	}
}

// SetDynamicFareFactor updates the process-wide fare multiplier. Non-positive
// values are silently ignored, preserving the last valid factor.
func (s *PricingService) SetDynamicFareFactor(factor float64) {
	if factor <= 0 {
		return
	}
	s.mu.Lock()
	s.fareFactor = factor
	s.mu.Unlock()
}

// DynamicFareFactor returns the current fare multiplier.
func (s *PricingService) DynamicFareFactor() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fareFactor
}

// TariffFor returns a copy of the tariff for a category.
func (s *PricingService) TariffFor(category string) (domain.Tariff, error) {
	if strings.TrimSpace(category) == "" {
		return domain.Tariff{}, ErrCategoryRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tariff, ok := s.tariffs[category]
	if !ok {
		return domain.Tariff{}, ErrUnknownCategory
	}
	return *tariff, nil
}

// SpeedForCategory returns the average speed configured for a category.
func (s *PricingService) SpeedForCategory(category string) (float64, error) {
	tariff, err := s.TariffFor(category)
	if err != nil {
		return 0, err
	}
	return tariff.AverageSpeedKmH, nil
}

// IsPremium reports whether a category dispatches on rating before distance.
func (s *PricingService) IsPremium(category string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tariff, ok := s.tariffs[category]
	return ok && tariff.Premium
}

// Categories returns the known category names in insertion order.
func (s *PricingService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toCachedQuotes(quotes []*domain.PricingQuote) []redis.CachedQuote {
	out := make([]redis.CachedQuote, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, redis.CachedQuote{
			Category:     q.Category,
			DistanceKm:   q.DistanceKm,
			EtaMinutes:   q.EtaMinutes,
			BaseFare:     q.BaseFare,
			DistanceCost: q.DistanceCost,
			TimeCost:     q.TimeCost,
			TotalPrice:   q.TotalPrice,
		})
	}
	return out
}

func fromCachedQuotes(cached []redis.CachedQuote) []*domain.PricingQuote {
	out := make([]*domain.PricingQuote, 0, len(cached))
	for _, q := range cached {
		out = append(out, &domain.PricingQuote{
			Category:     q.Category,
			DistanceKm:   q.DistanceKm,
			EtaMinutes:   q.EtaMinutes,
			BaseFare:     q.BaseFare,
			DistanceCost: q.DistanceCost,
			TimeCost:     q.TimeCost,
			TotalPrice:   q.TotalPrice,
		})
	}
	return out
}
