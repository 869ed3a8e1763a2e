package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles quote caching and the per-category available-driver sets.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// QuoteCacheTTL is short: quotes depend on the dynamic fare factor, and the
// factor is part of the cache key, so stale entries simply age out.
const QuoteCacheTTL = 30 * time.Second

const (
	quoteCachePrefix      = "cache:quotes:"
	availableDriverPrefix = "drivers:available:"
)

// CachedQuote mirrors a pricing quote for cache serialization.
type CachedQuote struct {
	Category     string  `json:"category"`
	DistanceKm   float64 `json:"distance_km"`
	EtaMinutes   int     `json:"eta_minutes"`
	BaseFare     float64 `json:"base_fare"`
	DistanceCost float64 `json:"distance_cost"`
	TimeCost     float64 `json:"time_cost"`
	TotalPrice   float64 `json:"total_price"`
}

func quoteCacheKey(origin, destination string, fareFactor float64) string {
	return fmt.Sprintf("%s%s|%s|%.4f", quoteCachePrefix, origin, destination, fareFactor)
}

// GetQuotes retrieves a cached quote list for a route. Returns nil on a miss.
func (s *CacheStore) GetQuotes(ctx context.Context, origin, destination string, fareFactor float64) ([]CachedQuote, error) {
	data, err := s.client.Get(ctx, quoteCacheKey(origin, destination, fareFactor)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var quotes []CachedQuote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// SetQuotes stores a quote list for a route.
func (s *CacheStore) SetQuotes(ctx context.Context, origin, destination string, fareFactor float64, quotes []CachedQuote) error {
	data, err := json.Marshal(quotes)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, quoteCacheKey(origin, destination, fareFactor), data, QuoteCacheTTL).Err()
}

func availableDriverKey(category string) string {
	return availableDriverPrefix + strings.ToLower(category)
}

// AddAvailableDriver adds a driver to the available set of its category.
func (s *CacheStore) AddAvailableDriver(ctx context.Context, category, driverID string) error {
	return s.client.SAdd(ctx, availableDriverKey(category), driverID).Err()
}

// RemoveAvailableDriver removes a driver from the available set of its category.
func (s *CacheStore) RemoveAvailableDriver(ctx context.Context, category, driverID string) error {
	return s.client.SRem(ctx, availableDriverKey(category), driverID).Err()
}

// AvailableDrivers returns the IDs of drivers marked available in a category.
func (s *CacheStore) AvailableDrivers(ctx context.Context, category string) ([]string, error) {
	return s.client.SMembers(ctx, availableDriverKey(category)).Result()
}
