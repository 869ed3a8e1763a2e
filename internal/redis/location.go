package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const driverAddressKey = "drivers:addresses"

// AddressStore keeps the last address each driver reported. Addresses are
// opaque strings here, so a plain hash replaces a geo index.
type AddressStore struct {
	client *redis.Client
}

// NewAddressStore creates a new AddressStore.
func NewAddressStore(client *redis.Client) *AddressStore {
	return &AddressStore{client: client}
}

// SetAddress stores a driver's current address.
func (s *AddressStore) SetAddress(ctx context.Context, driverID, address string) error {
	return s.client.HSet(ctx, driverAddressKey, driverID, address).Err()
}

// GetAddress returns a driver's last reported address, or "" when unknown.
func (s *AddressStore) GetAddress(ctx context.Context, driverID string) (string, error) {
	address, err := s.client.HGet(ctx, driverAddressKey, driverID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return address, nil
}

// RemoveAddress drops a driver's address, e.g. when the driver goes offline.
func (s *AddressStore) RemoveAddress(ctx context.Context, driverID string) error {
	return s.client.HDel(ctx, driverAddressKey, driverID).Err()
}
