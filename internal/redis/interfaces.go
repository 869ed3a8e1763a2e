package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error)
	ReleaseDriverLock(ctx context.Context, driverID string) error
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error)
	ReleaseRideLock(ctx context.Context, rideID string) error
}

// AddressStoreInterface defines the interface for the driver address store.
type AddressStoreInterface interface {
	SetAddress(ctx context.Context, driverID, address string) error
	GetAddress(ctx context.Context, driverID string) (string, error)
	RemoveAddress(ctx context.Context, driverID string) error
}

// AvailabilitySetInterface defines the per-category available-driver sets.
type AvailabilitySetInterface interface {
	AddAvailableDriver(ctx context.Context, category, driverID string) error
	RemoveAvailableDriver(ctx context.Context, category, driverID string) error
	AvailableDrivers(ctx context.Context, category string) ([]string, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface       = (*LockStore)(nil)
	_ AddressStoreInterface    = (*AddressStore)(nil)
	_ AvailabilitySetInterface = (*CacheStore)(nil)
)
