package tests

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	order    []string

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		accounts: make(map[string]domain.Account),
	}
}

// AddAccount adds an account to the mock repository.
func (m *MockUserRepository) AddAccount(account domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[account.AccountID()]; !exists {
		m.order = append(m.order, account.AccountID())
	}
	m.accounts[account.AccountID()] = account
}

func (m *MockUserRepository) Create(ctx context.Context, account domain.Account) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddAccount(copyAccount(account))
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.EmailAddress() == email {
			return copyAccount(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyAccount(account), nil
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Account, 0, len(m.accounts))
	for _, id := range m.order {
		result = append(result, copyAccount(m.accounts[id]))
	}
	return result, nil
}

func (m *MockUserRepository) Update(ctx context.Context, account domain.Account) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.AccountID()]; !ok {
		return repository.ErrNotFound
	}
	m.accounts[account.AccountID()] = copyAccount(account)
	return nil
}

// GetDriver returns the stored driver for test assertions.
func (m *MockUserRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, _ := m.accounts[id].(*domain.Driver)
	return driver
}

// GetPassenger returns the stored passenger for test assertions.
func (m *MockUserRepository) GetPassenger(id string) *domain.Passenger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	passenger, _ := m.accounts[id].(*domain.Passenger)
	return passenger
}

// copyAccount returns a copy to avoid mutation issues.
func copyAccount(account domain.Account) domain.Account {
	switch a := account.(type) {
	case *domain.Passenger:
		copy := *a
		return &copy
	case *domain.Driver:
		copy := *a
		return &copy
	default:
		return account
	}
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	AddCallCount    int32
	UpdateCallCount int32

	// Error injection
	AddError    error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Add(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.AddCallCount, 1)
	if m.AddError != nil {
		return m.AddError
	}
	copy := *ride
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

func (m *MockRideRepository) FindByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) FindByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.Status == status {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequestedAt.Before(result[j].RequestedAt)
	})
	return result, nil
}

func (m *MockRideRepository) FindByPassengerEmail(ctx context.Context, email string) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if r.PassengerEmail == email {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK HISTORY REPOSITORY
// ──────────────────────────────────────────────

// MockHistoryRepository is a mock implementation of HistoryRepository.
type MockHistoryRepository struct {
	mu      sync.RWMutex
	entries []*domain.RideHistory

	// Counters
	AddCallCount int32

	// Error injection
	AddError error
}

// NewMockHistoryRepository creates a new mock history repository.
func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{}
}

func (m *MockHistoryRepository) Add(ctx context.Context, entry *domain.RideHistory) error {
	atomic.AddInt32(&m.AddCallCount, 1)
	if m.AddError != nil {
		return m.AddError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockHistoryRepository) FindByPassengerEmail(ctx context.Context, email string) ([]*domain.RideHistory, error) {
	return m.filter(func(e *domain.RideHistory) bool { return e.PassengerEmail == email }), nil
}

func (m *MockHistoryRepository) FindByDriverID(ctx context.Context, driverID string) ([]*domain.RideHistory, error) {
	return m.filter(func(e *domain.RideHistory) bool { return e.DriverID == driverID }), nil
}

func (m *MockHistoryRepository) FindByCategory(ctx context.Context, category string) ([]*domain.RideHistory, error) {
	return m.filter(func(e *domain.RideHistory) bool { return e.Category == category }), nil
}

func (m *MockHistoryRepository) FindByPassengerAndCategory(ctx context.Context, email, category string) ([]*domain.RideHistory, error) {
	return m.filter(func(e *domain.RideHistory) bool {
		return e.PassengerEmail == email && e.Category == category
	}), nil
}

func (m *MockHistoryRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]*domain.RideHistory, error) {
	return m.filter(func(e *domain.RideHistory) bool {
		return !e.RecordedAt.Before(from) && !e.RecordedAt.After(to)
	}), nil
}

func (m *MockHistoryRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int64)
	for _, e := range m.entries {
		counts[e.Category]++
	}
	return counts, nil
}

func (m *MockHistoryRepository) filter(keep func(*domain.RideHistory) bool) []*domain.RideHistory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.RideHistory
	for _, e := range m.entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// CountEntries returns the number of history entries.
func (m *MockHistoryRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireDriverLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:driver:"+driverID, ttl)
}

func (m *MockLockStore) ReleaseDriverLock(ctx context.Context, driverID string) error {
	return m.release("lock:driver:" + driverID)
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:ride:"+rideID, ttl)
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	return m.release("lock:ride:" + rideID)
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// IsDriverLocked checks if a driver is locked (for test assertions).
func (m *MockLockStore) IsDriverLocked(driverID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:driver:"+driverID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK ADDRESS STORE
// ──────────────────────────────────────────────

// MockAddressStore is a mock implementation of AddressStoreInterface.
type MockAddressStore struct {
	mu        sync.RWMutex
	addresses map[string]string

	// Counters
	SetCallCount int32
}

// NewMockAddressStore creates a new mock address store.
func NewMockAddressStore() *MockAddressStore {
	return &MockAddressStore{addresses: make(map[string]string)}
}

func (m *MockAddressStore) SetAddress(ctx context.Context, driverID, address string) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[driverID] = address
	return nil
}

func (m *MockAddressStore) GetAddress(ctx context.Context, driverID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.addresses[driverID], nil
}

func (m *MockAddressStore) RemoveAddress(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.addresses, driverID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records lifecycle events for assertions.
type MockNotifier struct {
	RequestedCount int32
	AssignedCount  int32
	StartedCount   int32
	CompletedCount int32
	CancelledCount int32
	PaymentCount   int32
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) RideRequested(ctx context.Context, ride *domain.Ride) {
	atomic.AddInt32(&m.RequestedCount, 1)
}

func (m *MockNotifier) DriverAssigned(ctx context.Context, ride *domain.Ride, driver *domain.Driver) {
	atomic.AddInt32(&m.AssignedCount, 1)
}

func (m *MockNotifier) RideStarted(ctx context.Context, ride *domain.Ride) {
	atomic.AddInt32(&m.StartedCount, 1)
}

func (m *MockNotifier) RideCompleted(ctx context.Context, ride *domain.Ride) {
	atomic.AddInt32(&m.CompletedCount, 1)
}

func (m *MockNotifier) RideCancelled(ctx context.Context, ride *domain.Ride) {
	atomic.AddInt32(&m.CancelledCount, 1)
}

func (m *MockNotifier) PaymentProcessed(ctx context.Context, ride *domain.Ride, amount float64, approved bool) {
	atomic.AddInt32(&m.PaymentCount, 1)
}

var _ service.Notifier = (*MockNotifier)(nil)

// ──────────────────────────────────────────────
// MOCK PAYMENT GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mu sync.Mutex

	// Control behavior
	Decline   bool
	FailError error

	// Counters
	ChargeCallCount int32
	LastAmount      float64
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) Charge(ctx context.Context, passengerEmail string, amount float64, method string) (bool, error) {
	atomic.AddInt32(&m.ChargeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastAmount = amount
	if m.FailError != nil {
		return false, m.FailError
	}
	if m.Decline {
		return false, nil
	}
	return true, nil
}

var _ service.PaymentGateway = (*MockGateway)(nil)

// ──────────────────────────────────────────────
// MOCK AVAILABILITY SET
// ──────────────────────────────────────────────

// MockAvailabilitySet is a mock implementation of AvailabilitySetInterface.
// Categories are keyed case-insensitively, matching the redis store.
type MockAvailabilitySet struct {
	mu      sync.RWMutex
	members map[string]map[string]bool

	// Counters
	AddCallCount    int32
	RemoveCallCount int32

	// Control behavior
	ReadError error
}

// NewMockAvailabilitySet creates a new mock availability set.
func NewMockAvailabilitySet() *MockAvailabilitySet {
	return &MockAvailabilitySet{members: make(map[string]map[string]bool)}
}

func (m *MockAvailabilitySet) AddAvailableDriver(ctx context.Context, category, driverID string) error {
	atomic.AddInt32(&m.AddCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(category)
	if m.members[key] == nil {
		m.members[key] = make(map[string]bool)
	}
	m.members[key][driverID] = true
	return nil
}

func (m *MockAvailabilitySet) RemoveAvailableDriver(ctx context.Context, category, driverID string) error {
	atomic.AddInt32(&m.RemoveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members[strings.ToLower(category)], driverID)
	return nil
}

func (m *MockAvailabilitySet) AvailableDrivers(ctx context.Context, category string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	var ids []string
	for id := range m.members[strings.ToLower(category)] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Contains checks set membership (for test assertions).
func (m *MockAvailabilitySet) Contains(category, driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.members[strings.ToLower(category)][driverID]
}

var _ redis.AvailabilitySetInterface = (*MockAvailabilitySet)(nil)

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
